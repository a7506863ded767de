package dictionary

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different word list file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatChunk              // dict_NNNN.bin chunked binary
	FormatText               // one word per line
)

// maxChunkEntries caps the header of a chunk file; anything above is treated as corrupt.
const maxChunkEntries = 1000000

// FormatInfo contains metadata about a word list file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatChunk: {
		Format:      FormatChunk,
		Description: "Chunked Binary Word List",
		Extensions:  []string{".bin"},
		MinSize:     4, // entry count header
	},
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Word List",
		Extensions:  []string{".txt"},
		MinSize:     0,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "Unknown"
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expectedFormat FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(formatInfo.Extensions, ext) {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, formatInfo.Description, formatInfo.Extensions)
	}

	if expectedFormat == FormatChunk {
		return validateChunkHeader(filename)
	}
	return nil
}

// validateChunkHeader reads the entry count header of a chunk file
func validateChunkHeader(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var entries int32
	if err := binary.Read(file, binary.LittleEndian, &entries); err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	if entries < 0 {
		return fmt.Errorf("invalid entry count in %s: %d (negative)", filename, entries)
	}
	if entries > maxChunkEntries {
		return fmt.Errorf("suspicious entry count in %s: %d (too large)", filename, entries)
	}

	log.Debugf("Chunk file %s validated: %d entries", filename, entries)
	return nil
}

// DetectFileFormat picks the format from the file name and checks the file against it
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	basename := strings.ToLower(filepath.Base(filename))

	var format FileFormat
	switch {
	case strings.HasPrefix(basename, "dict_") && ext == ".bin":
		format = FormatChunk
	case ext == ".txt":
		format = FormatText
	default:
		return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
	}

	if err := ValidateFileFormat(filename, format); err != nil {
		return FormatUnknown, err
	}
	return format, nil
}
