// Package dictionary reads word lists from disk and feeds them into a word index.
package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned for a text encoding name the loader does not support.
var ErrUnknownEncoding = errors.New("dictionary: unknown encoding")

// patterns picked up when a directory is given to Load.
var listPatterns = []string{"*.txt", "dict_*.bin"}

// WordSink receives loaded words.
type WordSink interface {
	AddWordCount(word string, n int) error
}

// Entry is one word of a list with the number of occurrences to record.
type Entry struct {
	Word  string
	Count int
}

// Options control how word lists are read.
type Options struct {
	Encoding   string // text file encoding, "utf-8" when empty, "auto" to detect
	Workers    int    // files parsed at once
	MaxCount   int    // larger counts are clamped
	MaxWordLen int    // longer words are skipped, 0 for no limit
	Logger     *log.Logger
}

// LoadStats summarizes a Load call.
type LoadStats struct {
	Files       int
	Words       int
	Occurrences int
	Skipped     int
}

// Loader parses word list files in parallel.
type Loader struct {
	enc  encoding.Encoding
	opts Options
	log  *log.Logger
}

// NewLoader validates opts and creates a Loader.
func NewLoader(opts Options) (*Loader, error) {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	l := &Loader{enc: enc, opts: opts, log: opts.Logger}
	if l.log == nil {
		l.log = logger.New("dict")
	}
	return l, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "utf-16", "utf16":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "gbk", "gb18030":
		return simplifiedchinese.GB18030, nil
	case "big5":
		return traditionalchinese.Big5, nil
	case "shift-jis", "sjis":
		return japanese.ShiftJIS, nil
	case "auto":
		// detected per file
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// Load reads every file in paths, expanding directories to their *.txt and
// dict_*.bin files, and adds the words to sink in path order.
// Nothing is added when any file fails to parse.
func (l *Loader) Load(paths []string, sink WordSink) (LoadStats, error) {
	var stats LoadStats

	files, err := utils.ExpandPaths(paths, listPatterns...)
	if err != nil {
		return stats, fmt.Errorf("failed to expand word list paths: %w", err)
	}
	if len(files) == 0 {
		return stats, nil
	}

	parsed := make([][]Entry, len(files))
	var g errgroup.Group
	g.SetLimit(l.opts.Workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			entries, skipped, err := l.LoadFile(file)
			if err != nil {
				return err
			}
			if skipped > 0 {
				l.log.Warnf("Skipped %d invalid lines in %s", skipped, file)
			}
			parsed[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	stats.Files = len(files)
	for i, entries := range parsed {
		for _, e := range entries {
			if err := sink.AddWordCount(e.Word, e.Count); err != nil {
				l.log.Warnf("Rejected word %q from %s: %v", e.Word, files[i], err)
				stats.Skipped++
				continue
			}
			stats.Words++
			stats.Occurrences += e.Count
		}
		l.log.Debugf("Indexed %d entries from %s", len(entries), files[i])
	}
	return stats, nil
}

// LoadFile parses one word list. The int is the number of entries skipped as invalid.
func (l *Loader) LoadFile(filename string) ([]Entry, int, error) {
	format, err := DetectFileFormat(filename)
	if err != nil {
		return nil, 0, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open word list %s: %w", filename, err)
	}
	defer file.Close()

	switch format {
	case FormatChunk:
		return l.readChunk(bufio.NewReader(file), filename)
	default:
		if l.enc == nil {
			return l.readDetected(file, filename)
		}
		return l.readText(transform.NewReader(file, l.enc.NewDecoder()), filename)
	}
}

// readText parses "word" or "word count" lines; blank lines and # comments are ignored.
func (l *Loader) readText(r io.Reader, filename string) ([]Entry, int, error) {
	var entries []Entry
	var skipped int

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		count := 1
		switch len(fields) {
		case 1:
		case 2:
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 1 {
				l.log.Debugf("%s:%d: bad count %q", filename, lineNo, fields[1])
				skipped++
				continue
			}
			count = n
		default:
			l.log.Debugf("%s:%d: expected 'word [count]'", filename, lineNo)
			skipped++
			continue
		}

		if e, ok := l.entry(fields[0], count, filename); ok {
			entries = append(entries, e)
		} else {
			skipped++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return entries, skipped, nil
}

// readChunk parses the binary chunk layout: int32 entry count, then per
// entry a uint16 length, the word bytes and a uint16 count (little endian).
func (l *Loader) readChunk(r io.Reader, filename string) ([]Entry, int, error) {
	var total int32
	if err := binary.Read(r, binary.LittleEndian, &total); err != nil {
		return nil, 0, fmt.Errorf("failed to read chunk header: %w", err)
	}

	entries := make([]Entry, 0, total)
	var skipped int
	for i := 0; i < int(total); i++ {
		var wordLen uint16
		if err := binary.Read(r, binary.LittleEndian, &wordLen); err != nil {
			return nil, 0, fmt.Errorf("failed to read word length in %s: %w", filename, err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(r, wordBytes); err != nil {
			return nil, 0, fmt.Errorf("failed to read word in %s: %w", filename, err)
		}

		var count uint16
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, 0, fmt.Errorf("failed to read count in %s: %w", filename, err)
		}
		if count == 0 {
			skipped++
			continue
		}

		if e, ok := l.entry(string(wordBytes), int(count), filename); ok {
			entries = append(entries, e)
		} else {
			skipped++
		}
	}
	return entries, skipped, nil
}

func (l *Loader) entry(word string, count int, filename string) (Entry, bool) {
	if !utils.IsValidWord(word, l.opts.MaxWordLen) {
		return Entry{}, false
	}
	if l.opts.MaxCount > 0 && count > l.opts.MaxCount {
		l.log.Warnf("Count %d for %q in %s clamped to %d", count, word, filename, l.opts.MaxCount)
		count = l.opts.MaxCount
	}
	return Entry{Word: word, Count: count}, true
}
