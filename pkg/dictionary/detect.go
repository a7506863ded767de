package dictionary

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readDetected reads a whole text list, guesses its charset and parses it.
func (l *Loader) readDetected(r io.Reader, filename string) ([]Entry, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	enc := l.detectEncoding(data, filename)
	return l.readText(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()), filename)
}

// detectEncoding falls back to UTF-8 when the charset is unknown or detection fails.
func (l *Loader) detectEncoding(data []byte, filename string) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		l.log.Debugf("Charset detection failed for %s: %v, using UTF-8", filename, err)
		return unicode.UTF8BOM
	}
	l.log.Debugf("Detected %s (confidence %d) for %s", result.Charset, result.Confidence, filename)

	switch strings.ToLower(result.Charset) {
	case "utf-8":
		return unicode.UTF8BOM
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case "iso-8859-1":
		return charmap.ISO8859_1
	case "windows-1252":
		return charmap.Windows1252
	case "gb-18030", "gbk", "gb2312":
		return simplifiedchinese.GB18030
	case "big5":
		return traditionalchinese.Big5
	case "shift_jis":
		return japanese.ShiftJIS
	case "euc-jp":
		return japanese.EUCJP
	default:
		l.log.Warnf("Unsupported charset %s in %s, using UTF-8", result.Charset, filename)
		return unicode.UTF8BOM
	}
}
