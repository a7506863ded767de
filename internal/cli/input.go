// Package cli implements an interactive prompt over the word index for debugging and testing.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/index"
	"github.com/charmbracelet/log"
)

// InputHandler reads lines from the user and runs them against the index.
//
//	+word [n]  records n (default 1) occurrences of word
//	?word      prints how often word was recorded
//	anything   lists the words starting with it
type InputHandler struct {
	index           index.Searcher
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	requestCount    int
	noFilter        bool
	out             *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(idx index.Searcher, minLength, maxLength, limit int, noFilter bool) *InputHandler {
	return &InputHandler{
		index:           idx,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
	}
}

// Start runs the prompt on stdin and stderr until stdin is closed.
func (h *InputHandler) Start() error {
	return h.Run(os.Stdin, os.Stderr)
}

// Run reads commands from r and prints the results to w. It returns nil at EOF.
func (h *InputHandler) Run(r io.Reader, w io.Writer) error {
	h.out = log.NewWithOptions(w, log.Options{Level: log.GetLevel()})
	h.out.Print("WordTrie CLI")
	h.out.Print("type a prefix, +word [n] to add or ?word to count (Ctrl+C to exit):")

	reader := bufio.NewReader(r)
	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	switch {
	case strings.HasPrefix(line, "+"):
		h.handleAdd(strings.Fields(line[1:]))
	case strings.HasPrefix(line, "?"):
		h.handleCount(strings.TrimSpace(line[1:]))
	default:
		h.handleSearch(line)
	}
}

func (h *InputHandler) handleAdd(fields []string) {
	if len(fields) == 0 || len(fields) > 2 {
		h.out.Error("usage: +word [n]")
		return
	}
	n := 1
	if len(fields) == 2 {
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			h.out.Errorf("Bad count %q", fields[1])
			return
		}
		n = v
	}
	if err := h.index.AddWordCount(fields[0], n); err != nil {
		h.out.Errorf("Cannot add: %v", err)
		return
	}
	h.out.Printf("%s (count: %s)", fields[0], utils.FormatWithCommas(h.index.GetCount(fields[0])))
}

func (h *InputHandler) handleCount(word string) {
	if word == "" {
		h.out.Error("usage: ?word")
		return
	}
	h.out.Printf("%s (count: %s)", word, utils.FormatWithCommas(h.index.GetCount(word)))
}

// handleSearch validates the prefix's length and content, then prints the
// words the index returns for it.
func (h *InputHandler) handleSearch(prefix string) {
	prefixLen := utf8.RuneCountInString(prefix)
	if prefixLen < h.minPrefixLength {
		h.out.Errorf("Prefix too short: %s", prefix)
		return
	}
	if h.maxPrefixLength > 0 && prefixLen > h.maxPrefixLength {
		h.out.Errorf("Prefix too long: %s", prefix)
		return
	}

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter && !utils.IsValidInput(prefix) {
		h.out.Warnf("Not searching for filtered prefix: '%s'", prefix)
		return
	}

	start := time.Now()
	words := h.index.SearchLimit(prefix, h.suggestLimit)
	log.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if len(words) == 0 {
		h.out.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}

	h.out.Printf("Found %d suggestions for prefix '%s':", len(words), prefix)
	for i, word := range words {
		count := utils.FormatWithCommas(h.index.GetCount(word))
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", word)
		h.out.Printf("%2d. %-40s (count: %8s)", i+1, clWord, count)
	}
}
