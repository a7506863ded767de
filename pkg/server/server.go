package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/logger"
	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/index"
	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const codeBadRequest = 400

// Server handles the IPC for the word index
type Server struct {
	index        index.Searcher
	config       *config.Config
	configPath   string
	log          *log.Logger
	requestCount int
}

// NewServer creates a server; configPath is where "config" updates are saved, empty for none.
func NewServer(idx index.Searcher, cfg *config.Config, configPath string) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		index:      idx,
		config:     cfg,
		configPath: configPath,
		log:        logger.New("server"),
	}
}

// Start serves requests from stdin until it is closed.
func (s *Server) Start() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve answers every request read from r on w. It returns nil at EOF.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	s.log.Debug("Starting Server.")
	dec := msgpack.NewDecoder(bufio.NewReader(r))
	enc := msgpack.NewEncoder(w)

	if err := enc.Encode(StatusResponse{Status: "ready"}); err != nil {
		return fmt.Errorf("failed to announce readiness: %w", err)
	}

	for {
		// a whole value is read before decoding into Request so a bad
		// field type does not leave the stream mid-message
		raw, err := dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Client disconnected (EOF)")
				return nil
			}
			s.log.Errorf("Reading request: %v", err)
			return err
		}

		if err := enc.Encode(s.handleRaw(raw)); err != nil {
			s.log.Errorf("Writing response: %v", err)
			return err
		}
	}
}

func (s *Server) handleRaw(raw msgpack.RawMessage) any {
	s.requestCount++

	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.log.Errorf("Unmarshaling request: %v", err)
		return ErrorResponse{Error: "Invalid msgpack request", Code: codeBadRequest}
	}
	return s.handleRequest(req)
}

// handleRequest dispatches on the op
func (s *Server) handleRequest(req Request) any {
	switch req.Op {
	case "search":
		return s.handleSearch(req)
	case "add":
		return s.handleAdd(req)
	case "count":
		return s.handleCount(req)
	case "stats":
		stats := s.index.Stats()
		stats["requests"] = s.requestCount
		return StatsResponse{ID: req.ID, Stats: stats}
	case "health":
		return StatusResponse{ID: req.ID, Status: "ok"}
	case "config":
		return s.handleConfig(req)
	default:
		return errorResponse(req.ID, fmt.Sprintf("Unknown op: %q", req.Op), codeBadRequest)
	}
}

// handleSearch validates the prefix length, clamps the limit to max_results
// and ranks the words from 1 in the order they were found.
func (s *Server) handleSearch(req Request) any {
	prefixLen := utf8.RuneCountInString(req.Prefix)
	if prefixLen < s.config.Server.MinPrefix {
		s.log.Debug("Prefix is too short in request", "prefix", req.Prefix)
		return errorResponse(req.ID, fmt.Sprintf("Prefix must be at least %d characters", s.config.Server.MinPrefix), codeBadRequest)
	}
	if prefixLen > s.config.Server.MaxPrefix {
		s.log.Debug("Prefix is too long in request", "prefix", req.Prefix)
		return errorResponse(req.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", s.config.Server.MaxPrefix), codeBadRequest)
	}

	maxResults := min(s.config.Search.MaxResults, trie.MaxResults)
	limit := req.Limit
	if limit < 1 || limit > maxResults {
		limit = maxResults
	}

	start := time.Now()
	words := s.index.SearchLimit(req.Prefix, limit)
	elapsed := time.Since(start)

	suggestions := make([]Suggestion, len(words))
	for i, w := range words {
		suggestions[i] = Suggestion{
			Word:  w,
			Rank:  uint16(i + 1),
			Count: s.index.GetCount(w),
		}
	}

	return SearchResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}
}

func (s *Server) handleAdd(req Request) any {
	if !utils.IsValidWord(req.Word, s.config.Server.MaxWordLen) {
		return errorResponse(req.ID, "Missing or invalid 'w' parameter", codeBadRequest)
	}
	n := req.Count
	if n == 0 {
		n = 1
	}
	if maxCount := s.config.Dict.MaxCount; maxCount > 0 && n > maxCount {
		s.log.Warnf("Count %d for %q clamped to %d", n, req.Word, maxCount)
		n = maxCount
	}
	if err := s.index.AddWordCount(req.Word, n); err != nil {
		s.log.Debugf("Add rejected: %v", err)
		return errorResponse(req.ID, err.Error(), codeBadRequest)
	}
	return CountResponse{ID: req.ID, Status: "ok", Word: req.Word, Count: s.index.GetCount(req.Word)}
}

func (s *Server) handleCount(req Request) any {
	if req.Word == "" {
		return errorResponse(req.ID, "Missing 'w' parameter", codeBadRequest)
	}
	return CountResponse{ID: req.ID, Status: "ok", Word: req.Word, Count: s.index.GetCount(req.Word)}
}

func (s *Server) handleConfig(req Request) any {
	if req.MaxResults == nil || *req.MaxResults < 1 || *req.MaxResults > trie.MaxResults {
		return errorResponse(req.ID, fmt.Sprintf("'max_results' must be between 1 and %d", trie.MaxResults), codeBadRequest)
	}
	if err := s.config.Update(s.configPath, req.MaxResults, nil); err != nil {
		s.log.Errorf("Saving config to %s: %v", s.configPath, err)
		return ConfigResponse{
			ID:         req.ID,
			Status:     "error",
			MaxResults: s.config.Search.MaxResults,
			Error:      err.Error(),
		}
	}
	s.log.Debugf("max_results set to %d", s.config.Search.MaxResults)
	return ConfigResponse{ID: req.ID, Status: "ok", MaxResults: s.config.Search.MaxResults}
}

func errorResponse(id, message string, code int) ErrorResponse {
	return ErrorResponse{ID: id, Error: message, Code: code}
}
