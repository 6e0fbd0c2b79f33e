package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/corpusquery/internal/logger"
	"github.com/bastiangx/corpusquery/internal/utils"
	"github.com/bastiangx/corpusquery/pkg/config"
	"github.com/bastiangx/corpusquery/pkg/corpus"
	"github.com/bastiangx/corpusquery/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for title queries
type Server struct {
	completer    suggest.ICompleter
	config       *config.Config
	dec          *msgpack.Decoder
	out          *bufio.Writer
	enc          *msgpack.Encoder
	logger       *log.Logger
	requestCount int
}

// NewServer creates a server using stdin/stdout for IPC.
func NewServer(completer suggest.ICompleter, cfg *config.Config) *Server {
	return NewServerWithIO(completer, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing
// responses to w.
func NewServerWithIO(completer suggest.ICompleter, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	out := bufio.NewWriter(w)
	return &Server{
		completer: completer,
		config:    cfg,
		dec:       msgpack.NewDecoder(bufio.NewReader(r)),
		out:       out,
		enc:       msgpack.NewEncoder(out),
		logger:    logger.New("server"),
	}
}

// Start announces readiness and serves requests until the input ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting server")
	s.send(StatusResponse{Status: "ready"})

	for {
		// decode one raw frame first so a badly shaped request does not
		// desynchronize the stream
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return err
		}
		s.requestCount++
		s.handleFrame(raw)
	}
}

func (s *Server) handleFrame(raw msgpack.RawMessage) {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "Invalid msgpack request", 400)
		return
	}

	switch req.Op {
	case OpPrefix:
		s.handleQuery(req, suggest.ModePrefix)
	case OpContains:
		s.handleQuery(req, suggest.ModeContains)
	case OpInsert:
		s.handleInsert(req)
	case OpStats:
		s.send(StatsResponse{ID: req.ID, Stats: s.completer.Stats()})
	case OpHealth:
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown op: %q", req.Op), 404)
	}
}

// validateQuery checks a query against the configured bounds.
func (s *Server) validateQuery(q string) error {
	if !utils.IsValidQuery(q) {
		return errors.New("query must be valid UTF-8 without control characters")
	}
	n := utils.RuneLen(q)
	if n < s.config.Server.MinQuery {
		return fmt.Errorf("query must be at least %d characters", s.config.Server.MinQuery)
	}
	if n > s.config.Server.MaxQuery {
		return fmt.Errorf("query exceeds maximum length of %d characters", s.config.Server.MaxQuery)
	}
	return nil
}

// clampLimit applies the default and maximum result counts.
func (s *Server) clampLimit(limit int) int {
	if limit < 1 {
		return s.config.Server.DefaultLimit
	}
	if limit > s.config.Server.MaxLimit {
		return s.config.Server.MaxLimit
	}
	return limit
}

func (s *Server) handleQuery(req Request, mode suggest.Mode) {
	if err := s.validateQuery(req.Query); err != nil {
		s.logger.Debug("Rejected query", "id", req.ID, "err", err)
		s.sendError(req.ID, err.Error(), 400)
		return
	}
	limit := s.clampLimit(req.Limit)

	start := time.Now()
	var res suggest.Result
	if mode == suggest.ModeContains {
		res = s.completer.Contains(req.Query, limit)
	} else {
		res = s.completer.Complete(req.Query, limit)
	}
	elapsed := time.Since(start)

	suggestions := make([]QuerySuggestion, len(res.Suggestions))
	for i, sg := range res.Suggestions {
		suggestions[i] = QuerySuggestion{Title: sg.Title, Rank: sg.Rank}
	}

	s.logger.Debugf("%s query '%s': %d/%d results in %v", mode, req.Query, len(suggestions), res.Total, elapsed)
	s.send(QueryResponse{
		ID:          req.ID,
		Mode:        mode.String(),
		Exact:       res.Exact,
		Suggestions: suggestions,
		Count:       len(suggestions),
		Total:       res.Total,
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleInsert(req Request) {
	if !s.config.Server.AllowInsert {
		s.sendError(req.ID, "Insert is disabled", 403)
		return
	}
	if err := corpus.Validate([]corpus.Article{{Title: req.Title}}); err != nil {
		s.sendError(req.ID, err.Error(), 400)
		return
	}
	if maxLen := s.config.Index.MaxTitleLength; maxLen > 0 && utils.RuneLen(req.Title) > maxLen {
		s.sendError(req.ID, fmt.Sprintf("title exceeds maximum length of %d characters", maxLen), 400)
		return
	}

	added := s.completer.AddTitle(req.Title)
	s.logger.Debug("Insert", "title", req.Title, "added", added)
	s.send(InsertResponse{ID: req.ID, Status: "ok", Added: added})
}

// send encodes a response and flushes it so the client sees it immediately.
func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.out.Flush(); err != nil {
		s.logger.Errorf("Writing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(QueryError{ID: id, Error: message, Code: code})
}
