package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/config"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
)

// MaxBodyBytes caps request bodies on the JSON endpoints.
const MaxBodyBytes = 1 << 20

// ChatReplier answers a validated conversation.
type ChatReplier interface {
	Reply(ctx domain.Context, messages []domain.ChatMessage) (string, error)
}

// FitAnalyzer produces a fit verdict for a job description.
type FitAnalyzer interface {
	Analyze(ctx domain.Context, jobDescription string) (domain.FitAnalysis, error)
}

// Server aggregates handlers dependencies.
type Server struct {
	Cfg        config.Config
	Chat       ChatReplier
	Analyzer   FitAnalyzer
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
// Nil checks are skipped by ReadyzHandler.
func NewServer(cfg config.Config, chat ChatReplier, analyzer FitAnalyzer, dbCheck, redisCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Chat: chat, Analyzer: analyzer, DBCheck: dbCheck, RedisCheck: redisCheck}
}

// decodeObject reads a JSON object body. It writes the 4xx response itself
// and returns false when the body is unusable.
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeStatus(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		writeStatus(w, http.StatusBadRequest, "Invalid JSON body")
		return nil, false
	}
	obj, ok := body.(map[string]any)
	if !ok {
		writeStatus(w, http.StatusBadRequest, "Request body must be an object")
		return nil, false
	}
	return obj, true
}

// ChatHandler handles POST /chat.
func (s *Server) ChatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := decodeObject(w, r)
		if !ok {
			return
		}
		res := ValidateChatMessages(body["messages"])
		if !res.Valid {
			writeError(w, r, res.Err())
			return
		}
		reply, err := s.Chat.Reply(r.Context(), res.Messages)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": reply})
	}
}

// AnalyzeHandler handles POST /analyze-jd.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := decodeObject(w, r)
		if !ok {
			return
		}
		res := ValidateJobDescription(body["jobDescription"])
		if !res.Valid {
			writeError(w, r, res.Err())
			return
		}
		fit, err := s.Analyzer.Analyze(r.Context(), res.JobDescription)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, fit)
	}
}

// NoContent answers CORS preflight and bare OPTIONS requests.
func NoContent(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

// HealthzHandler reports liveness.
func HealthzHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyzHandler returns a readiness handler that probes the candidate store
// and the snapshot cache.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		probes := []struct {
			name string
			fn   func(context.Context) error
		}{{"db", s.DBCheck}, {"redis", s.RedisCheck}}

		checks := make([]check, 0, len(probes))
		ok := true
		for _, p := range probes {
			if p.fn == nil {
				continue
			}
			if err := p.fn(ctx); err != nil {
				ok = false
				checks = append(checks, check{Name: p.name, OK: false, Details: err.Error()})
				continue
			}
			checks = append(checks, check{Name: p.name, OK: true})
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
