package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/config"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
)

type fakeChat struct {
	reply string
	err   error
	got   []domain.ChatMessage
}

func (f *fakeChat) Reply(_ domain.Context, m []domain.ChatMessage) (string, error) {
	f.got = m
	return f.reply, f.err
}

type fakeAnalyzer struct {
	fit domain.FitAnalysis
	err error
	got string
}

func (f *fakeAnalyzer) Analyze(_ domain.Context, jd string) (domain.FitAnalysis, error) {
	f.got = jd
	return f.fit, f.err
}

func do(t *testing.T, h http.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func TestChatHandler_Success(t *testing.T) {
	t.Parallel()
	chat := &fakeChat{reply: "Hi, I'm Jane."}
	srv := NewServer(config.Config{}, chat, nil, nil, nil)

	rec, out := do(t, srv.ChatHandler(), `{"messages":[{"role":"user","content":"  Who are you?  "}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hi, I'm Jane.", out["message"])
	assert.Equal(t, []domain.ChatMessage{{Role: "user", Content: "Who are you?"}}, chat.got)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestChatHandler_BadBodies(t *testing.T) {
	t.Parallel()
	srv := NewServer(config.Config{}, &fakeChat{}, nil, nil, nil)

	tests := map[string]struct {
		body string
		want string
	}{
		"invalid_json":  {`{"messages":`, "Invalid JSON body"},
		"empty_body":    {``, "Invalid JSON body"},
		"array_body":    {`[1,2]`, "Request body must be an object"},
		"null_body":     {`null`, "Request body must be an object"},
		"no_messages":   {`{}`, "messages is required"},
		"bad_role":      {`{"messages":[{"role":"system","content":"x"}]}`, "index 0"},
		"too_many_msgs": {`{"messages":[` + strings.TrimSuffix(strings.Repeat(`{"role":"user","content":"x"},`, 51), ",") + `]}`, "Too many messages"},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			rec, out := do(t, srv.ChatHandler(), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, out["error"], tt.want)
		})
	}
}

func TestChatHandler_BodyTooLarge(t *testing.T) {
	t.Parallel()
	srv := NewServer(config.Config{}, &fakeChat{}, nil, nil, nil)

	big := `{"messages":[{"role":"user","content":"` + strings.Repeat("a", MaxBodyBytes) + `"}]}`
	rec, _ := do(t, srv.ChatHandler(), big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestChatHandler_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"misconfigured", fmt.Errorf("op=x: %w", domain.ErrMisconfigured), http.StatusInternalServerError, MsgUpstreamUnavailable},
		{"upstream", fmt.Errorf("op=x: %w: status 529", domain.ErrUpstreamUnavailable), http.StatusInternalServerError, MsgUpstreamUnavailable},
		{"store", errors.New("pq: connection refused"), http.StatusInternalServerError, MsgInternal},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := NewServer(config.Config{}, &fakeChat{err: tt.err}, nil, nil, nil)
			rec, out := do(t, srv.ChatHandler(), `{"messages":[{"role":"user","content":"hi"}]}`)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.msg, out["error"])
			assert.NotContains(t, rec.Body.String(), "529")
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestAnalyzeHandler_Success(t *testing.T) {
	t.Parallel()
	an := &fakeAnalyzer{fit: domain.FitAnalysis{
		Verdict:  domain.VerdictProbablyNot,
		Headline: "Not the right fit",
		Gaps:     []domain.FitGap{{Requirement: "iOS", GapTitle: "No mobile", Explanation: "Never shipped an app"}},
	}}
	srv := NewServer(config.Config{}, nil, an, nil, nil)

	jd := strings.Repeat("Senior iOS engineer. ", 5)
	rec, out := do(t, srv.AnalyzeHandler(), `{"jobDescription":"  `+jd+`  "}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "probably_not", out["verdict"])
	gaps, ok := out["gaps"].([]any)
	require.True(t, ok)
	require.Len(t, gaps, 1)
	assert.Equal(t, "No mobile", gaps[0].(map[string]any)["gap_title"])
	assert.Equal(t, strings.TrimSpace(jd), an.got)
}

func TestAnalyzeHandler_ShortDescription(t *testing.T) {
	t.Parallel()
	an := &fakeAnalyzer{}
	srv := NewServer(config.Config{}, nil, an, nil, nil)

	rec, out := do(t, srv.AnalyzeHandler(), `{"jobDescription":"Go dev job"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "50")
	assert.Empty(t, an.got)
}

func TestAnalyzeHandler_TypeError(t *testing.T) {
	t.Parallel()
	srv := NewServer(config.Config{}, nil, &fakeAnalyzer{}, nil, nil)

	rec, out := do(t, srv.AnalyzeHandler(), `{"jobDescription":12345}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Job description must be a string", out["error"])
}

func TestAnalyzeHandler_ExtractionFailureIsGeneric(t *testing.T) {
	t.Parallel()

	for _, err := range []error{domain.ErrParse, domain.ErrSchemaInvalid} {
		srv := NewServer(config.Config{}, nil, &fakeAnalyzer{err: fmt.Errorf("op=analyze: %w: unknown verdict", err)}, nil, nil)
		rec, out := do(t, srv.AnalyzeHandler(), `{"jobDescription":"`+strings.Repeat("x", 60)+`"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, MsgInternal, out["error"])
	}
}

func TestReadyzHandler(t *testing.T) {
	t.Parallel()
	ok := func(context.Context) error { return nil }
	bad := func(context.Context) error { return errors.New("dial tcp: refused") }

	srv := NewServer(config.Config{}, nil, nil, ok, nil)
	rec := httptest.NewRecorder()
	srv.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"db"`)
	assert.NotContains(t, rec.Body.String(), `"redis"`)

	srv = NewServer(config.Config{}, nil, nil, ok, bad)
	rec = httptest.NewRecorder()
	srv.ReadyzHandler()(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "refused")
}

func TestHealthzAndNoContent(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	HealthzHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NoContent(rec, httptest.NewRequest(http.MethodOptions, "/chat", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}
