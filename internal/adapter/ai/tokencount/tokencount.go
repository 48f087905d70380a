// Package tokencount estimates prompt and completion sizes for inference calls.
//
// Claude does not publish a local tokenizer, so counts use tiktoken's
// cl100k_base encoding as an approximation. They feed metrics only and never
// gate a request.
package tokencount

import (
	"errors"
	"log/slog"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
)

const encodingName = "cl100k_base"

var errNoEncoding = errors.New("tokencount: no encoding loader configured")

// Per-message framing overhead added by the Messages API.
const (
	tokensPerMessage = 4
	tokensPerReply   = 3
)

// Usage represents token counts for one inference call.
type Usage struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
	Estimated        bool   `json:"estimated"`
}

// Counter lazily loads the encoding once and is safe for concurrent use.
type Counter struct {
	once sync.Once
	enc  *tiktoken.Tiktoken
	err  error
	load func() (*tiktoken.Tiktoken, error)
}

// NewCounter creates a counter backed by tiktoken.
func NewCounter() *Counter {
	return &Counter{load: func() (*tiktoken.Tiktoken, error) { return tiktoken.GetEncoding(encodingName) }}
}

// DefaultCounter is a global token counter instance.
var DefaultCounter = NewCounter()

func (c *Counter) encoding() (*tiktoken.Tiktoken, error) {
	c.once.Do(func() {
		if c.load == nil {
			c.err = errNoEncoding
			return
		}
		c.enc, c.err = c.load()
		if c.err != nil {
			slog.Warn("token encoding unavailable, falling back to estimates", slog.Any("error", c.err))
		}
	})
	return c.enc, c.err
}

// CountTokens counts the tokens in text.
func (c *Counter) CountTokens(text string) (int, error) {
	enc, err := c.encoding()
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// CountPrompt counts a system prompt plus conversation the way it is framed
// on the wire.
func (c *Counter) CountPrompt(system string, messages []domain.ChatMessage) (int, error) {
	enc, err := c.encoding()
	if err != nil {
		return 0, err
	}
	n := len(enc.Encode(system, nil, nil)) + tokensPerReply
	for _, m := range messages {
		n += tokensPerMessage + len(enc.Encode(m.Content, nil, nil))
	}
	return n, nil
}

// Usage computes prompt and completion counts, falling back to Estimate when
// the encoding cannot be loaded.
func (c *Counter) Usage(system string, messages []domain.ChatMessage, completion, model string) Usage {
	prompt, perr := c.CountPrompt(system, messages)
	completionTokens, cerr := c.CountTokens(completion)
	estimated := false
	if perr != nil || cerr != nil {
		estimated = true
		prompt = EstimatePrompt(system, messages)
		completionTokens = Estimate(completion)
	}
	return Usage{
		PromptTokens:     prompt,
		CompletionTokens: completionTokens,
		TotalTokens:      prompt + completionTokens,
		Model:            model,
		Estimated:        estimated,
	}
}

// Estimate approximates a token count at roughly four bytes per token.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}

// EstimatePrompt applies Estimate across a whole prompt including framing.
func EstimatePrompt(system string, messages []domain.ChatMessage) int {
	n := Estimate(system) + tokensPerReply
	for _, m := range messages {
		n += tokensPerMessage + Estimate(m.Content)
	}
	return n
}
