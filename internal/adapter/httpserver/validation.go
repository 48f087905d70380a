package httpserver

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
	"github.com/fairyhunter13/ai-portfolio-assistant/pkg/textx"
)

// Request payload limits.
const (
	MaxChatMessages      = 50
	MaxChatMessageLength = 10000
	MaxChatTotalLength   = 100000
	MinJobDescriptionLen = 50
	MaxJobDescriptionLen = 50000
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string { return e.Message }

// ValidationResult represents the result of validation. On success exactly one
// of Messages or JobDescription carries the normalized value.
type ValidationResult struct {
	Valid          bool                 `json:"valid"`
	Errors         []ValidationError    `json:"errors,omitempty"`
	Messages       []domain.ChatMessage `json:"-"`
	JobDescription string               `json:"-"`
}

// Err returns the first failure wrapped as ErrInvalidArgument, or nil.
func (r ValidationResult) Err() error {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", domain.ErrInvalidArgument, r.Errors[0])
}

func invalid(field, code, msg string) ValidationResult {
	return ValidationResult{Valid: false, Errors: []ValidationError{{Field: field, Code: code, Message: msg}}}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// ValidateChatMessages checks a decoded "messages" value and fails fast on
// the first violation, naming the offending index.
func ValidateChatMessages(input any) ValidationResult {
	if input == nil {
		return invalid("messages", "REQUIRED", "messages is required")
	}
	items, ok := input.([]any)
	if !ok {
		return invalid("messages", "INVALID_TYPE", "messages must be an array")
	}
	if len(items) == 0 {
		return invalid("messages", "REQUIRED", "messages must not be empty")
	}
	if len(items) > MaxChatMessages {
		return invalid("messages", "TOO_MANY", fmt.Sprintf("Too many messages (max %d)", MaxChatMessages))
	}

	out := make([]domain.ChatMessage, 0, len(items))
	total := 0
	for i, item := range items {
		field := fmt.Sprintf("messages[%d]", i)
		obj, ok := item.(map[string]any)
		if !ok {
			return invalid(field, "INVALID_TYPE", fmt.Sprintf("Message at index %d must be an object", i))
		}
		role, ok := obj["role"].(string)
		if !ok || getValidator().Var(role, "required,oneof=user assistant") != nil {
			return invalid(field+".role", "INVALID_VALUE", fmt.Sprintf("Message at index %d has invalid role (must be \"user\" or \"assistant\")", i))
		}
		raw, ok := obj["content"].(string)
		if !ok {
			return invalid(field+".content", "INVALID_TYPE", fmt.Sprintf("Message at index %d content must be a string", i))
		}
		content := strings.TrimSpace(raw)
		n := textx.Len(content)
		if n == 0 {
			return invalid(field+".content", "REQUIRED", fmt.Sprintf("Message at index %d content must not be empty", i))
		}
		if n > MaxChatMessageLength {
			return invalid(field+".content", "TOO_LONG", fmt.Sprintf("Message at index %d content too long (max %d characters)", i, MaxChatMessageLength))
		}
		total += n
		if total > MaxChatTotalLength {
			return invalid("messages", "TOO_LONG", fmt.Sprintf("Total message content too long at index %d (max %d characters)", i, MaxChatTotalLength))
		}
		out = append(out, domain.ChatMessage{Role: role, Content: content})
	}
	return ValidationResult{Valid: true, Messages: out}
}

// ValidateJobDescription checks a decoded "jobDescription" value. Type errors
// are reported before any length check.
func ValidateJobDescription(input any) ValidationResult {
	if input == nil {
		return invalid("jobDescription", "REQUIRED", "Job description is required")
	}
	s, ok := input.(string)
	if !ok {
		return invalid("jobDescription", "INVALID_TYPE", "Job description must be a string")
	}
	trimmed := strings.TrimSpace(s)
	n := textx.Len(trimmed)
	if n < MinJobDescriptionLen {
		return invalid("jobDescription", "TOO_SHORT", fmt.Sprintf("Job description too short (min %d characters)", MinJobDescriptionLen))
	}
	if n > MaxJobDescriptionLen {
		return invalid("jobDescription", "TOO_LONG", fmt.Sprintf("Job description too long (max %d characters)", MaxJobDescriptionLen))
	}
	return ValidationResult{Valid: true, JobDescription: trimmed}
}
