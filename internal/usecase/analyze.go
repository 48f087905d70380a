package usecase

import (
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/observability"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/prompt"
)

// FitExtractor turns raw model text into a validated FitAnalysis.
type FitExtractor func(raw string) (domain.FitAnalysis, error)

// AnalyzeService produces a job-fit verdict for a job description.
type AnalyzeService struct {
	Candidates SnapshotLoader
	AI         domain.InferenceClient
	Extract    FitExtractor
	MaxTokens  int
}

// NewAnalyzeService constructs an AnalyzeService.
func NewAnalyzeService(c SnapshotLoader, ai domain.InferenceClient, extract FitExtractor, maxTokens int) AnalyzeService {
	return AnalyzeService{Candidates: c, AI: ai, Extract: extract, MaxTokens: maxTokens}
}

// Analyze composes the fit prompt, calls the model once and extracts the
// structured verdict.
func (s AnalyzeService) Analyze(ctx domain.Context, jobDescription string) (domain.FitAnalysis, error) {
	if jobDescription == "" {
		return domain.FitAnalysis{}, fmt.Errorf("op=analyze.Analyze: %w: empty job description", domain.ErrInvalidArgument)
	}
	snap, err := s.Candidates.Current(ctx)
	if err != nil {
		observability.RecordFitFailure("aggregate")
		return domain.FitAnalysis{}, fmt.Errorf("op=analyze.Analyze: %w", err)
	}

	system := prompt.BuildAnalysisPrompt(snap, snap.HonestyLevel())
	raw, err := s.AI.Complete(domain.WithOperation(ctx, domain.OperationAnalyze), system, prompt.AnalysisRequest(jobDescription), s.MaxTokens)
	if err != nil {
		observability.RecordFitFailure("inference")
		return domain.FitAnalysis{}, fmt.Errorf("op=analyze.Analyze: %w", err)
	}

	fit, err := s.Extract(raw)
	if err != nil {
		observability.RecordFitFailure("extract")
		observability.LoggerFromContext(ctx).Error("failed to parse analysis response",
			slog.Any("error", err),
			slog.Int("raw_len", len(raw)))
		return domain.FitAnalysis{}, fmt.Errorf("op=analyze.Analyze: %w", err)
	}
	observability.RecordVerdict(string(fit.Verdict))
	return fit, nil
}
