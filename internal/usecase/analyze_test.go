package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/ai"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain/mocks"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/usecase"
)

const jd = "Senior Go engineer to own our payments platform. 5+ years Go, Kubernetes, Postgres required."

func TestAnalyzeService_Success(t *testing.T) {
	t.Parallel()

	aiClient := &mocks.MockInferenceClient{}
	aiClient.On("Complete",
		mock.MatchedBy(func(ctx context.Context) bool { return domain.OperationFrom(ctx) == domain.OperationAnalyze }),
		mock.MatchedBy(func(s string) bool { return len(s) > 0 }),
		[]domain.ChatMessage{{Role: domain.RoleUser, Content: "Please analyze this job description and assess my fit:\n\n" + jd}},
		2048,
	).Return("Here you go:\n```json\n{\"verdict\":\"strong_fit\",\"headline\":\"h\",\"opening\":\"o\",\"gaps\":[],\"transfers\":\"t\",\"recommendation\":\"r\"}\n```", nil)

	fit, err := usecase.NewAnalyzeService(staticLoader{}, aiClient, ai.ExtractFitAnalysis, 2048).Analyze(context.Background(), jd)
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictStrongFit, fit.Verdict)
	aiClient.AssertExpectations(t)
}

func TestAnalyzeService_ParseFailure(t *testing.T) {
	t.Parallel()

	aiClient := &mocks.MockInferenceClient{}
	aiClient.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("I can't help with that.", nil)

	_, err := usecase.NewAnalyzeService(staticLoader{}, aiClient, ai.ExtractFitAnalysis, 2048).Analyze(context.Background(), jd)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestAnalyzeService_SchemaFailure(t *testing.T) {
	t.Parallel()

	aiClient := &mocks.MockInferenceClient{}
	aiClient.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(`{"verdict":"great","headline":"h","opening":"o","gaps":[],"transfers":"t","recommendation":"r"}`, nil)

	_, err := usecase.NewAnalyzeService(staticLoader{}, aiClient, ai.ExtractFitAnalysis, 2048).Analyze(context.Background(), jd)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestAnalyzeService_UpstreamFailure(t *testing.T) {
	t.Parallel()

	aiClient := &mocks.MockInferenceClient{}
	aiClient.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", domain.ErrMisconfigured)

	_, err := usecase.NewAnalyzeService(staticLoader{}, aiClient, ai.ExtractFitAnalysis, 2048).Analyze(context.Background(), jd)
	assert.ErrorIs(t, err, domain.ErrMisconfigured)
}

func TestAnalyzeService_EmptyJobDescription(t *testing.T) {
	t.Parallel()

	_, err := usecase.NewAnalyzeService(staticLoader{}, &mocks.MockInferenceClient{}, ai.ExtractFitAnalysis, 2048).Analyze(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
