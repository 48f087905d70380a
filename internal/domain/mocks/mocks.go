// Package mocks provides testify mocks for the domain ports.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
)

// MockCandidateRepository is a mock of domain.CandidateRepository.
type MockCandidateRepository struct{ mock.Mock }

func (m *MockCandidateRepository) Profile(ctx domain.Context, id domain.CandidateID) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Profile)
	return p, args.Error(1)
}

func (m *MockCandidateRepository) Experiences(ctx domain.Context, id domain.CandidateID) ([]domain.Experience, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).([]domain.Experience)
	return v, args.Error(1)
}

func (m *MockCandidateRepository) Skills(ctx domain.Context, id domain.CandidateID) ([]domain.Skill, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).([]domain.Skill)
	return v, args.Error(1)
}

func (m *MockCandidateRepository) Gaps(ctx domain.Context, id domain.CandidateID) ([]domain.Gap, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).([]domain.Gap)
	return v, args.Error(1)
}

func (m *MockCandidateRepository) Values(ctx domain.Context, id domain.CandidateID) (*domain.ValuesCulture, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*domain.ValuesCulture)
	return v, args.Error(1)
}

func (m *MockCandidateRepository) FAQs(ctx domain.Context, id domain.CandidateID) ([]domain.FAQ, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).([]domain.FAQ)
	return v, args.Error(1)
}

func (m *MockCandidateRepository) Instructions(ctx domain.Context, id domain.CandidateID) ([]domain.AIInstruction, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).([]domain.AIInstruction)
	return v, args.Error(1)
}

// MockCandidateLocator is a mock of domain.CandidateLocator.
type MockCandidateLocator struct{ mock.Mock }

func (m *MockCandidateLocator) DefaultCandidate(ctx domain.Context) (domain.CandidateID, error) {
	args := m.Called(ctx)
	id, _ := args.Get(0).(domain.CandidateID)
	return id, args.Error(1)
}

// MockSnapshotCache is a mock of domain.SnapshotCache.
type MockSnapshotCache struct{ mock.Mock }

func (m *MockSnapshotCache) Get(ctx domain.Context, id domain.CandidateID) (domain.CandidateSnapshot, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(domain.CandidateSnapshot)
	return s, args.Error(1)
}

func (m *MockSnapshotCache) Set(ctx domain.Context, id domain.CandidateID, snap domain.CandidateSnapshot) error {
	return m.Called(ctx, id, snap).Error(0)
}

// MockInferenceClient is a mock of domain.InferenceClient.
type MockInferenceClient struct{ mock.Mock }

func (m *MockInferenceClient) Complete(ctx domain.Context, systemPrompt string, messages []domain.ChatMessage, maxTokens int) (string, error) {
	args := m.Called(ctx, systemPrompt, messages, maxTokens)
	return args.String(0), args.Error(1)
}
