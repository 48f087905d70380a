package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
)

func ptr[T any](v T) *T { return &v }

var candidateID = uuid.MustParse("6f1c2a4e-8a3b-4c1d-9e2f-0a1b2c3d4e5f")

func TestCandidateRepo_DefaultCandidate(t *testing.T) {
	pool := &poolStub{row: rowStub{vals: []any{candidateID}}}
	id, err := postgres.NewCandidateRepo(pool).DefaultCandidate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, candidateID, id)

	pool = &poolStub{row: rowStub{err: pgx.ErrNoRows}}
	_, err = postgres.NewCandidateRepo(pool).DefaultCandidate(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCandidateRepo_Profile(t *testing.T) {
	vals := []any{
		candidateID, "Jane Doe", ptr("Staff Engineer"), nil, nil, ptr("Platform work"), nil,
		nil, nil, ptr("open"), ptr("2026-01-01"), ptr("Berlin"),
		ptr("remote"), ptr(150000), ptr(180000), nil, ptr("https://github.com/jane"), nil,
	}
	pool := &poolStub{row: rowStub{vals: vals}}
	p, err := postgres.NewCandidateRepo(pool).Profile(context.Background(), candidateID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, "Staff Engineer", *p.Title)
	assert.Nil(t, p.ElevatorPitch)
	assert.Equal(t, 180000, *p.SalaryMax)
	assert.Equal(t, "2026-01-01", *p.AvailabilityDate)
	assert.Contains(t, pool.queries[0], "FROM candidate_profile WHERE id=$1")
}

func TestCandidateRepo_SingletonErrors(t *testing.T) {
	repo := postgres.NewCandidateRepo(&poolStub{row: rowStub{err: pgx.ErrNoRows}})
	_, err := repo.Profile(context.Background(), candidateID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.Values(context.Background(), candidateID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	boom := errors.New("conn reset")
	repo = postgres.NewCandidateRepo(&poolStub{row: rowStub{err: boom}})
	_, err = repo.Values(context.Background(), candidateID)
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "op=candidate.values")
}

func TestCandidateRepo_Values(t *testing.T) {
	vals := []any{ptr("Autonomy"), ptr("Micromanagement"), nil, nil, nil, nil, nil, ptr(9)}
	v, err := postgres.NewCandidateRepo(&poolStub{row: rowStub{vals: vals}}).Values(context.Background(), candidateID)
	require.NoError(t, err)
	assert.Equal(t, 9, *v.HonestyLevel)
	assert.Equal(t, "Micromanagement", *v.Dealbreakers)
}

func TestCandidateRepo_Lists(t *testing.T) {
	pool := &poolStub{rows: map[string][][]any{
		"experiences": {
			{"Acme", "Engineer", nil, ptr("2020-01-01"), nil, true, []string{"Built X"}, nil, nil, nil, nil, nil, nil, nil, nil, nil, 1},
		},
		"skills": {
			{"Go", "strong", ptr(5), ptr(6.5), nil, nil},
			{"Swift", "gap", nil, nil, nil, ptr("Never shipped")},
		},
		"gaps_weaknesses": {{"role_type", "No people management", nil, true}},
		"faq_responses":   {{"Remote?", "Yes", true}},
		"ai_instructions": {{"tone", "Be concise", 1}},
	}}
	repo := postgres.NewCandidateRepo(pool)
	ctx := context.Background()

	exps, err := repo.Experiences(ctx, candidateID)
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.True(t, exps[0].IsCurrent)
	assert.Nil(t, exps[0].EndDate)
	assert.Equal(t, []string{"Built X"}, exps[0].BulletPoints)

	skills, err := repo.Skills(ctx, candidateID)
	require.NoError(t, err)
	require.Len(t, skills, 2)
	assert.Equal(t, domain.SkillStrong, skills[0].Category)
	assert.Equal(t, 6.5, *skills[0].YearsExperience)
	assert.Equal(t, domain.SkillGap, skills[1].Category)

	gaps, err := repo.Gaps(ctx, candidateID)
	require.NoError(t, err)
	assert.Equal(t, domain.GapRoleType, gaps[0].GapType)

	faqs, err := repo.FAQs(ctx, candidateID)
	require.NoError(t, err)
	assert.True(t, faqs[0].IsCommonQuestion)

	ins, err := repo.Instructions(ctx, candidateID)
	require.NoError(t, err)
	assert.Equal(t, domain.InstructionTone, ins[0].InstructionType)

	for _, q := range pool.queries {
		if containsFrom(q, "experiences") {
			assert.Contains(t, q, "ORDER BY display_order")
		}
		if containsFrom(q, "ai_instructions") {
			assert.Contains(t, q, "ORDER BY priority")
		}
	}
}

func TestCandidateRepo_EmptyListIsNotNil(t *testing.T) {
	repo := postgres.NewCandidateRepo(&poolStub{})
	faqs, err := repo.FAQs(context.Background(), candidateID)
	require.NoError(t, err)
	assert.NotNil(t, faqs)
	assert.Empty(t, faqs)
}

func TestCandidateRepo_QueryError(t *testing.T) {
	repo := postgres.NewCandidateRepo(&poolStub{queryErr: errors.New("timeout")})
	_, err := repo.Skills(context.Background(), candidateID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=candidate.skills")
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestEnsureSchema(t *testing.T) {
	pool := &poolStub{}
	require.NoError(t, postgres.EnsureSchema(context.Background(), pool))
	require.Len(t, pool.queries, 1)
	assert.Contains(t, pool.queries[0], "CREATE TABLE IF NOT EXISTS candidate_profile")

	pool = &poolStub{execErr: errors.New("permission denied")}
	assert.Error(t, postgres.EnsureSchema(context.Background(), pool))
}
