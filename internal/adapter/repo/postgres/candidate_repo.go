// Package postgres provides PostgreSQL database adapters.
//
// CandidateRepo reads the seven candidate tables; each child table is keyed
// by candidate_id. The schema is embedded and applied by EnsureSchema.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// PgxPool is a minimal subset of pgxpool used by the repos for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CandidateRepo implements domain.CandidateRepository and
// domain.CandidateLocator on PostgreSQL.
type CandidateRepo struct{ Pool PgxPool }

var (
	_ domain.CandidateRepository = (*CandidateRepo)(nil)
	_ domain.CandidateLocator    = (*CandidateRepo)(nil)
)

// NewCandidateRepo constructs a CandidateRepo with the given pool.
func NewCandidateRepo(p PgxPool) *CandidateRepo { return &CandidateRepo{Pool: p} }

// EnsureSchema creates the candidate tables when missing.
func EnsureSchema(ctx context.Context, p PgxPool) error {
	if _, err := p.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("op=postgres.EnsureSchema: %w", err)
	}
	return nil
}

func startSpan(ctx context.Context, name, table string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer("repo.candidate").Start(ctx, name)
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.sql.table", table),
	)
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// DefaultCandidate returns the oldest stored profile.
func (r *CandidateRepo) DefaultCandidate(ctx domain.Context) (id domain.CandidateID, err error) {
	ctx, span := startSpan(ctx, "candidate.DefaultCandidate", "candidate_profile")
	defer func() { endSpan(span, err) }()

	q := `SELECT id FROM candidate_profile ORDER BY created_at, id LIMIT 1`
	if err = r.Pool.QueryRow(ctx, q).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return id, fmt.Errorf("op=candidate.default: %w", domain.ErrNotFound)
		}
		return id, fmt.Errorf("op=candidate.default: %w", err)
	}
	return id, nil
}

// Profile loads the candidate profile row.
func (r *CandidateRepo) Profile(ctx domain.Context, id domain.CandidateID) (_ *domain.Profile, err error) {
	ctx, span := startSpan(ctx, "candidate.Profile", "candidate_profile")
	defer func() { endSpan(span, err) }()

	q := `SELECT id, name, title, elevator_pitch, career_narrative, looking_for, not_looking_for,
	management_style, work_style, availability_status, availability_date::text, location,
	remote_preference, salary_min, salary_max, linkedin_url, github_url, twitter_url
	FROM candidate_profile WHERE id=$1`
	var p domain.Profile
	err = r.Pool.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.Name, &p.Title, &p.ElevatorPitch, &p.CareerNarrative, &p.LookingFor, &p.NotLookingFor,
		&p.ManagementStyle, &p.WorkStyle, &p.AvailabilityStatus, &p.AvailabilityDate, &p.Location,
		&p.RemotePreference, &p.SalaryMin, &p.SalaryMax, &p.LinkedInURL, &p.GitHubURL, &p.TwitterURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("op=candidate.profile: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("op=candidate.profile: %w", err)
	}
	return &p, nil
}

// Values loads the values/culture row.
func (r *CandidateRepo) Values(ctx domain.Context, id domain.CandidateID) (_ *domain.ValuesCulture, err error) {
	ctx, span := startSpan(ctx, "candidate.Values", "values_culture")
	defer func() { endSpan(span, err) }()

	q := `SELECT must_haves, dealbreakers, management_style_preferences, team_size_preferences,
	how_handle_conflict, how_handle_ambiguity, how_handle_failure, honesty_level
	FROM values_culture WHERE candidate_id=$1`
	var v domain.ValuesCulture
	err = r.Pool.QueryRow(ctx, q, id).Scan(
		&v.MustHaves, &v.Dealbreakers, &v.ManagementStylePreferences, &v.TeamSizePreferences,
		&v.HowHandleConflict, &v.HowHandleAmbiguity, &v.HowHandleFailure, &v.HonestyLevel,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("op=candidate.values: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("op=candidate.values: %w", err)
	}
	return &v, nil
}

// Experiences loads work history ordered by display_order.
func (r *CandidateRepo) Experiences(ctx domain.Context, id domain.CandidateID) ([]domain.Experience, error) {
	q := `SELECT company_name, title, title_progression, start_date::text, end_date::text, is_current,
	bullet_points, why_joined, why_left, actual_contributions, proudest_achievement,
	would_do_differently, challenges_faced, lessons_learned, manager_would_say, reports_would_say,
	display_order
	FROM experiences WHERE candidate_id=$1 ORDER BY display_order, id`
	return queryList(ctx, r.Pool, "experiences", q, id, func(row pgx.CollectableRow) (domain.Experience, error) {
		var e domain.Experience
		err := row.Scan(
			&e.CompanyName, &e.Title, &e.TitleProgression, &e.StartDate, &e.EndDate, &e.IsCurrent,
			&e.BulletPoints, &e.WhyJoined, &e.WhyLeft, &e.ActualContributions, &e.ProudestAchievement,
			&e.WouldDoDifferently, &e.ChallengesFaced, &e.LessonsLearned, &e.ManagerWouldSay, &e.ReportsWouldSay,
			&e.DisplayOrder,
		)
		return e, err
	})
}

// Skills loads the skill self-assessment.
func (r *CandidateRepo) Skills(ctx domain.Context, id domain.CandidateID) ([]domain.Skill, error) {
	q := `SELECT skill_name, category, self_rating, years_experience::float8, evidence, honest_notes
	FROM skills WHERE candidate_id=$1 ORDER BY id`
	return queryList(ctx, r.Pool, "skills", q, id, func(row pgx.CollectableRow) (domain.Skill, error) {
		var s domain.Skill
		var category string
		err := row.Scan(&s.SkillName, &category, &s.SelfRating, &s.YearsExperience, &s.Evidence, &s.HonestNotes)
		s.Category = domain.SkillCategory(category)
		return s, err
	})
}

// Gaps loads the self-declared gaps.
func (r *CandidateRepo) Gaps(ctx domain.Context, id domain.CandidateID) ([]domain.Gap, error) {
	q := `SELECT gap_type, description, why_its_a_gap, interest_in_learning
	FROM gaps_weaknesses WHERE candidate_id=$1 ORDER BY id`
	return queryList(ctx, r.Pool, "gaps_weaknesses", q, id, func(row pgx.CollectableRow) (domain.Gap, error) {
		var g domain.Gap
		var gapType string
		err := row.Scan(&gapType, &g.Description, &g.WhyItsAGap, &g.InterestInLearning)
		g.GapType = domain.GapType(gapType)
		return g, err
	})
}

// FAQs loads the pre-written answers.
func (r *CandidateRepo) FAQs(ctx domain.Context, id domain.CandidateID) ([]domain.FAQ, error) {
	q := `SELECT question, answer, is_common_question FROM faq_responses WHERE candidate_id=$1 ORDER BY id`
	return queryList(ctx, r.Pool, "faq_responses", q, id, func(row pgx.CollectableRow) (domain.FAQ, error) {
		var f domain.FAQ
		err := row.Scan(&f.Question, &f.Answer, &f.IsCommonQuestion)
		return f, err
	})
}

// Instructions loads behaviour directives ordered by priority.
func (r *CandidateRepo) Instructions(ctx domain.Context, id domain.CandidateID) ([]domain.AIInstruction, error) {
	q := `SELECT instruction_type, instruction, priority FROM ai_instructions WHERE candidate_id=$1 ORDER BY priority, id`
	return queryList(ctx, r.Pool, "ai_instructions", q, id, func(row pgx.CollectableRow) (domain.AIInstruction, error) {
		var in domain.AIInstruction
		var kind string
		err := row.Scan(&kind, &in.Instruction, &in.Priority)
		in.InstructionType = domain.InstructionType(kind)
		return in, err
	})
}

// queryList runs a candidate-scoped list query. No rows is an empty slice,
// never ErrNotFound.
func queryList[T any](ctx context.Context, pool PgxPool, table, q string, id domain.CandidateID, scan pgx.RowToFunc[T]) (_ []T, err error) {
	ctx, span := startSpan(ctx, "candidate."+table, table)
	defer func() { endSpan(span, err) }()

	rows, err := pool.Query(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("op=candidate.%s: %w", table, err)
	}
	out, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, fmt.Errorf("op=candidate.%s: %w", table, err)
	}
	span.SetAttributes(attribute.Int("db.rows", len(out)))
	if out == nil {
		out = []T{}
	}
	return out, nil
}
