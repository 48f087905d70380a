// Package domain holds the candidate model, the fit verdict contract and the
// ports the pipeline depends on.
package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrMisconfigured       = errors.New("misconfigured")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrParse               = errors.New("parse error")
	ErrSchemaInvalid       = errors.New("schema invalid")
	ErrInternal            = errors.New("internal error")
)

// CandidateID identifies whose career data a request is about.
type CandidateID = uuid.UUID

// DefaultHonestyLevel applies when no values record or honesty level is stored.
const DefaultHonestyLevel = 7

// Honesty level bounds.
const (
	MinHonestyLevel = 1
	MaxHonestyLevel = 10
)

// SkillCategory enumerates the self-assessment buckets.
type SkillCategory string

const (
	SkillStrong   SkillCategory = "strong"
	SkillModerate SkillCategory = "moderate"
	SkillGap      SkillCategory = "gap"
)

// GapType enumerates the kinds of self-declared gaps.
type GapType string

const (
	GapSkill       GapType = "skill"
	GapExperience  GapType = "experience"
	GapEnvironment GapType = "environment"
	GapRoleType    GapType = "role_type"
)

// InstructionType enumerates behaviour directive kinds.
type InstructionType string

const (
	InstructionHonesty    InstructionType = "honesty"
	InstructionTone       InstructionType = "tone"
	InstructionBoundaries InstructionType = "boundaries"
)

// Profile is the candidate singleton. Nullable text columns are pointers.
type Profile struct {
	ID                 CandidateID `json:"id" yaml:"id"`
	Name               string      `json:"name" yaml:"name"`
	Title              *string     `json:"title" yaml:"title"`
	ElevatorPitch      *string     `json:"elevator_pitch" yaml:"elevator_pitch"`
	CareerNarrative    *string     `json:"career_narrative" yaml:"career_narrative"`
	LookingFor         *string     `json:"looking_for" yaml:"looking_for"`
	NotLookingFor      *string     `json:"not_looking_for" yaml:"not_looking_for"`
	ManagementStyle    *string     `json:"management_style" yaml:"management_style"`
	WorkStyle          *string     `json:"work_style" yaml:"work_style"`
	AvailabilityStatus *string     `json:"availability_status" yaml:"availability_status"`
	AvailabilityDate   *string     `json:"availability_date" yaml:"availability_date"`
	Location           *string     `json:"location" yaml:"location"`
	RemotePreference   *string     `json:"remote_preference" yaml:"remote_preference"`
	SalaryMin          *int        `json:"salary_min" yaml:"salary_min"`
	SalaryMax          *int        `json:"salary_max" yaml:"salary_max"`
	LinkedInURL        *string     `json:"linkedin_url" yaml:"linkedin_url"`
	GitHubURL          *string     `json:"github_url" yaml:"github_url"`
	TwitterURL         *string     `json:"twitter_url" yaml:"twitter_url"`
}

// Experience is one position in the work history.
// Invariants: ordered by DisplayOrder ascending; IsCurrent implies EndDate == nil.
type Experience struct {
	CompanyName         string   `json:"company_name" yaml:"company_name"`
	Title               string   `json:"title" yaml:"title"`
	TitleProgression    *string  `json:"title_progression" yaml:"title_progression"`
	StartDate           *string  `json:"start_date" yaml:"start_date"`
	EndDate             *string  `json:"end_date" yaml:"end_date"`
	IsCurrent           bool     `json:"is_current" yaml:"is_current"`
	BulletPoints        []string `json:"bullet_points" yaml:"bullet_points"`
	WhyJoined           *string  `json:"why_joined" yaml:"why_joined"`
	WhyLeft             *string  `json:"why_left" yaml:"why_left"`
	ActualContributions *string  `json:"actual_contributions" yaml:"actual_contributions"`
	ProudestAchievement *string  `json:"proudest_achievement" yaml:"proudest_achievement"`
	WouldDoDifferently  *string  `json:"would_do_differently" yaml:"would_do_differently"`
	ChallengesFaced     *string  `json:"challenges_faced" yaml:"challenges_faced"`
	LessonsLearned      *string  `json:"lessons_learned" yaml:"lessons_learned"`
	ManagerWouldSay     *string  `json:"manager_would_say" yaml:"manager_would_say"`
	ReportsWouldSay     *string  `json:"reports_would_say" yaml:"reports_would_say"`
	DisplayOrder        int      `json:"display_order" yaml:"display_order"`
}

// Skill is a self-assessed skill.
type Skill struct {
	SkillName       string        `json:"skill_name" yaml:"skill_name"`
	Category        SkillCategory `json:"category" yaml:"category"`
	SelfRating      *int          `json:"self_rating" yaml:"self_rating"`
	YearsExperience *float64      `json:"years_experience" yaml:"years_experience"`
	Evidence        *string       `json:"evidence" yaml:"evidence"`
	HonestNotes     *string       `json:"honest_notes" yaml:"honest_notes"`
}

// Gap is a limitation the candidate flagged in advance.
type Gap struct {
	GapType            GapType `json:"gap_type" yaml:"gap_type"`
	Description        string  `json:"description" yaml:"description"`
	WhyItsAGap         *string `json:"why_its_a_gap" yaml:"why_its_a_gap"`
	InterestInLearning bool    `json:"interest_in_learning" yaml:"interest_in_learning"`
}

// ValuesCulture is the values singleton; HonestyLevel governs prompt tone.
type ValuesCulture struct {
	MustHaves                  *string `json:"must_haves" yaml:"must_haves"`
	Dealbreakers               *string `json:"dealbreakers" yaml:"dealbreakers"`
	ManagementStylePreferences *string `json:"management_style_preferences" yaml:"management_style_preferences"`
	TeamSizePreferences        *string `json:"team_size_preferences" yaml:"team_size_preferences"`
	HowHandleConflict          *string `json:"how_handle_conflict" yaml:"how_handle_conflict"`
	HowHandleAmbiguity         *string `json:"how_handle_ambiguity" yaml:"how_handle_ambiguity"`
	HowHandleFailure           *string `json:"how_handle_failure" yaml:"how_handle_failure"`
	HonestyLevel               *int    `json:"honesty_level" yaml:"honesty_level"`
}

// FAQ is a pre-written question/answer pair.
type FAQ struct {
	Question         string `json:"question" yaml:"question"`
	Answer           string `json:"answer" yaml:"answer"`
	IsCommonQuestion bool   `json:"is_common_question" yaml:"is_common_question"`
}

// AIInstruction is a behaviour directive; ordered by Priority ascending.
type AIInstruction struct {
	InstructionType InstructionType `json:"instruction_type" yaml:"instruction_type"`
	Instruction     string          `json:"instruction" yaml:"instruction"`
	Priority        int             `json:"priority" yaml:"priority"`
}

// CandidateSnapshot bundles the seven records read for one request.
type CandidateSnapshot struct {
	Profile      *Profile        `json:"profile"`
	Experiences  []Experience    `json:"experiences"`
	Skills       []Skill         `json:"skills"`
	Gaps         []Gap           `json:"gaps"`
	Values       *ValuesCulture  `json:"values"`
	FAQs         []FAQ           `json:"faqs"`
	Instructions []AIInstruction `json:"instructions"`
}

// HonestyLevel returns the stored honesty level, or DefaultHonestyLevel.
func (s CandidateSnapshot) HonestyLevel() int {
	if s.Values == nil || s.Values.HonestyLevel == nil {
		return DefaultHonestyLevel
	}
	return *s.Values.HonestyLevel
}

// Chat roles accepted from callers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a visitor conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Verdict is the three-way fit classification.
type Verdict string

const (
	VerdictStrongFit         Verdict = "strong_fit"
	VerdictWorthConversation Verdict = "worth_conversation"
	VerdictProbablyNot       Verdict = "probably_not"
)

// Valid reports whether v is one of the three allowed verdicts.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictStrongFit, VerdictWorthConversation, VerdictProbablyNot:
		return true
	}
	return false
}

// FitGap is one unmet requirement in a fit analysis.
type FitGap struct {
	Requirement string `json:"requirement"`
	GapTitle    string `json:"gap_title"`
	Explanation string `json:"explanation"`
}

// FitAnalysis is the structured verdict returned by the analysis endpoint.
type FitAnalysis struct {
	Verdict        Verdict  `json:"verdict"`
	Headline       string   `json:"headline"`
	Opening        string   `json:"opening"`
	Gaps           []FitGap `json:"gaps"`
	Transfers      string   `json:"transfers"`
	Recommendation string   `json:"recommendation"`
}

// Repositories (ports)

// CandidateRepository reads the candidate records. Singleton reads return
// ErrNotFound when no row exists; list reads return an empty slice.
type CandidateRepository interface {
	Profile(ctx Context, id CandidateID) (*Profile, error)
	Experiences(ctx Context, id CandidateID) ([]Experience, error)
	Skills(ctx Context, id CandidateID) ([]Skill, error)
	Gaps(ctx Context, id CandidateID) ([]Gap, error)
	Values(ctx Context, id CandidateID) (*ValuesCulture, error)
	FAQs(ctx Context, id CandidateID) ([]FAQ, error)
	Instructions(ctx Context, id CandidateID) ([]AIInstruction, error)
}

// CandidateLocator finds the candidate to serve when none is configured.
// It returns ErrNotFound when no candidate is stored.
type CandidateLocator interface {
	DefaultCandidate(ctx Context) (CandidateID, error)
}

// SnapshotCache stores aggregated snapshots between requests.
// Get returns ErrNotFound on a miss.
type SnapshotCache interface {
	Get(ctx Context, id CandidateID) (CandidateSnapshot, error)
	Set(ctx Context, id CandidateID, snap CandidateSnapshot) error
}

// InferenceClient (port)

type InferenceClient interface {
	// Complete sends a system prompt plus conversation and returns the raw text of the top reply.
	Complete(ctx Context, systemPrompt string, messages []ChatMessage, maxTokens int) (string, error)
}

// Context is an alias so ports read naturally without importing context everywhere.
type Context = context.Context
