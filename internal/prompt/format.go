package prompt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
	"github.com/fairyhunter13/ai-portfolio-assistant/pkg/textx"
)

// Fallback strings rendered in place of missing data.
const (
	NotSpecified     = "Not specified"
	NoneListed       = "None listed"
	NoExperiences    = "No experiences listed."
	UnknownDate      = "Unknown"
	StillHere        = "N/A - still here"
	NotDisclosed     = "Not disclosed"
	NoElevatorPitch  = "No elevator pitch provided."
	DefaultName      = "the candidate"
	DefaultTitle     = "professional"
	presentDateLabel = "Present"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07",
}

// FormatDate renders an ISO-ish date as "Jan 2020"; missing or unparseable
// values render as "Unknown".
func FormatDate(s *string) string {
	if s == nil {
		return UnknownDate
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return UnknownDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return UnknownDate
}

// DateRange renders "{start} – {end|Present}".
func DateRange(e domain.Experience) string {
	end := FormatDate(e.EndDate)
	if e.IsCurrent {
		end = presentDateLabel
	}
	return FormatDate(e.StartDate) + " – " + end
}

// FormatSalary renders "$120,000 - $150,000" or "Not disclosed" unless both
// bounds are set.
func FormatSalary(minSalary, maxSalary *int) string {
	if minSalary == nil || maxSalary == nil || *minSalary <= 0 || *maxSalary <= 0 {
		return NotDisclosed
	}
	return "$" + groupThousands(*minSalary) + " - $" + groupThousands(*maxSalary)
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func formatYears(y float64) string {
	return strconv.FormatFloat(y, 'f', -1, 64)
}

// sortedExperiences returns a copy ordered by DisplayOrder ascending.
func sortedExperiences(in []domain.Experience) []domain.Experience {
	out := make([]domain.Experience, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

// sortedInstructions returns a copy ordered by Priority ascending.
func sortedInstructions(in []domain.AIInstruction) []domain.AIInstruction {
	out := make([]domain.AIInstruction, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

func skillsIn(skills []domain.Skill, c domain.SkillCategory) []domain.Skill {
	var out []domain.Skill
	for _, s := range skills {
		if s.Category == c {
			out = append(out, s)
		}
	}
	return out
}

func bullets(items []string, indent string) string {
	lines := make([]string, 0, len(items))
	for _, b := range items {
		if b = textx.SanitizeText(b); b != "" {
			lines = append(lines, indent+"- "+b)
		}
	}
	return strings.Join(lines, "\n")
}

func orList(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func upper(s string) string { return strings.ToUpper(s) }

func line(label, value string) string { return fmt.Sprintf("%s: %s", label, value) }
