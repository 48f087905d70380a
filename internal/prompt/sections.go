// Package prompt composes the system prompts sent to the language model.
//
// A prompt is an ordered list of named sections. Each section is a pure
// function of the candidate snapshot, so ordering and fallback text can be
// tested one section at a time. Composition never fails: a section that
// panics renders its fallback instead.
package prompt

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
	"github.com/fairyhunter13/ai-portfolio-assistant/pkg/textx"
)

// View is the read-only input every section renders from.
type View struct {
	Snapshot     domain.CandidateSnapshot
	Name         string
	Title        string
	HonestyLevel int
}

// NewView prepares a View: resolves display name/title fallbacks, clamps the
// honesty level and puts experiences and instructions in display order.
func NewView(snap domain.CandidateSnapshot, honestyLevel int) View {
	name, title := DefaultName, DefaultTitle
	if p := snap.Profile; p != nil {
		if n := textx.SanitizeText(p.Name); n != "" {
			name = n
		}
		title = textx.Or(p.Title, DefaultTitle)
	}
	snap.Experiences = sortedExperiences(snap.Experiences)
	snap.Instructions = sortedInstructions(snap.Instructions)
	return View{Snapshot: snap, Name: name, Title: title, HonestyLevel: ClampHonestyLevel(honestyLevel)}
}

// Section is one named block of a prompt.
type Section struct {
	Name     string
	Render   func(View) string
	Fallback string
}

// Compose renders sections in order and joins them with blank lines.
func Compose(sections []Section, v View) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		if out := renderSection(s, v); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n\n")
}

func renderSection(s Section, v View) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("prompt section render failed", slog.String("section", s.Name), slog.String("panic", fmt.Sprint(rec)))
			out = s.Fallback
		}
	}()
	return strings.TrimRight(s.Render(v), "\n ")
}

// Names lists section names in order.
func Names(sections []Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Name
	}
	return out
}

func honestySection(v View) string {
	return "## YOUR CORE DIRECTIVE\n" + HonestyDirective(v.HonestyLevel)
}

func instructionsSection(heading func(View) string, empty string) func(View) string {
	return func(v View) string {
		lines := make([]string, 0, len(v.Snapshot.Instructions))
		for _, in := range v.Snapshot.Instructions {
			text := textx.SanitizeText(in.Instruction)
			if text == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("- [%s] %s", upper(string(in.InstructionType)), text))
		}
		return heading(v) + "\n" + orList(strings.Join(lines, "\n"), empty)
	}
}

func aboutSection(full bool) func(View) string {
	return func(v View) string {
		p := v.Snapshot.Profile
		if p == nil {
			p = &domain.Profile{}
		}
		var b strings.Builder
		fmt.Fprintf(&b, "## ABOUT %s\n", v.Name)
		b.WriteString(textx.Or(p.ElevatorPitch, NoElevatorPitch))
		if narrative := textx.OrEmpty(p.CareerNarrative); narrative != "" {
			b.WriteString("\n\n" + narrative)
		}
		b.WriteString("\n\n")
		b.WriteString(line("What I'm looking for", textx.Or(p.LookingFor, NotSpecified)) + "\n")
		b.WriteString(line("What I'm NOT looking for", textx.Or(p.NotLookingFor, NotSpecified)))
		if !full {
			return b.String()
		}
		b.WriteString("\n\n")
		b.WriteString(line("Management style", textx.Or(p.ManagementStyle, NotSpecified)) + "\n")
		b.WriteString(line("Work style", textx.Or(p.WorkStyle, NotSpecified)) + "\n\n")
		availability := textx.Or(p.AvailabilityStatus, NotSpecified)
		if p.AvailabilityDate != nil && strings.TrimSpace(*p.AvailabilityDate) != "" {
			availability += " (" + FormatDate(p.AvailabilityDate) + ")"
		}
		b.WriteString(line("Availability", availability) + "\n")
		fmt.Fprintf(&b, "Location: %s | Remote preference: %s\n\n", textx.Or(p.Location, NotSpecified), textx.Or(p.RemotePreference, NotSpecified))
		b.WriteString(line("Salary range", FormatSalary(p.SalaryMin, p.SalaryMax)))
		return b.String()
	}
}

func experienceHeader(e domain.Experience) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s (%s)\n", textx.SanitizeText(e.CompanyName), DateRange(e))
	b.WriteString("Title: " + textx.SanitizeText(e.Title))
	if tp := textx.OrEmpty(e.TitleProgression); tp != "" {
		b.WriteString(" (" + tp + ")")
	}
	return b.String()
}

func workSection(block func(domain.Experience) string) func(View) string {
	return func(v View) string {
		blocks := make([]string, 0, len(v.Snapshot.Experiences))
		for _, e := range v.Snapshot.Experiences {
			blocks = append(blocks, block(e))
		}
		return "## WORK EXPERIENCE\n" + orList(strings.Join(blocks, "\n\n"), NoExperiences)
	}
}

type skillFormatter func(domain.Skill) string

func skillsSection(heading, gapsHeading string, format skillFormatter) func(View) string {
	list := func(skills []domain.Skill) string {
		lines := make([]string, 0, len(skills))
		for _, s := range skills {
			lines = append(lines, format(s))
		}
		return orList(strings.Join(lines, "\n"), NoneListed)
	}
	return func(v View) string {
		sk := v.Snapshot.Skills
		var b strings.Builder
		b.WriteString(heading + "\n\n")
		b.WriteString("### Strong\n" + list(skillsIn(sk, domain.SkillStrong)) + "\n\n")
		b.WriteString("### Moderate\n" + list(skillsIn(sk, domain.SkillModerate)) + "\n\n")
		b.WriteString(gapsHeading + "\n" + list(skillsIn(sk, domain.SkillGap)))
		return b.String()
	}
}

func gapsSection(format func(domain.Gap) string) func(View) string {
	return func(v View) string {
		lines := make([]string, 0, len(v.Snapshot.Gaps))
		for _, g := range v.Snapshot.Gaps {
			lines = append(lines, format(g))
		}
		return "## EXPLICIT GAPS & WEAKNESSES\n" + orList(strings.Join(lines, "\n"), NoneListed)
	}
}
