package prompt

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
	"github.com/fairyhunter13/ai-portfolio-assistant/pkg/textx"
)

// FitOutputContract is the JSON shape the model must answer with.
const FitOutputContract = `Respond ONLY with valid JSON in this exact format:
{
  "verdict": "strong_fit" | "worth_conversation" | "probably_not",
  "headline": "Brief headline for the assessment",
  "opening": "1-2 sentence direct assessment in first person",
  "gaps": [
    {
      "requirement": "What the JD asks for",
      "gap_title": "Short title",
      "explanation": "Why this is a gap for me"
    }
  ],
  "transfers": "What skills/experience DO transfer",
  "recommendation": "Direct advice - can be 'don't hire me for this'"
}`

// AnalysisSections is the section order of the job-fit prompt. It carries a
// curated subset of private context and no FAQ.
var AnalysisSections = []Section{
	{Name: "identity", Render: analysisIdentity, Fallback: "You are analyzing a job description to assess fit for the candidate."},
	{Name: "honesty", Render: honestySection, Fallback: "## YOUR CORE DIRECTIVE\n" + HonestyDirective(domain.DefaultHonestyLevel)},
	{Name: "instructions", Render: instructionsSection(func(View) string { return "## CUSTOM INSTRUCTIONS" }, "None"), Fallback: "## CUSTOM INSTRUCTIONS\nNone"},
	{Name: "profile", Render: aboutSection(false), Fallback: "## ABOUT\n" + NoElevatorPitch},
	{Name: "experience", Render: workSection(analysisExperience), Fallback: "## WORK EXPERIENCE\n" + NoExperiences},
	{Name: "skills", Render: skillsSection("## SKILLS", "### Known Gaps", analysisSkill), Fallback: "## SKILLS\n" + NoneListed},
	{Name: "gaps", Render: gapsSection(analysisGap), Fallback: "## EXPLICIT GAPS & WEAKNESSES\n" + NoneListed},
	{Name: "values", Render: analysisValues, Fallback: "## VALUES & CULTURE\n" + NotSpecified},
	{Name: "output_contract", Render: func(View) string { return FitOutputContract }, Fallback: FitOutputContract},
}

// BuildAnalysisPrompt composes the system prompt for a single fit verdict.
func BuildAnalysisPrompt(snap domain.CandidateSnapshot, honestyLevel int) string {
	return Compose(AnalysisSections, NewView(snap, honestyLevel))
}

// AnalysisRequest wraps a job description into the single user turn sent upstream.
func AnalysisRequest(jobDescription string) []domain.ChatMessage {
	return []domain.ChatMessage{{
		Role:    domain.RoleUser,
		Content: "Please analyze this job description and assess my fit:\n\n" + jobDescription,
	}}
}

func analysisIdentity(v View) string {
	return fmt.Sprintf(`You are analyzing a job description to assess fit for %[1]s, a %[2]s.
Give an honest assessment of whether %[1]s is a good fit, in first person as %[1]s.

Your assessment MUST:
1. Identify specific requirements from the JD that %[1]s DOES NOT meet
2. Match the tone set by the core directive below
3. Explain what DOES transfer even if it's not a perfect fit
4. Give a clear recommendation`, v.Name, v.Title)
}

func analysisExperience(e domain.Experience) string {
	var b strings.Builder
	b.WriteString(experienceHeader(e) + "\n\n")
	b.WriteString("Achievements:\n" + bullets(e.BulletPoints, "  ") + "\n\n")
	b.WriteString("Context:\n")
	b.WriteString("- " + line("What I actually did", textx.Or(e.ActualContributions, NotSpecified)) + "\n")
	b.WriteString("- " + line("Proudest of", textx.Or(e.ProudestAchievement, NotSpecified)) + "\n")
	b.WriteString("- " + line("Challenges faced", textx.Or(e.ChallengesFaced, NotSpecified)) + "\n")
	b.WriteString("- " + line("Lessons learned", textx.Or(e.LessonsLearned, NotSpecified)))
	return b.String()
}

func analysisSkill(s domain.Skill) string {
	entry := "- " + textx.SanitizeText(s.SkillName)
	if s.YearsExperience != nil && *s.YearsExperience > 0 {
		entry += " (" + formatYears(*s.YearsExperience) + " years)"
	}
	if s.SelfRating != nil && *s.SelfRating > 0 {
		entry += fmt.Sprintf(" [%d/5]", *s.SelfRating)
	}
	if notes := textx.OrEmpty(s.HonestNotes); notes != "" {
		entry += " - " + notes
	}
	return entry
}

func analysisGap(g domain.Gap) string {
	return fmt.Sprintf("- [%s] %s: %s", upper(string(g.GapType)), textx.SanitizeText(g.Description), textx.Or(g.WhyItsAGap, NotSpecified))
}

func analysisValues(v View) string {
	vc := v.Snapshot.Values
	if vc == nil {
		return "## VALUES & CULTURE\n" + NotSpecified
	}
	return "## VALUES & CULTURE\n" +
		line("Must-haves", textx.Or(vc.MustHaves, NotSpecified)) + "\n" +
		line("Dealbreakers", textx.Or(vc.Dealbreakers, NotSpecified))
}
