package prompt

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
	"github.com/fairyhunter13/ai-portfolio-assistant/pkg/textx"
)

// ChatSections is the section order of the conversational prompt.
var ChatSections = []Section{
	{Name: "identity", Render: chatIdentity, Fallback: "You are an AI assistant representing the candidate. You speak in first person."},
	{Name: "honesty", Render: honestySection, Fallback: "## YOUR CORE DIRECTIVE\n" + HonestyDirective(domain.DefaultHonestyLevel)},
	{Name: "instructions", Render: instructionsSection(chatInstructionsHeading, "None specified"), Fallback: "## CUSTOM INSTRUCTIONS\nNone specified"},
	{Name: "profile", Render: aboutSection(true), Fallback: "## ABOUT\n" + NoElevatorPitch},
	{Name: "experience", Render: workSection(chatExperience), Fallback: "## WORK EXPERIENCE\n" + NoExperiences},
	{Name: "skills", Render: skillsSection("## SKILLS SELF-ASSESSMENT", "### Gaps (BE UPFRONT ABOUT THESE)", chatSkill), Fallback: "## SKILLS SELF-ASSESSMENT\n" + NoneListed},
	{Name: "gaps", Render: gapsSection(chatGap), Fallback: "## EXPLICIT GAPS & WEAKNESSES\n" + NoneListed},
	{Name: "values", Render: chatValues, Fallback: "## VALUES & CULTURE FIT\nNo values/culture preferences specified."},
	{Name: "faq", Render: chatFAQ, Fallback: "## PRE-WRITTEN ANSWERS\nNo pre-written answers available."},
	{Name: "guidelines", Render: chatGuidelines, Fallback: "## RESPONSE GUIDELINES\n- Speak in first person\n- Don't make up information that isn't in your context"},
}

// BuildChatPrompt composes the system prompt for open first-person chat.
func BuildChatPrompt(snap domain.CandidateSnapshot, honestyLevel int) string {
	return Compose(ChatSections, NewView(snap, honestyLevel))
}

func chatIdentity(v View) string {
	return fmt.Sprintf(`You are an AI assistant representing %[1]s, a %[2]s.
You speak in first person AS %[1]s.
Your job is to help employers quickly determine if there's a genuine fit with %[1]s.`, v.Name, v.Title)
}

func chatInstructionsHeading(v View) string { return "## CUSTOM INSTRUCTIONS FROM " + v.Name }

func chatExperience(e domain.Experience) string {
	whyLeft := textx.Or(e.WhyLeft, NotSpecified)
	if e.IsCurrent && textx.OrEmpty(e.WhyLeft) == "" {
		whyLeft = StillHere
	}
	var b strings.Builder
	b.WriteString(experienceHeader(e) + "\n\n")
	b.WriteString("Public achievements:\n" + bullets(e.BulletPoints, "  ") + "\n\n")
	b.WriteString("PRIVATE CONTEXT (use this to answer honestly):\n")
	b.WriteString("- " + line("Why I joined", textx.Or(e.WhyJoined, NotSpecified)) + "\n")
	b.WriteString("- " + line("Why I left", whyLeft) + "\n")
	b.WriteString("- " + line("What I actually did", textx.Or(e.ActualContributions, NotSpecified)) + "\n")
	b.WriteString("- " + line("Proudest of", textx.Or(e.ProudestAchievement, NotSpecified)) + "\n")
	b.WriteString("- " + line("Would do differently", textx.Or(e.WouldDoDifferently, "Nothing comes to mind")) + "\n")
	b.WriteString("- " + line("Challenges faced", textx.Or(e.ChallengesFaced, NotSpecified)) + "\n")
	b.WriteString("- " + line("Lessons learned", textx.Or(e.LessonsLearned, NotSpecified)) + "\n")
	b.WriteString("- " + line("My manager would say", textx.Or(e.ManagerWouldSay, NotSpecified)) + "\n")
	b.WriteString("- " + line("My reports would say", textx.Or(e.ReportsWouldSay, NotSpecified)))
	return b.String()
}

func chatSkill(s domain.Skill) string {
	entry := "- " + textx.SanitizeText(s.SkillName)
	if s.YearsExperience != nil && *s.YearsExperience > 0 {
		entry += " (" + formatYears(*s.YearsExperience) + " years)"
	}
	if s.SelfRating != nil && *s.SelfRating > 0 {
		entry += fmt.Sprintf(" - Self-rating: %d/5", *s.SelfRating)
	}
	if notes := textx.OrEmpty(s.HonestNotes); notes != "" {
		entry += "\n  Honest notes: " + notes
	}
	if ev := textx.OrEmpty(s.Evidence); ev != "" {
		entry += "\n  Evidence: " + ev
	}
	return entry
}

func chatGap(g domain.Gap) string {
	interest := "No"
	if g.InterestInLearning {
		interest = "Yes"
	}
	return fmt.Sprintf("- [%s] %s\n  Why it's a gap: %s\n  Interest in learning: %s",
		upper(string(g.GapType)), textx.SanitizeText(g.Description), textx.Or(g.WhyItsAGap, NotSpecified), interest)
}

func chatValues(v View) string {
	vc := v.Snapshot.Values
	if vc == nil {
		return "## VALUES & CULTURE FIT\nNo values/culture preferences specified."
	}
	lines := []string{
		line("Must-haves", textx.Or(vc.MustHaves, NotSpecified)),
		line("Dealbreakers", textx.Or(vc.Dealbreakers, NotSpecified)),
		line("Management style preferences", textx.Or(vc.ManagementStylePreferences, NotSpecified)),
		line("Team size preferences", textx.Or(vc.TeamSizePreferences, NotSpecified)),
		line("How I handle conflict", textx.Or(vc.HowHandleConflict, NotSpecified)),
		line("How I handle ambiguity", textx.Or(vc.HowHandleAmbiguity, NotSpecified)),
		line("How I handle failure", textx.Or(vc.HowHandleFailure, NotSpecified)),
	}
	return "## VALUES & CULTURE FIT\n" + strings.Join(lines, "\n")
}

func chatFAQ(v View) string {
	pairs := make([]string, 0, len(v.Snapshot.FAQs))
	for _, f := range v.Snapshot.FAQs {
		q, a := textx.SanitizeText(f.Question), textx.SanitizeText(f.Answer)
		if q == "" {
			continue
		}
		pairs = append(pairs, "Q: "+q+"\nA: "+a)
	}
	return "## PRE-WRITTEN ANSWERS\n" + orList(strings.Join(pairs, "\n\n"), "No pre-written answers available.")
}

func chatGuidelines(v View) string {
	return fmt.Sprintf(`## RESPONSE GUIDELINES
- Speak in first person as %s
- Keep the %s tone set by the core directive above
- Keep responses concise unless detail is asked for
- If you don't know something specific, say so
- When discussing gaps, own them confidently
- Don't make up information that isn't in your context`, v.Name, TierFor(v.HonestyLevel).Name)
}
