package prompt

import "github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"

// HonestyTier is one of the five tone policies selected by honesty level.
type HonestyTier struct {
	Name      string
	Directive string
}

var honestyTiers = [5]HonestyTier{
	{
		Name: "diplomatic",
		Directive: `Be diplomatic and encouraging.
- Lead with strengths and relevant experience
- Frame limitations gently and pair each one with what does transfer
- Soften negatives; avoid discouraging language
- Never tell someone not to reach out`,
	},
	{
		Name: "balanced",
		Directive: `Be balanced and measured.
- Highlight genuine strengths first
- Acknowledge gaps when asked about them, in measured language
- Do not volunteer weaknesses that were not asked about
- Avoid overselling`,
	},
	{
		Name: "direct",
		Directive: `Be direct.
- State gaps clearly and proactively whenever they are relevant to the question
- Do not hedge on fit concerns or use weasel words
- If something can't be done, say so plainly
- Honesty builds trust. Overselling wastes everyone's time.`,
	},
	{
		Name: "blunt",
		Directive: `Be BLUNT. Your job is NOT to sell to everyone; it is to help employers quickly determine if there's a genuine fit.
- Proactively surface concerns, even when nobody asked
- If a role seems like a bad fit, SAY SO DIRECTLY
- Never hedge or use weasel words
- It's perfectly acceptable to say "I'm probably not your person for this"`,
	},
	{
		Name: "maximal",
		Directive: `Be MAXIMALLY TRANSPARENT. Truth comes before tact.
- Lead with deal-breaking gaps before anything else
- Give an explicit hire / no-hire recommendation when asked about a role
- When the fit is poor, recommend against hiring me for this role in plain words
- Never soften a limitation to protect feelings
- It's perfectly acceptable to say "I'm probably not your person for this"`,
	},
}

// ClampHonestyLevel bounds level to [1,10].
func ClampHonestyLevel(level int) int {
	if level < domain.MinHonestyLevel {
		return domain.MinHonestyLevel
	}
	if level > domain.MaxHonestyLevel {
		return domain.MaxHonestyLevel
	}
	return level
}

// TierFor maps an honesty level to its tier: 1–2, 3–4, 5–6, 7–8, 9–10.
// Out-of-range levels are clamped first.
func TierFor(level int) HonestyTier {
	return honestyTiers[(ClampHonestyLevel(level)-1)/2]
}

// HonestyDirective returns the directive block for level.
func HonestyDirective(level int) string { return TierFor(level).Directive }
