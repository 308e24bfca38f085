package reply

import (
	"fmt"
	"strings"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// Tone selects the writing style for composed replies.
type Tone string

// Reply tones.
const (
	ToneProfessional Tone = "professional"
	ToneEnthusiastic Tone = "enthusiastic"
	ToneCasual       Tone = "casual"
	ToneConcise      Tone = "concise"
)

var toneInstructions = map[Tone]string{
	ToneProfessional: "Write in a polished, professional tone. Be courteous and direct.",
	ToneEnthusiastic: "Write in an upbeat, enthusiastic tone while remaining professional.",
	ToneCasual:       "Write in a friendly, conversational tone, warm but respectful.",
	ToneConcise:      "Write in an ultra-concise tone. Short sentences, no fluff.",
}

// renderTemplate produces the plain fallback reply body used when no model
// is available or the model call fails.
func renderTemplate(resume *types.Resume, match *types.MatchResult, opp *types.Opportunity, opts ComposeOptions) string {
	var b strings.Builder

	greeting := "Hello"
	if name := recruiterName(opp.SourceEmail.From); name != "" {
		greeting = "Hi " + firstName(name)
	}
	fmt.Fprintf(&b, "%s,\n\n", greeting)

	role := match.JobTitle
	if role == "" {
		role = opp.JobTitle
	}
	company := match.Company
	if company == "" {
		company = opp.Company
	}
	fmt.Fprintf(&b, "Thank you for reaching out about the %s role", role)
	if company != "" {
		fmt.Fprintf(&b, " at %s", company)
	}
	b.WriteString(". I reviewed the details and I'm interested in learning more.\n\n")

	if len(match.Insights.Strengths) > 0 {
		fmt.Fprintf(&b, "My background in %s seems like a strong fit for what you're looking for.\n\n",
			strings.Join(match.Insights.Strengths[:min(2, len(match.Insights.Strengths))], " and "))
	}

	var questions []string
	if opts.AskAboutInterview {
		questions = append(questions, "what the interview process looks like")
	}
	if opts.AskAboutSalary {
		questions = append(questions, "the compensation range for this role")
	}
	if opts.AdditionalQuestion != "" {
		questions = append(questions, opts.AdditionalQuestion)
	}
	if len(questions) > 0 {
		fmt.Fprintf(&b, "Could you share %s?\n\n", strings.Join(questions, ", and "))
	}
	if opts.AvailabilityNote != "" {
		fmt.Fprintf(&b, "%s\n\n", opts.AvailabilityNote)
	}

	b.WriteString("Would you have time for a short call this week?\n\n")
	fmt.Fprintf(&b, "Best regards,\n%s\n", resume.Personal.Name)
	return b.String()
}

func firstName(full string) string {
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i]
	}
	return full
}
