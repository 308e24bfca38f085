// Package tailoring adjusts a resume for a specific opportunity and renders
// the tailored version as a .docx document. Every modification is recorded as
// a TailoringChange so the report shows exactly what was altered.
package tailoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sergiomunoz/opportunity-pipeline/internal/llm"
	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

// Result is the outcome of tailoring one resume for one opportunity.
type Result struct {
	Resume       types.Resume          `json:"resume"`
	Report       types.TailoringReport `json:"report"`
	DocumentPath string                `json:"document_path,omitempty"`
}

// Engine tailors resumes using model-proposed edits applied deterministically.
type Engine struct {
	client   llm.Client
	tier     llm.ModelTier
	renderer *DocumentRenderer
	log      *slog.Logger
	now      func() time.Time
}

// NewEngine builds a tailoring engine. renderer may be nil, in which case no
// .docx is produced and reports carry no document filename.
func NewEngine(client llm.Client, renderer *DocumentRenderer) *Engine {
	return &Engine{
		client:   client,
		tier:     llm.TierStandard,
		renderer: renderer,
		log:      slog.Default(),
		now:      time.Now,
	}
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(log *slog.Logger) {
	if log != nil {
		e.log = log
	}
}

// suggestions is the edit set the model proposes. Everything is optional;
// empty fields produce no change.
type suggestions struct {
	Summary           string   `json:"summary"`
	SummaryReason     string   `json:"summary_reason"`
	SkillsToHighlight []string `json:"skills_to_highlight"`
	KeywordsToAdd     []string `json:"keywords_to_add"`
	ExperienceNotes   []string `json:"experience_to_emphasize"`
}

// Tailor produces a tailored copy of the resume for one opportunity. The
// input resume is never mutated.
func (e *Engine) Tailor(ctx context.Context, resume *types.Resume, match *types.MatchResult, opp *types.Opportunity) (*Result, error) {
	jobID := match.JobID
	if jobID == "" {
		return nil, fmt.Errorf("match result has no job ID")
	}

	raw, err := e.client.GenerateJSON(ctx, buildTailoringPrompt(resume, match, opp), e.tier)
	if err != nil {
		return nil, fmt.Errorf("tailoring suggestions for job %s: %w", jobID, err)
	}
	var sugg suggestions
	if err := json.Unmarshal([]byte(raw), &sugg); err != nil {
		return nil, fmt.Errorf("parsing tailoring suggestions for job %s: %w", jobID, err)
	}

	tailored := cloneResume(resume)
	ts := e.now().UTC()
	report := types.TailoringReport{
		JobID:     jobID,
		JobTitle:  match.JobTitle,
		Company:   match.Company,
		Timestamp: &ts,
	}

	applySummary(tailored, &sugg, &report)
	applySkillHighlights(tailored, sugg.SkillsToHighlight, &report)
	applyKeywords(tailored, sugg.KeywordsToAdd, &report)
	applyExperienceEmphasis(&sugg, &report)

	result := &Result{Resume: *tailored, Report: report}

	if e.renderer != nil {
		path, err := e.renderer.Render(tailored, jobID)
		if err != nil {
			return nil, fmt.Errorf("rendering tailored resume for job %s: %w", jobID, err)
		}
		result.DocumentPath = path
		result.Report.DocumentFilename = documentFilename(jobID)
	}
	return result, nil
}

// TailorAll tailors the resume for every match at or above the given
// recommendation. Matches below the bar are skipped silently; a failed
// tailoring run is skipped with a warning.
func (e *Engine) TailorAll(ctx context.Context, resume *types.Resume, matches []types.MatchResult, opps map[string]types.Opportunity, minRec types.Recommendation) ([]Result, error) {
	out := make([]Result, 0, len(matches))
	for i := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !atLeast(matches[i].Recommendation, minRec) {
			continue
		}
		opp, ok := opps[matches[i].JobID]
		if !ok {
			e.log.Warn("match has no extracted opportunity, skipping tailoring",
				"job_id", matches[i].JobID)
			continue
		}
		result, err := e.Tailor(ctx, resume, &matches[i], &opp)
		if err != nil {
			e.log.Warn("tailoring failed, skipping opportunity",
				"job_id", matches[i].JobID, "error", err)
			continue
		}
		out = append(out, *result)
	}
	return out, nil
}

var recommendationRank = map[types.Recommendation]int{
	types.RecommendStrongApply:    4,
	types.RecommendApply:          3,
	types.RecommendConsider:       2,
	types.RecommendSkip:           1,
	types.RecommendNotRecommended: 0,
}

func atLeast(rec, minRec types.Recommendation) bool {
	return recommendationRank[rec] >= recommendationRank[minRec]
}

func cloneResume(r *types.Resume) *types.Resume {
	out := *r
	out.Skills = append([]types.ResumeSkill(nil), r.Skills...)
	out.SoftSkills = append([]string(nil), r.SoftSkills...)
	out.Certifications = append([]types.ResumeCertification(nil), r.Certifications...)
	out.Experience = append([]types.ResumeExperience(nil), r.Experience...)
	out.Education = append([]types.ResumeEducation(nil), r.Education...)
	if r.Preferences != nil {
		prefs := *r.Preferences
		out.Preferences = &prefs
	}
	return &out
}

func applySummary(resume *types.Resume, sugg *suggestions, report *types.TailoringReport) {
	after := strings.TrimSpace(sugg.Summary)
	if after == "" || after == resume.Personal.Summary {
		return
	}
	report.Changes = append(report.Changes, types.TailoringChange{
		Category: types.ChangeSummary,
		Field:    "personal.summary",
		Before:   resume.Personal.Summary,
		After:    after,
		Reason:   sugg.SummaryReason,
	})
	resume.Personal.Summary = after
}

// applySkillHighlights moves highlighted skills to the front of the skill
// list, preserving the relative order of everything else.
func applySkillHighlights(resume *types.Resume, highlights []string, report *types.TailoringReport) {
	if len(highlights) == 0 || len(resume.Skills) == 0 {
		return
	}
	wanted := make(map[string]bool, len(highlights))
	for _, h := range highlights {
		wanted[strings.ToLower(strings.TrimSpace(h))] = true
	}

	front := make([]types.ResumeSkill, 0, len(resume.Skills))
	rest := make([]types.ResumeSkill, 0, len(resume.Skills))
	for _, s := range resume.Skills {
		if wanted[strings.ToLower(s.Name)] {
			front = append(front, s)
		} else {
			rest = append(rest, s)
		}
	}
	if len(front) == 0 {
		return
	}

	before := skillOrder(resume.Skills)
	resume.Skills = append(front, rest...)
	after := skillOrder(resume.Skills)
	if before == after {
		return
	}
	names := make([]string, 0, len(front))
	for _, s := range front {
		names = append(names, s.Name)
	}
	report.Changes = append(report.Changes, types.TailoringChange{
		Category: types.ChangeSkills,
		Field:    "skills",
		Before:   before,
		After:    after,
		Reason:   "highlighted for this role: " + strings.Join(names, ", "),
	})
}

func skillOrder(skills []types.ResumeSkill) string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

// applyKeywords adds suggested keywords as new skills when the resume does
// not already carry them. Keywords the candidate never claimed stay out:
// only ones matching an existing skill, certification, or listed technology
// are added.
func applyKeywords(resume *types.Resume, keywords []string, report *types.TailoringReport) {
	if len(keywords) == 0 {
		return
	}
	existing := make(map[string]bool, len(resume.Skills))
	for _, s := range resume.Skills {
		existing[strings.ToLower(s.Name)] = true
	}
	known := knownTerms(resume)

	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		key := strings.ToLower(kw)
		if kw == "" || existing[key] || !known[key] {
			continue
		}
		existing[key] = true
		resume.Skills = append(resume.Skills, types.ResumeSkill{Name: kw})
		report.Changes = append(report.Changes, types.TailoringChange{
			Category: types.ChangeKeywords,
			Field:    "skills",
			After:    kw,
			Reason:   "keyword surfaced from experience section",
		})
	}
}

// knownTerms collects every term the resume already substantiates.
func knownTerms(resume *types.Resume) map[string]bool {
	known := make(map[string]bool)
	for _, s := range resume.Skills {
		known[strings.ToLower(s.Name)] = true
	}
	for _, c := range resume.Certifications {
		known[strings.ToLower(c.Name)] = true
	}
	for _, exp := range resume.Experience {
		for _, tech := range exp.Technologies {
			known[strings.ToLower(tech)] = true
		}
	}
	return known
}

// applyExperienceEmphasis records which experience to lead with. The resume
// data itself is not reordered; the notes go to the report for the reader.
func applyExperienceEmphasis(sugg *suggestions, report *types.TailoringReport) {
	for _, note := range sugg.ExperienceNotes {
		note = strings.TrimSpace(note)
		if note == "" {
			continue
		}
		report.Changes = append(report.Changes, types.TailoringChange{
			Category: types.ChangeExperience,
			Field:    "experience",
			After:    note,
			Reason:   "emphasized for this role",
		})
	}
}

func buildTailoringPrompt(resume *types.Resume, match *types.MatchResult, opp *types.Opportunity) string {
	var b strings.Builder
	b.WriteString("Suggest how to tailor this resume for this job. ")
	b.WriteString("Never invent skills or experience the candidate does not have. ")
	b.WriteString("Only suggest keywords the resume already substantiates.\n\n")

	fmt.Fprintf(&b, "Job: %s at %s\n", match.JobTitle, match.Company)
	if len(opp.Keywords) > 0 {
		fmt.Fprintf(&b, "Job keywords: %s\n", strings.Join(opp.Keywords, ", "))
	}
	if len(match.Skills.MissingMandatory) > 0 {
		fmt.Fprintf(&b, "Missing mandatory skills: %s\n", strings.Join(match.Skills.MissingMandatory, ", "))
	}
	if len(match.Skills.MatchedMandatory) > 0 {
		fmt.Fprintf(&b, "Matched mandatory skills: %s\n", strings.Join(match.Skills.MatchedMandatory, ", "))
	}

	fmt.Fprintf(&b, "\nCandidate: %s\n", resume.Personal.Name)
	if resume.Personal.Summary != "" {
		fmt.Fprintf(&b, "Current summary: %s\n", resume.Personal.Summary)
	}
	fmt.Fprintf(&b, "Skills: %s\n", strings.Join(resume.SkillNames(), ", "))
	for _, exp := range resume.Experience {
		fmt.Fprintf(&b, "- %s at %s", exp.Title, exp.Company)
		if len(exp.Technologies) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(exp.Technologies, ", "))
		}
		b.WriteString("\n")
	}

	b.WriteString("\nRespond with JSON only:\n")
	b.WriteString(`{"summary": "rewritten summary or empty", "summary_reason": "", "skills_to_highlight": [], "keywords_to_add": [], "experience_to_emphasize": []}`)
	return b.String()
}
