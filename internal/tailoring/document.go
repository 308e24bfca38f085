package tailoring

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"github.com/sergiomunoz/opportunity-pipeline/internal/types"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// documentFilename returns the .docx filename for a tailored resume.
func documentFilename(jobID string) string {
	return "tailored_resume_" + unsafeFilenameChars.ReplaceAllString(jobID, "_") + ".docx"
}

// DocumentRenderer fills a .docx template with resume content. The template
// carries placeholders such as {{NAME}} and {{SKILLS}}; rendering replaces
// each with the tailored resume's data.
type DocumentRenderer struct {
	templatePath string
	outputDir    string
}

// NewDocumentRenderer builds a renderer writing into outputDir.
func NewDocumentRenderer(templatePath, outputDir string) *DocumentRenderer {
	return &DocumentRenderer{templatePath: templatePath, outputDir: outputDir}
}

// Render writes the tailored resume document for jobID and returns its path.
func (r *DocumentRenderer) Render(resume *types.Resume, jobID string) (string, error) {
	tmpl, err := docx.ReadDocxFile(r.templatePath)
	if err != nil {
		return "", fmt.Errorf("opening resume template %s: %w", r.templatePath, err)
	}
	defer tmpl.Close()

	doc := tmpl.Editable()
	for placeholder, value := range placeholderValues(resume) {
		if err := doc.Replace(placeholder, value, -1); err != nil {
			return "", fmt.Errorf("filling placeholder %s: %w", placeholder, err)
		}
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(r.outputDir, documentFilename(jobID))
	if err := doc.WriteToFile(path); err != nil {
		return "", fmt.Errorf("writing tailored resume: %w", err)
	}
	return path, nil
}

func placeholderValues(resume *types.Resume) map[string]string {
	skills := make([]string, 0, len(resume.Skills))
	for _, s := range resume.Skills {
		skills = append(skills, s.Name)
	}

	experience := make([]string, 0, len(resume.Experience))
	for _, exp := range resume.Experience {
		end := exp.EndDate
		if exp.Current {
			end = "present"
		}
		entry := fmt.Sprintf("%s, %s (%s - %s)", exp.Title, exp.Company, exp.StartDate, end)
		experience = append(experience, entry)
	}

	education := make([]string, 0, len(resume.Education))
	for _, edu := range resume.Education {
		entry := edu.Degree
		if edu.Field != "" {
			entry += " in " + edu.Field
		}
		entry += ", " + edu.Institution
		education = append(education, entry)
	}

	certs := make([]string, 0, len(resume.Certifications))
	for _, c := range resume.Certifications {
		certs = append(certs, c.Name)
	}

	return map[string]string{
		"{{NAME}}":           resume.Personal.Name,
		"{{EMAIL}}":          resume.Personal.Email,
		"{{PHONE}}":          resume.Personal.Phone,
		"{{LOCATION}}":       resume.Personal.Location,
		"{{SUMMARY}}":        resume.Personal.Summary,
		"{{SKILLS}}":         strings.Join(skills, ", "),
		"{{EXPERIENCE}}":     strings.Join(experience, "; "),
		"{{EDUCATION}}":      strings.Join(education, "; "),
		"{{CERTIFICATIONS}}": strings.Join(certs, ", "),
	}
}
