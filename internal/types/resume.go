//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// PersonalInfo is the contact block of a resume.
type PersonalInfo struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// ResumeSkill is a technical skill with optional proficiency metadata.
type ResumeSkill struct {
	Name     string  `json:"name"`
	Level    string  `json:"level,omitempty"` // beginner, intermediate, advanced, expert
	Years    float64 `json:"years,omitempty"`
	Category string  `json:"category,omitempty"`
}

// ResumeExperience is one work experience entry.
type ResumeExperience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Current      bool     `json:"current,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// ResumeEducation is one education entry.
type ResumeEducation struct {
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Institution string `json:"institution"`
	EndDate     string `json:"end_date,omitempty"`
}

// ResumeCertification is one professional certification.
type ResumeCertification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

// JobPreferences captures what the candidate is looking for, used by the
// location and culture dimensions of matching.
type JobPreferences struct {
	DesiredRoles      []string `json:"desired_roles,omitempty"`
	Locations         []string `json:"locations,omitempty"`
	RemotePreference  string   `json:"remote_preference,omitempty"` // remote_only, hybrid, onsite, flexible
	SalaryMin         float64  `json:"salary_min,omitempty"`
	WillingToRelocate bool     `json:"willing_to_relocate,omitempty"`
}

// Resume is the candidate resume the pipeline scores and tailors.
type Resume struct {
	Personal       PersonalInfo          `json:"personal" validate:"required"`
	Skills         []ResumeSkill         `json:"skills,omitempty"`
	SoftSkills     []string              `json:"soft_skills,omitempty"`
	Certifications []ResumeCertification `json:"certifications,omitempty"`
	Experience     []ResumeExperience    `json:"experience,omitempty"`
	Education      []ResumeEducation     `json:"education,omitempty"`
	Preferences    *JobPreferences       `json:"preferences,omitempty"`
	SourceFile     string                `json:"-"`
}

// Validate validates the resume using the validator.
func (r *Resume) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// SkillNames returns the flat list of technical skill names.
func (r *Resume) SkillNames() []string {
	names := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		names = append(names, s.Name)
	}
	return names
}
