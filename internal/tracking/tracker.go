package tracking

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/sergiomunoz/opportunity-pipeline/internal/correlation"
)

// DefaultMinStage is the correlation stage an opportunity must have reached
// before InitFromCorrelation creates a tracked application for it.
const DefaultMinStage = correlation.StageReplied

// Tracker holds tracked applications in memory, keyed by job ID. Load state
// with LoadExisting, mutate it through the Update/Add/Set methods, then
// persist the result of All.
type Tracker struct {
	apps map[string]*TrackedApplication
	log  *slog.Logger
	now  func() time.Time
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		apps: make(map[string]*TrackedApplication),
		log:  slog.Default(),
		now:  time.Now,
	}
}

// SetLogger replaces the tracker's logger.
func (t *Tracker) SetLogger(log *slog.Logger) {
	if log != nil {
		t.log = log
	}
}

// LoadExisting seeds the tracker with previously persisted applications.
// Later entries with a duplicate job ID are ignored.
func (t *Tracker) LoadExisting(apps []TrackedApplication) {
	for i := range apps {
		if apps[i].JobID == "" {
			continue
		}
		if _, ok := t.apps[apps[i].JobID]; ok {
			continue
		}
		app := apps[i]
		t.apps[app.JobID] = &app
	}
}

// InitFromCorrelation creates a tracked application for every correlated
// opportunity that reached minStage and is not already tracked. A zero
// minStage means DefaultMinStage. Returns the newly created applications.
func (t *Tracker) InitFromCorrelation(correlated []correlation.CorrelatedOpportunity, minStage correlation.Stage) []*TrackedApplication {
	if minStage == "" {
		minStage = DefaultMinStage
	}
	var created []*TrackedApplication
	for i := range correlated {
		opp := &correlated[i]
		if opp.JobID == "" || !correlation.StageAtLeast(opp.Stage, minStage) {
			continue
		}
		if _, ok := t.apps[opp.JobID]; ok {
			continue
		}
		app := t.fromOpportunity(opp)
		t.apps[app.JobID] = app
		created = append(created, app)
	}
	t.log.Info("initialised applications from correlation",
		"created", len(created), "min_stage", string(minStage))
	return created
}

func (t *Tracker) fromOpportunity(opp *correlation.CorrelatedOpportunity) *TrackedApplication {
	now := t.now().UTC()
	appliedAt := now
	if opp.RepliedAt != "" {
		if ts, err := time.Parse(time.RFC3339, opp.RepliedAt); err == nil {
			appliedAt = ts.UTC()
		}
	}
	app := &TrackedApplication{
		JobID:          opp.JobID,
		JobTitle:       opp.JobTitle,
		Company:        opp.Company,
		RecruiterName:  opp.RecruiterName,
		RecruiterEmail: opp.RecruiterEmail,
		Status:         StatusApplied,
		AppliedAt:      appliedAt,
		LastUpdatedAt:  now,
		StatusHistory: []StatusChange{{
			From:      StatusApplied,
			To:        StatusApplied,
			Timestamp: now,
			Note:      "initialised from correlation data",
		}},
	}
	if opp.Match != nil {
		score := opp.Match.OverallScore
		app.MatchScore = &score
		app.MatchGrade = string(opp.Match.Grade)
	}
	return app
}

// Get returns the tracked application for a job ID.
func (t *Tracker) Get(jobID string) (*TrackedApplication, bool) {
	app, ok := t.apps[jobID]
	return app, ok
}

// UpdateStatus transitions an application to a new status, recording the
// change in the audit trail. Moving to closed stamps ClosedAt.
func (t *Tracker) UpdateStatus(jobID string, status ApplicationStatus, note string) (*TrackedApplication, error) {
	app, ok := t.apps[jobID]
	if !ok {
		return nil, fmt.Errorf("tracking: unknown job id %q", jobID)
	}
	if !validStatus(status) {
		return nil, fmt.Errorf("tracking: invalid status %q", status)
	}
	t.transition(app, status, note)
	return app, nil
}

func (t *Tracker) transition(app *TrackedApplication, status ApplicationStatus, note string) {
	if app.Status == status {
		return
	}
	now := t.now().UTC()
	app.StatusHistory = append(app.StatusHistory, StatusChange{
		From:      app.Status,
		To:        status,
		Timestamp: now,
		Note:      note,
	})
	app.Status = status
	app.LastUpdatedAt = now
	if status == StatusClosed {
		app.ClosedAt = &now
	}
	t.log.Info("application status changed",
		"job_id", app.JobID, "company", app.Company, "status", string(status))
}

// AddInterview appends an interview round. Round defaults to the next number
// when zero; an application still in applied auto-promotes to interviewing.
func (t *Tracker) AddInterview(jobID string, rec InterviewRecord) (*TrackedApplication, error) {
	app, ok := t.apps[jobID]
	if !ok {
		return nil, fmt.Errorf("tracking: unknown job id %q", jobID)
	}
	if rec.Type == "" {
		rec.Type = InterviewOther
	}
	if rec.Round == 0 {
		rec.Round = len(app.Interviews) + 1
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = t.now().UTC()
	}
	app.Interviews = append(app.Interviews, rec)
	app.LastUpdatedAt = t.now().UTC()
	if app.Status == StatusApplied {
		t.transition(app, StatusInterviewing, fmt.Sprintf("interview scheduled: %s", rec.Type))
	}
	return app, nil
}

// SetOffer records offer details and promotes the application to offered
// unless it is already closed.
func (t *Tracker) SetOffer(jobID string, offer OfferDetails) (*TrackedApplication, error) {
	app, ok := t.apps[jobID]
	if !ok {
		return nil, fmt.Errorf("tracking: unknown job id %q", jobID)
	}
	if offer.ReceivedAt == nil {
		now := t.now().UTC()
		offer.ReceivedAt = &now
	}
	app.Offer = &offer
	app.LastUpdatedAt = t.now().UTC()
	if app.Status != StatusClosed {
		t.transition(app, StatusOffered, "offer received")
	}
	return app, nil
}

// SetOutcome closes an application with a final outcome.
func (t *Tracker) SetOutcome(jobID string, outcome FinalOutcome) (*TrackedApplication, error) {
	app, ok := t.apps[jobID]
	if !ok {
		return nil, fmt.Errorf("tracking: unknown job id %q", jobID)
	}
	if !validOutcome(outcome) {
		return nil, fmt.Errorf("tracking: invalid outcome %q", outcome)
	}
	app.FinalOutcome = outcome
	t.transition(app, StatusClosed, fmt.Sprintf("outcome: %s", outcome))
	app.LastUpdatedAt = t.now().UTC()
	return app, nil
}

// AddNote appends a free-form note.
func (t *Tracker) AddNote(jobID, note string) (*TrackedApplication, error) {
	app, ok := t.apps[jobID]
	if !ok {
		return nil, fmt.Errorf("tracking: unknown job id %q", jobID)
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, fmt.Errorf("tracking: empty note for job id %q", jobID)
	}
	app.Notes = append(app.Notes, note)
	app.LastUpdatedAt = t.now().UTC()
	return app, nil
}

// All returns the tracked applications sorted by last update, newest first.
func (t *Tracker) All() []TrackedApplication {
	out := make([]TrackedApplication, 0, len(t.apps))
	for _, app := range t.apps {
		out = append(out, *app)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LastUpdatedAt.Equal(out[j].LastUpdatedAt) {
			return out[i].LastUpdatedAt.After(out[j].LastUpdatedAt)
		}
		return out[i].JobID < out[j].JobID
	})
	return out
}

// BuildSummary computes aggregate statistics over the tracked set.
func (t *Tracker) BuildSummary() TrackingSummary {
	s := TrackingSummary{
		ByStatus:  make(map[string]int),
		ByOutcome: make(map[string]int),
	}
	companies := make(map[string]int)
	var scoreSum float64
	var scored int
	for _, app := range t.apps {
		s.TotalApplications++
		if app.Active() {
			s.Active++
		}
		s.ByStatus[string(app.Status)]++
		if app.FinalOutcome != "" {
			s.ByOutcome[string(app.FinalOutcome)]++
		}
		s.TotalInterviews += len(app.Interviews)
		if app.Offer != nil {
			s.OffersReceived++
		}
		if app.MatchScore != nil {
			scoreSum += *app.MatchScore
			scored++
		}
		if app.Company != "" {
			companies[app.Company]++
		}
	}
	if scored > 0 {
		s.AverageScore = scoreSum / float64(scored)
	}
	for company, n := range companies {
		s.TopCompanies = append(s.TopCompanies, CompanyCount{Company: company, Count: n})
	}
	sort.SliceStable(s.TopCompanies, func(i, j int) bool {
		if s.TopCompanies[i].Count != s.TopCompanies[j].Count {
			return s.TopCompanies[i].Count > s.TopCompanies[j].Count
		}
		return s.TopCompanies[i].Company < s.TopCompanies[j].Company
	})
	if len(s.TopCompanies) > 5 {
		s.TopCompanies = s.TopCompanies[:5]
	}
	return s
}

func validStatus(s ApplicationStatus) bool {
	switch s {
	case StatusApplied, StatusInterviewing, StatusOffered, StatusClosed:
		return true
	}
	return false
}

func validOutcome(o FinalOutcome) bool {
	switch o {
	case OutcomeAccepted, OutcomeDeclined, OutcomeRejected, OutcomeWithdrawn, OutcomeGhosted:
		return true
	}
	return false
}
