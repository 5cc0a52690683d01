package prospector

import (
	"context"
	"time"
)

// RunStatus is the lifecycle state of a scraper run. Transitions are
// monotonic: only the pipeline advances a run, and a run never regresses.
type RunStatus string

// Run lifecycle states, in pipeline order.
const (
	RunPending            RunStatus = "Pending"
	RunStarted            RunStatus = "Started"
	RunGettingPeopleInfo  RunStatus = "GettingPeopleInfo"
	RunGeneratingStrategy RunStatus = "GeneratingStrategy"
	RunGeneratingPDF      RunStatus = "GeneratingPDF"
	RunSuccess            RunStatus = "Success"
	RunError              RunStatus = "Error"
)

// statusRank orders the non-terminal pipeline states for the monotonic guard.
var statusRank = map[RunStatus]int{
	RunPending:            0,
	RunStarted:            1,
	RunGettingPeopleInfo:  2,
	RunGeneratingStrategy: 3,
	RunGeneratingPDF:      4,
	RunSuccess:            5,
	RunError:              5,
}

// Valid reports whether the status is a known lifecycle state.
func (s RunStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether the status ends the run.
func (s RunStatus) Terminal() bool {
	return s == RunSuccess || s == RunError
}

// CanTransitionTo reports whether advancing from s to next preserves the
// monotonic ordering. Error is reachable from any non-terminal state.
func (s RunStatus) CanTransitionTo(next RunStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.Terminal() {
		return false
	}
	if next == RunError {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// Run is a single scraper run owned by the status store.
type Run struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Status      RunStatus `json:"status"`
	Results     string    `json:"results"`
	Errors      string    `json:"errors"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RunRequest is the input to a scraper run.
type RunRequest struct {
	CompanyDescription string `json:"company_description"`
	URL                string `json:"url"`
	Email              string `json:"email"`
}

// Validate returns an error if the request contains invalid fields.
func (r *RunRequest) Validate() error {
	if r.CompanyDescription == "" {
		return Errorf(EINVALID, "company description required")
	}
	if r.URL == "" {
		return Errorf(EINVALID, "URL required")
	}
	if r.Email == "" {
		return Errorf(EINVALID, "email required")
	}
	return nil
}

// RunResult is the final payload of a run, also posted to the notification
// webhook.
type RunResult struct {
	Message   string `json:"message"`
	ReportURL string `json:"url"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Status    string `json:"status"`
}

// RunService is the status store for scraper runs.
type RunService interface {
	// CreateRun registers a new run in Pending state and returns its ID.
	CreateRun(ctx context.Context, email, description, url string) (string, error)

	// UpdateStatus advances a run's status, optionally recording results or
	// errors. Returns ECONFLICT if the transition would regress the run.
	UpdateStatus(ctx context.Context, runID string, status RunStatus, results, errs string) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)
}

// BlobStore uploads a local file and returns its public URL.
type BlobStore interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// Report is the payload handed to the report renderer.
type Report struct {
	Company      CompanyProfile
	Strategy     string // HTML fragment
	People       []Person
	AppendixURLs []string
	FaviconURL   string
}

// Renderer renders a report to a local file (e.g., PDF) and returns its path.
type Renderer interface {
	Render(ctx context.Context, report *Report) (string, error)
}

// Notifier delivers the final run result to an external sink.
// Delivery failure must never fail the run; callers log and continue.
type Notifier interface {
	Notify(ctx context.Context, result *RunResult) error
}
