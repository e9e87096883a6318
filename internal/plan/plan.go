package plan

import "plexrr/internal/media"

// Kind identifies the backend operation an action maps to.
type Kind string

const (
	KindAddToManager   Kind = "add-to-manager"
	KindDeleteRecord   Kind = "delete-record"
	KindDeleteFile     Kind = "delete-file"
	KindDeleteEpisode  Kind = "delete-episode"
	KindRequestEpisode Kind = "request-episode"
)

// Action is one proposed backend operation.
type Action struct {
	Kind        Kind
	Source      media.SourceKind
	TargetID    string
	Description string

	// Add-to-manager parameters.
	Title            string
	Year             int
	QualityProfileID int
	RootFolder       string

	// Episode parameters.
	ShowTitle string
	Season    int
	Episode   int

	// Deletion parameters.
	DeleteFiles bool
}

// Skipped is an item the planner could not produce an action for, kept
// for the run summary.
type Skipped struct {
	Title  string
	Reason string
}

// Plan is the full output of one planner run.
type Plan struct {
	Actions []Action
	Skipped []Skipped
}

// Empty reports whether the plan proposes no operations.
func (p Plan) Empty() bool { return len(p.Actions) == 0 }
