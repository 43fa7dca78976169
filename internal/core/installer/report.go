package installer

// Outcome classifies what happened to one target file.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeRemoved Outcome = "removed"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Process exit codes derived from a report.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitPartial = 2
)

// Action records one sub-operation against one target file.
type Action struct {
	// Target is the file the sub-operation addressed. Malformed outcomes
	// always carry the exact path so the user can resolve the conflict.
	Target string
	Op     Outcome
	Err    error
}

// PlatformResult is the per-platform slice of a report.
type PlatformResult struct {
	Platform    string
	DisplayName string
	Detected    bool
	Actions     []Action
}

func (pr *PlatformResult) record(target string, op Outcome) {
	pr.Actions = append(pr.Actions, Action{Target: target, Op: op})
}

func (pr *PlatformResult) fail(target string, err error) {
	pr.Actions = append(pr.Actions, Action{Target: target, Op: OutcomeFailed, Err: err})
}

// Report aggregates the outcome of one install or remove invocation. It is
// created fresh per invocation, returned to the caller, and never persisted.
type Report struct {
	Platforms []PlatformResult
}

// Failures counts failed sub-operations across all platforms.
func (r *Report) Failures() int {
	n := 0
	for _, pr := range r.Platforms {
		for _, a := range pr.Actions {
			if a.Op == OutcomeFailed {
				n++
			}
		}
	}
	return n
}

// Successes counts sub-operations that completed (anything but failed).
func (r *Report) Successes() int {
	n := 0
	for _, pr := range r.Platforms {
		for _, a := range pr.Actions {
			if a.Op != OutcomeFailed {
				n++
			}
		}
	}
	return n
}

// NothingToDo reports whether no platform was detected at all. This is a
// distinct, non-error outcome.
func (r *Report) NothingToDo() bool {
	return len(r.Platforms) == 0
}

// ExitCode maps the report onto a process exit status: 0 when every
// sub-operation succeeded (or there was nothing to do), 1 when nothing
// succeeded, 2 when failures and successes are mixed.
func (r *Report) ExitCode() int {
	if r.NothingToDo() {
		return ExitOK
	}
	failures := r.Failures()
	if failures == 0 {
		return ExitOK
	}
	if r.Successes() == 0 {
		return ExitFailure
	}
	return ExitPartial
}
