package constants

// ProjectType is the maturity category assigned to a target directory.
// Values use lowercase for JSON serialization compatibility.
type ProjectType string

const (
	// ProjectTypeAuto requests heuristic classification. It never appears in a verdict.
	ProjectTypeAuto ProjectType = "auto"

	// ProjectTypeGreenfield is a new or effectively empty project.
	ProjectTypeGreenfield ProjectType = "greenfield"

	// ProjectTypeOngoing is a project with some history or tooling.
	ProjectTypeOngoing ProjectType = "ongoing"

	// ProjectTypeBrownfield is a large established codebase that needs safeguards.
	ProjectTypeBrownfield ProjectType = "brownfield"
)

// String returns the string representation of the ProjectType.
func (p ProjectType) String() string {
	return string(p)
}

// StepStatus is the state of one step in a progress tracker.
//
//	pending → running → done | error | skipped
//
// Steps may also move directly from pending to any terminal state.
type StepStatus string

const (
	// StepPending indicates the step has not started.
	StepPending StepStatus = "pending"

	// StepRunning indicates the step is in progress.
	StepRunning StepStatus = "running"

	// StepDone indicates the step finished successfully.
	StepDone StepStatus = "done"

	// StepError indicates the step failed.
	StepError StepStatus = "error"

	// StepSkipped indicates the step was not needed.
	StepSkipped StepStatus = "skipped"
)

// String returns the string representation of the StepStatus.
func (s StepStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the step can no longer change on its own.
func (s StepStatus) IsTerminal() bool {
	return s == StepDone || s == StepError || s == StepSkipped
}
