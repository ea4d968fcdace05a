package install

// Step keys reported while installing.
const (
	StepExtract   = "extract"
	StepZipList   = "zip-list"
	StepSummary   = "extracted-summary"
	StepFlatten   = "flatten"
	StepCleanup   = "cleanup"
	StepLocalCopy = "local-copy"
)

// Reporter receives step transitions. *tracker.Tracker satisfies it.
type Reporter interface {
	Add(key, label string)
	Start(key, detail string)
	Complete(key, detail string)
	Error(key, detail string)
	Skip(key, detail string)
}

// NopReporter discards every transition.
type NopReporter struct{}

// Add implements Reporter.
func (NopReporter) Add(string, string) {}

// Start implements Reporter.
func (NopReporter) Start(string, string) {}

// Complete implements Reporter.
func (NopReporter) Complete(string, string) {}

// Error implements Reporter.
func (NopReporter) Error(string, string) {}

// Skip implements Reporter.
func (NopReporter) Skip(string, string) {}

var _ Reporter = NopReporter{}
