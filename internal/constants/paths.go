package constants

// Directory and file names inside a project.
const (
	// SpecifyDir is the template-managed directory in a project root.
	SpecifyDir = ".specify"

	// SpecsDir is the conventional feature specification directory.
	SpecsDir = "specs"

	// StateDir is the state directory under SpecifyDir.
	StateDir = "state"

	// ClassificationFileName is the verdict sidecar under SpecifyDir/StateDir.
	ClassificationFileName = "project-classification.json"

	// ScriptsDir holds the template's helper scripts under SpecifyDir.
	ScriptsDir = "scripts"
)

// Directory names used under the user's home directory.
const (
	// SpecifyHome is the hidden directory where specify stores config and logs.
	SpecifyHome = ".specify"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// CLILogFileName is the name of the rotating CLI log file.
	CLILogFileName = "specify.log"

	// GlobalConfigName is the name of the global configuration file.
	GlobalConfigName = "config.yaml"
)

// ExcludedScanDirs are pruned from the classification scan.
//
//nolint:gochecknoglobals // Read-only lookup table
var ExcludedScanDirs = map[string]struct{}{
	".git":         {},
	".specify":     {},
	"__pycache__":  {},
	"node_modules": {},
	".venv":        {},
	".idea":        {},
	".vscode":      {},
}

// ConfigFileMarkers are file basenames that indicate an established toolchain.
//
//nolint:gochecknoglobals // Read-only lookup table
var ConfigFileMarkers = map[string]struct{}{
	"package.json":       {},
	"pnpm-lock.yaml":     {},
	"yarn.lock":          {},
	"pyproject.toml":     {},
	"requirements.txt":   {},
	"composer.json":      {},
	"Gemfile":            {},
	"Cargo.toml":         {},
	"go.mod":             {},
	"pom.xml":            {},
	"build.gradle":       {},
	"Dockerfile":         {},
	"docker-compose.yml": {},
	"next.config.js":     {},
	"vite.config.js":     {},
	"vite.config.ts":     {},
	"tsconfig.json":      {},
	"Makefile":           {},
}
