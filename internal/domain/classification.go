// Package domain provides shared domain types for specify.
package domain

import (
	"math"
	"time"

	"github.com/mrz1836/specify/internal/constants"
)

// Classification is the verdict produced by the project classifier.
//
// Example JSON representation:
//
//	{
//	    "project_type": "ongoing",
//	    "confidence": 0.75,
//	    "confidence_score": 75,
//	    "reason": "heuristic analysis",
//	    "stats": {"file_count": 14, "git_commits": 2, "config_hits": ["go.mod"], ...},
//	    "signals": ["Files detected: 14", "Git commits detected: 2", ...],
//	    "safeguard_required": false,
//	    "requires_confirmation": true,
//	    ...
//	}
type Classification struct {
	// ProjectType is the final category, after any override.
	ProjectType constants.ProjectType `json:"project_type"`

	// Confidence is in [0,1].
	Confidence float64 `json:"confidence"`

	// ConfidenceScore is round(Confidence*100).
	ConfidenceScore int `json:"confidence_score"`

	// Reason states how the type was decided.
	Reason string `json:"reason"`

	// Stats holds the raw scan measurements.
	Stats Stats `json:"stats"`

	// Signals are evidence strings in detection order.
	Signals []string `json:"signals"`

	// Warnings are caution strings for the operator.
	Warnings []string `json:"warnings"`

	// MigrationRecommendations is non-empty only for ongoing and brownfield.
	MigrationRecommendations []string `json:"migration_recommendations"`

	// SafeguardRequired is true iff ProjectType is brownfield.
	SafeguardRequired bool `json:"safeguard_required"`

	// RequiresConfirmation asks the caller to confirm before writing into the target.
	RequiresConfirmation bool `json:"requires_confirmation"`

	// OverrideApplied is true when the type was forced by the caller.
	OverrideApplied bool `json:"override_applied"`

	// OverrideOrigin is the override value when one was applied.
	OverrideOrigin string `json:"override_origin,omitempty"`

	// ExistingFilesCount is the scanned file count, or 0 for an absent target.
	ExistingFilesCount int `json:"existing_files_count"`

	// SkippedPaths lists subtrees the scan could not read.
	SkippedPaths []string `json:"skipped_paths"`

	// AnalysisTimestamp is when the classification ran (UTC).
	AnalysisTimestamp time.Time `json:"analysis_timestamp"`
}

// Stats holds the measurements gathered by the directory scan.
type Stats struct {
	// FileCount is the number of files seen, truncated at the scan cap.
	FileCount int `json:"file_count"`

	// GitCommits is the number of commits reachable from HEAD, or 0.
	GitCommits int `json:"git_commits"`

	// ConfigHits are relative paths of recognized config markers, first seen first.
	ConfigHits []string `json:"config_hits"`

	// SamplePaths are the first relative file paths seen.
	SamplePaths []string `json:"sample_paths"`

	// HasSpecify reports a top-level .specify directory.
	HasSpecify bool `json:"has_specify"`

	// HasSpecsDir reports a top-level specs directory.
	HasSpecsDir bool `json:"has_specs_dir"`
}

// ScoreFor converts a confidence in [0,1] to an integer score in [0,100].
func ScoreFor(confidence float64) int {
	score := int(math.Round(confidence * 100))
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

// IsBrownfield reports whether the verdict requires brownfield safeguards.
func (c *Classification) IsBrownfield() bool {
	return c.ProjectType == constants.ProjectTypeBrownfield
}
