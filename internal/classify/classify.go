package classify

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mrz1836/specify/internal/clock"
	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/domain"
	specerrors "github.com/mrz1836/specify/internal/errors"
	"github.com/mrz1836/specify/internal/git"
)

// Reasons recorded on a verdict.
const (
	ReasonAbsent    = "target directory does not exist yet"
	ReasonHeuristic = "heuristic analysis"
	ReasonOverride  = "manual override"
)

const (
	absentConfidence   = 0.98
	overrideConfidence = 0.99
)

//nolint:gochecknoglobals // Static per-type guidance
var recommendations = map[constants.ProjectType][]string{
	constants.ProjectTypeBrownfield: {
		"Create a backup branch before initializing templates",
		"Document mapping between existing architecture and Spec Kit artifacts",
		"Review dependency versions to avoid template overwrites",
	},
	constants.ProjectTypeOngoing: {
		"Align new artifacts with existing feature directories",
		"Verify SPECIFY_FEATURE matches current working branch",
	},
}

// CommitCounter returns the number of commits reachable from HEAD in dir.
type CommitCounter func(ctx context.Context, dir string) (int, error)

// Classifier produces verdicts for target directories.
type Classifier struct {
	commits  CommitCounter
	clock    clock.Clock
	maxFiles int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithCommitCounter replaces the git-backed commit counter.
func WithCommitCounter(fn CommitCounter) Option {
	return func(c *Classifier) {
		c.commits = fn
	}
}

// WithClock sets the clock used for analysis timestamps.
func WithClock(clk clock.Clock) Option {
	return func(c *Classifier) {
		c.clock = clk
	}
}

// New creates a Classifier that counts commits with git.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		commits:  git.CommitCount,
		clock:    clock.RealClock{},
		maxFiles: constants.MaxScanFiles,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseProjectType validates an override value. Matching is
// case-insensitive and an empty value means auto.
func ParseProjectType(value string) (constants.ProjectType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return constants.ProjectTypeAuto, nil
	}
	switch pt := constants.ProjectType(normalized); pt {
	case constants.ProjectTypeAuto, constants.ProjectTypeGreenfield,
		constants.ProjectTypeOngoing, constants.ProjectTypeBrownfield:
		return pt, nil
	default:
		return "", fmt.Errorf("project type %q (choose auto, brownfield, greenfield, ongoing): %w",
			value, specerrors.ErrInvalidArgument)
	}
}

// Classify inspects dir and returns its verdict. override is one of auto,
// greenfield, ongoing or brownfield, in any case; anything else fails with
// ErrInvalidArgument. Unreadable subtrees and git failures never fail the
// call. Only cancellation of ctx does.
func (c *Classifier) Classify(ctx context.Context, dir, override string) (*domain.Classification, error) {
	forced, err := ParseProjectType(override)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	var v *domain.Classification
	pathExists := exists(abs)
	if !pathExists {
		v = absentVerdict()
	} else {
		v, err = c.analyze(ctx, abs)
		if err != nil {
			return nil, err
		}
	}

	if forced != constants.ProjectTypeAuto {
		applyOverride(v, forced)
	}

	v.MigrationRecommendations = append([]string{}, recommendations[v.ProjectType]...)
	v.ConfidenceScore = domain.ScoreFor(v.Confidence)
	v.AnalysisTimestamp = c.clock.Now().UTC()
	if pathExists {
		v.ExistingFilesCount = v.Stats.FileCount
	}
	v.Warnings = warningsFor(v)

	zerolog.Ctx(ctx).Debug().
		Str("path", abs).
		Str("project_type", v.ProjectType.String()).
		Int("confidence_score", v.ConfidenceScore).
		Int("file_count", v.Stats.FileCount).
		Int("git_commits", v.Stats.GitCommits).
		Strs("skipped_paths", v.SkippedPaths).
		Msg("project classified")

	return v, nil
}

func absentVerdict() *domain.Classification {
	return &domain.Classification{
		ProjectType: constants.ProjectTypeGreenfield,
		Confidence:  absentConfidence,
		Reason:      ReasonAbsent,
		Stats: domain.Stats{
			ConfigHits:  []string{},
			SamplePaths: []string{},
		},
		Signals:      []string{"Target directory absent: treating as new project"},
		SkippedPaths: []string{},
	}
}

func (c *Classifier) analyze(ctx context.Context, root string) (*domain.Classification, error) {
	res, err := scan(ctx, root, c.maxFiles)
	if err != nil {
		return nil, err
	}

	commits, err := c.commits(ctx, root)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		zerolog.Ctx(ctx).Debug().
			Err(specerrors.Degraded(err, "count git commits")).
			Str("path", root).
			Msg("git history unavailable, assuming no commits")
		commits = 0
	}

	stats := domain.Stats{
		FileCount:   res.fileCount,
		GitCommits:  commits,
		ConfigHits:  res.configHits,
		SamplePaths: res.samplePaths,
		HasSpecify:  exists(filepath.Join(root, constants.SpecifyDir)),
		HasSpecsDir: exists(filepath.Join(root, constants.SpecsDir)),
	}

	pt := decide(stats)
	return &domain.Classification{
		ProjectType:          pt,
		Confidence:           confidenceFor(pt, stats),
		Reason:               ReasonHeuristic,
		Stats:                stats,
		Signals:              signalsFor(stats),
		SafeguardRequired:    pt == constants.ProjectTypeBrownfield,
		RequiresConfirmation: stats.FileCount > 0 && pt != constants.ProjectTypeGreenfield,
		SkippedPaths:         res.skipped,
	}, nil
}

// decide picks a baseline from existing template state, then upgrades it on
// volume: brownfield thresholds first, then the ongoing ones.
func decide(s domain.Stats) constants.ProjectType {
	pt := constants.ProjectTypeGreenfield
	if s.HasSpecify || s.HasSpecsDir {
		pt = constants.ProjectTypeOngoing
	}
	hits := len(s.ConfigHits)
	switch {
	case s.GitCommits >= constants.BrownfieldCommitThreshold ||
		hits >= constants.BrownfieldConfigThreshold ||
		s.FileCount >= constants.BrownfieldFileThreshold:
		return constants.ProjectTypeBrownfield
	case pt != constants.ProjectTypeOngoing &&
		(s.GitCommits >= constants.OngoingCommitThreshold ||
			hits >= constants.OngoingConfigThreshold ||
			s.FileCount >= constants.OngoingFileThreshold):
		return constants.ProjectTypeOngoing
	default:
		return pt
	}
}

func confidenceFor(pt constants.ProjectType, s domain.Stats) float64 {
	hits := len(s.ConfigHits)
	switch pt {
	case constants.ProjectTypeGreenfield:
		if s.FileCount == 0 {
			return 0.95
		}
		return 0.80
	case constants.ProjectTypeOngoing:
		conf := 0.65 + 0.05*float64(min(s.GitCommits, 4)) + 0.05*float64(min(hits, 2))
		if s.HasSpecify {
			conf += 0.10
		}
		return math.Min(conf, 0.90)
	case constants.ProjectTypeBrownfield:
		conf := 0.70
		if s.GitCommits >= constants.BrownfieldCommitThreshold {
			conf += 0.10
		}
		if hits >= constants.BrownfieldConfigThreshold {
			conf += 0.10
		}
		if s.FileCount >= constants.BrownfieldFileThreshold {
			conf += 0.05
		}
		return math.Min(conf, 0.98)
	default:
		return 0.75
	}
}

func signalsFor(s domain.Stats) []string {
	signals := []string{fmt.Sprintf("Files detected: %d", s.FileCount)}
	if s.GitCommits > 0 {
		signals = append(signals, fmt.Sprintf("Git commits detected: %d", s.GitCommits))
	}
	if len(s.ConfigHits) > 0 {
		shown := s.ConfigHits[:min(len(s.ConfigHits), constants.ConfigSignalLimit)]
		signal := "Config markers: " + strings.Join(shown, ", ")
		if len(s.ConfigHits) > constants.ConfigSignalLimit {
			signal += " …"
		}
		signals = append(signals, signal)
	}
	if s.HasSpecify {
		signals = append(signals, "Existing .specify directory present")
	}
	if s.HasSpecsDir {
		signals = append(signals, "Existing specs/ directory present")
	}
	return signals
}

// applyOverride forces the caller's type onto v. The confirmation flag can
// only be raised, never cleared; the safeguard flag follows the forced type.
func applyOverride(v *domain.Classification, forced constants.ProjectType) {
	v.Signals = append(v.Signals, "Manual override requested: "+forced.String())
	v.OverrideApplied = true
	v.OverrideOrigin = forced.String()
	v.ProjectType = forced
	v.Confidence = overrideConfidence
	v.Reason = ReasonOverride
	v.RequiresConfirmation = v.RequiresConfirmation ||
		forced == constants.ProjectTypeBrownfield || forced == constants.ProjectTypeOngoing
	v.SafeguardRequired = forced == constants.ProjectTypeBrownfield
}

func warningsFor(v *domain.Classification) []string {
	warnings := []string{}
	if v.ProjectType == constants.ProjectTypeBrownfield && v.Stats.GitCommits == 0 {
		warnings = append(warnings, "Significant file volume without git history detected")
	}
	if v.ProjectType == constants.ProjectTypeGreenfield && v.ExistingFilesCount > 0 {
		warnings = append(warnings, "Non-empty directory classified as greenfield; review before proceeding")
	}
	if v.OverrideApplied {
		warnings = append(warnings, "Project type forced via --project-type")
	}
	return warnings
}

