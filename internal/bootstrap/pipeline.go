// Package bootstrap runs the init pipeline: acquire a template, install it
// into the target, restore script permissions, persist the classification
// verdict and initialize git. Every stage is reported on a tracker.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/ctxutil"
	"github.com/mrz1836/specify/internal/domain"
	specerrors "github.com/mrz1836/specify/internal/errors"
	"github.com/mrz1836/specify/internal/install"
	"github.com/mrz1836/specify/internal/perms"
	"github.com/mrz1836/specify/internal/source"
	"github.com/mrz1836/specify/internal/state"
	"github.com/mrz1836/specify/internal/tracker"
)

// Title heads the init tracker.
const Title = "Initialize Specify Project"

// Tracker step keys.
const (
	StepPrecheck       = "precheck"
	StepAISelect       = "ai-select"
	StepScriptSelect   = "script-select"
	StepClassification = "classification"
	StepFetch          = "fetch"
	StepDownload       = "download"
	StepChmod          = "chmod"
	StepPersist        = "persist"
	StepGit            = "git"
	StepFinal          = "final"
)

// DetailFunc renders the download step detail while bytes arrive.
type DetailFunc func(filename string, written, total int64) string

// Request describes one init run.
type Request struct {
	Target    domain.InstallTarget
	Assistant string
	Script    constants.ScriptType

	// Override forces a project type; empty or "auto" keeps the heuristic.
	Override string

	// Classification is a verdict computed earlier, typically before the
	// caller asked for confirmation. Nil classifies the target first.
	Classification *domain.Classification

	// LocalTemplates copies from a checkout instead of downloading.
	LocalTemplates string

	NoGit bool
}

// Result is what a run produced.
type Result struct {
	Classification *domain.Classification
	Asset          domain.TemplateAsset
	Permissions    perms.Result

	// Warnings are degraded conditions that did not stop the run.
	Warnings []string
}

// StepError is a pipeline failure attributed to the step that raised it.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Pipeline drives Services through the init steps.
type Pipeline struct {
	svc        Services
	scratchDir string
	detail     DetailFunc
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithScratchDir sets where downloaded archives are staged. Defaults to the
// system temp directory.
func WithScratchDir(dir string) Option {
	return func(p *Pipeline) {
		p.scratchDir = dir
	}
}

// WithDownloadDetail sets how download progress is rendered on the tracker.
func WithDownloadDetail(fn DetailFunc) Option {
	return func(p *Pipeline) {
		p.detail = fn
	}
}

// New creates a Pipeline.
func New(svc Services, opts ...Option) *Pipeline {
	if svc.Owner == "" {
		svc.Owner = constants.DefaultRepoOwner
	}
	if svc.Repo == "" {
		svc.Repo = constants.DefaultRepoName
	}
	if svc.Git == nil {
		svc.Git = SystemGit{}
	}
	p := &Pipeline{svc: svc, detail: plainDetail}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline for req, reporting on trk.
//
// Acquisition and install failures abort the run and are returned as
// *StepError. When the target did not exist beforehand and is not the
// current directory, an abort or cancellation removes it. Permission,
// persistence and git problems are recorded as warnings.
func (p *Pipeline) Run(ctx context.Context, req Request, trk *tracker.Tracker) (res *Result, err error) {
	if trk == nil {
		trk = tracker.New(Title)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	existed := pathExists(req.Target.Path)
	if existed && !req.Target.IsCurrentDir {
		return nil, fmt.Errorf("%s: %w", req.Target.Path, specerrors.ErrDirectoryExists)
	}

	verdict := req.Classification
	if verdict == nil {
		verdict, err = p.svc.Classifier.Classify(ctx, req.Target.Path, req.Override)
		if err != nil {
			return nil, specerrors.Wrap(err, "classify target")
		}
	}
	res = &Result{Classification: verdict}

	log := zerolog.Ctx(ctx).With().
		Str("target", req.Target.Path).
		Str("assistant", req.Assistant).
		Str("script", req.Script.String()).
		Logger()
	ctx = log.WithContext(ctx)

	local := req.LocalTemplates != ""
	seed(trk, req, verdict)
	plan(trk, local)

	defer func() {
		if err == nil {
			trk.Complete(StepFinal, "project ready")
			log.Info().Str("project_type", verdict.ProjectType.String()).Msg("project initialized")
			return
		}
		trk.Error(StepFinal, err.Error())
		if !req.Target.IsCurrentDir && !existed {
			rollback(ctx, req.Target.Path)
		}
	}()

	if local {
		err = p.copyLocal(ctx, req, trk)
	} else {
		res.Asset, err = p.acquire(ctx, req, trk)
	}
	if err != nil {
		return res, err
	}
	if err = ctxutil.Canceled(ctx); err != nil {
		return res, err
	}

	res.Permissions = normalize(ctx, req.Target.Path, trk)
	for _, f := range res.Permissions.Failures {
		res.Warnings = append(res.Warnings, "chmod "+f.String())
	}

	if w := p.persist(ctx, req.Target.Path, verdict, trk); w != "" {
		res.Warnings = append(res.Warnings, w)
	}
	if err = ctxutil.Canceled(ctx); err != nil {
		return res, err
	}

	if w := p.initGit(ctx, req, trk); w != "" {
		res.Warnings = append(res.Warnings, w)
	}
	if err = ctxutil.Canceled(ctx); err != nil {
		return res, err
	}
	return res, nil
}

func (r Request) validate() error {
	if r.Target.Path == "" {
		return fmt.Errorf("target path is required: %w", specerrors.ErrInvalidArgument)
	}
	if _, ok := constants.LookupAssistant(r.Assistant); !ok {
		return fmt.Errorf("unknown assistant %q: %w", r.Assistant, specerrors.ErrInvalidArgument)
	}
	if _, ok := constants.ScriptTypes[r.Script]; !ok {
		return fmt.Errorf("unknown script type %q: %w", r.Script, specerrors.ErrInvalidArgument)
	}
	return nil
}

// seed records the choices made before the pipeline started.
func seed(trk *tracker.Tracker, req Request, v *domain.Classification) {
	trk.Add(StepPrecheck, "Check required tools")
	trk.Complete(StepPrecheck, "ok")
	trk.Add(StepAISelect, "Select AI assistant")
	trk.Complete(StepAISelect, req.Assistant)
	trk.Add(StepScriptSelect, "Select script type")
	trk.Complete(StepScriptSelect, req.Script.String())
	trk.Add(StepClassification, "Project classification")
	trk.Complete(StepClassification, fmt.Sprintf("%s (%d/100)", v.ProjectType, v.ConfidenceScore))
}

// plan adds the remaining steps as pending so the whole run is visible up
// front. Flatten is only added when it happens.
func plan(trk *tracker.Tracker, local bool) {
	steps := [][2]string{
		{StepFetch, "Fetch latest release"},
		{StepDownload, "Download template"},
		{install.StepExtract, "Extract template"},
		{install.StepZipList, "Archive contents"},
		{install.StepSummary, "Extraction summary"},
		{StepChmod, "Ensure scripts executable"},
		{install.StepCleanup, "Cleanup"},
		{StepPersist, "Save classification"},
		{StepGit, "Initialize git repository"},
		{StepFinal, "Finalize"},
	}
	if local {
		steps = append([][2]string{{install.StepLocalCopy, "Copy local templates"}}, steps[5:]...)
		steps = removeStep(steps, install.StepCleanup)
	}
	for _, s := range steps {
		trk.Add(s[0], s[1])
	}
}

func removeStep(steps [][2]string, key string) [][2]string {
	out := steps[:0]
	for _, s := range steps {
		if s[0] != key {
			out = append(out, s)
		}
	}
	return out
}

func (p *Pipeline) acquire(ctx context.Context, req Request, trk *tracker.Tracker) (domain.TemplateAsset, error) {
	log := zerolog.Ctx(ctx)

	trk.Start(StepFetch, "contacting GitHub API")
	release, err := p.svc.Releases.GetLatestRelease(ctx, p.svc.Owner, p.svc.Repo)
	if err != nil {
		trk.Error(StepFetch, err.Error())
		return domain.TemplateAsset{}, &StepError{Step: StepFetch, Err: specerrors.Wrap(err, "fetch latest release")}
	}
	asset, err := source.SelectAsset(release, req.Assistant, req.Script.String())
	if err != nil {
		trk.Error(StepFetch, err.Error())
		return domain.TemplateAsset{}, &StepError{Step: StepFetch, Err: err}
	}
	trk.Complete(StepFetch, fmt.Sprintf("release %s (%s bytes)", asset.ReleaseTag, groupDigits(asset.SizeBytes)))
	log.Debug().
		Str("release", asset.ReleaseTag).
		Str("asset", asset.Filename).
		Int64("size_bytes", asset.SizeBytes).
		Msg("template asset selected")

	scratch, err := os.MkdirTemp(p.scratchDir, constants.AppName+"-download-*")
	if err != nil {
		err = specerrors.Wrap(specerrors.Tag(err, specerrors.ErrFilesystem), "create download directory")
		trk.Error(StepDownload, err.Error())
		return asset, &StepError{Step: StepDownload, Err: err}
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	archive := filepath.Join(scratch, filepath.Base(asset.Filename))
	trk.Start(StepDownload, asset.Filename)
	written, err := p.svc.Downloader.Download(ctx, asset.DownloadURL, archive, p.progress(trk, asset.Filename))
	if err != nil {
		trk.Error(StepDownload, err.Error())
		trk.Skip(install.StepCleanup, "no archive kept")
		return asset, &StepError{Step: StepDownload, Err: specerrors.Wrap(err, "download template")}
	}
	trk.Complete(StepDownload, asset.Filename)
	log.Debug().Int64("bytes", written).Msg("template downloaded")

	if err := p.svc.Installer.Install(ctx, archive, req.Target, trk); err != nil {
		return asset, &StepError{Step: install.StepExtract, Err: specerrors.Wrap(err, "install template")}
	}
	return asset, nil
}

// progress updates the download detail once per whole percent.
func (p *Pipeline) progress(trk *tracker.Tracker, filename string) source.ProgressFunc {
	last := int64(-1)
	return func(written, total int64) {
		pct := written * 100 / total
		if pct == last {
			return
		}
		last = pct
		trk.Start(StepDownload, p.detail(filename, written, total))
	}
}

func (p *Pipeline) copyLocal(ctx context.Context, req Request, trk *tracker.Tracker) error {
	root, err := source.Local{Path: req.LocalTemplates}.Resolve()
	if err != nil {
		trk.Error(install.StepLocalCopy, err.Error())
		return &StepError{Step: install.StepLocalCopy, Err: err}
	}
	if err := install.CopyTemplates(ctx, root, req.Target.Path, req.Assistant, trk); err != nil {
		return &StepError{Step: install.StepLocalCopy, Err: err}
	}
	return nil
}

func normalize(ctx context.Context, projectPath string, trk *tracker.Tracker) perms.Result {
	trk.Start(StepChmod, "")
	res := perms.Normalize(projectPath)
	if len(res.Failures) == 0 {
		trk.Complete(StepChmod, res.Detail())
		return res
	}
	trk.Error(StepChmod, res.Detail())
	log := zerolog.Ctx(ctx)
	for _, f := range res.Failures {
		log.Warn().Err(specerrors.Degraded(f.Err, "set script permissions")).Str("script", f.Path).Msg("script left without execute bit")
	}
	return res
}

func (p *Pipeline) persist(ctx context.Context, projectPath string, v *domain.Classification, trk *tracker.Tracker) string {
	trk.Start(StepPersist, "")
	if err := p.svc.Store.Save(ctx, projectPath, v); err != nil {
		trk.Error(StepPersist, err.Error())
		zerolog.Ctx(ctx).Warn().Err(err).Msg("classification not persisted")
		return fmt.Sprintf("failed to persist classification (%v)", err)
	}
	rel, err := filepath.Rel(projectPath, state.Path(projectPath))
	if err != nil {
		rel = state.Path(projectPath)
	}
	trk.Complete(StepPersist, filepath.ToSlash(rel))
	return ""
}

func (p *Pipeline) initGit(ctx context.Context, req Request, trk *tracker.Tracker) string {
	if req.NoGit {
		trk.Skip(StepGit, "--no-git flag")
		return ""
	}
	if !p.svc.Git.Available() {
		trk.Skip(StepGit, "git not available")
		return ""
	}
	trk.Start(StepGit, "")
	if p.svc.Git.IsRepo(ctx, req.Target.Path) {
		trk.Complete(StepGit, "existing repo detected")
		return ""
	}
	if err := p.svc.Git.InitRepo(ctx, req.Target.Path); err != nil {
		trk.Error(StepGit, "init failed")
		zerolog.Ctx(ctx).Warn().Err(err).Msg("git repository not initialized")
		return fmt.Sprintf("git init failed (%v)", err)
	}
	trk.Complete(StepGit, "initialized")
	return ""
}

// rollback removes a target this run created. Removal errors are logged.
func rollback(ctx context.Context, path string) {
	if !pathExists(path) {
		return
	}
	if err := os.RemoveAll(path); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("target", path).Msg("partial project left behind")
		return
	}
	zerolog.Ctx(ctx).Debug().Str("target", path).Msg("partial project removed")
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

func plainDetail(filename string, written, total int64) string {
	return fmt.Sprintf("%s %s/%s bytes", filename, groupDigits(written), groupDigits(total))
}

//nolint:gochecknoglobals // Shared digit-grouping printer
var digits = message.NewPrinter(language.English)

// groupDigits renders n with thousands separators.
func groupDigits(n int64) string {
	return digits.Sprintf("%d", n)
}
