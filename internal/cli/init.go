package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrz1836/specify/internal/bootstrap"
	"github.com/mrz1836/specify/internal/config"
	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/domain"
	"github.com/mrz1836/specify/internal/errors"
	"github.com/mrz1836/specify/internal/logging"
	"github.com/mrz1836/specify/internal/source"
	"github.com/mrz1836/specify/internal/tracker"
	"github.com/mrz1836/specify/internal/tui"
)

// debugBodyLimit caps the response body shown in the failure panel.
const debugBodyLimit = 400

// progressBarWidth is the width of the download bar in the tracker.
const progressBarWidth = 24

// InitFlags holds flags specific to the init command.
type InitFlags struct {
	AI                  string
	Script              string
	GitHubToken         string
	ProjectType         string
	LocalTemplates      string
	Here                bool
	Force               bool
	NoGit               bool
	IgnoreAgentTools    bool
	SkipTLS             bool
	Debug               bool
	ClassificationDebug bool
}

// initEnv holds the collaborators of runInit that tests replace.
type initEnv struct {
	tools       config.ToolDetector
	services    func(cfg *config.Config, token string) bootstrap.Services
	interactive func() bool
	selectFn    func(title string, options []tui.Option, defaultValue string) (string, error)
	confirmFn   func(message string, defaultYes bool) (bool, error)
	getwd       func() (string, error)
	live        bool
}

func defaultInitEnv(w io.Writer) initEnv {
	return initEnv{
		tools:       config.NewToolDetector(),
		services:    bootstrap.NewServices,
		interactive: tui.IsInteractive,
		selectFn:    tui.Select,
		confirmFn:   tui.Confirm,
		getwd:       os.Getwd,
		live:        isTerminal(w),
	}
}

// initSummary is the JSON document printed by init --output json.
type initSummary struct {
	ProjectPath    string                 `json:"project_path"`
	Assistant      string                 `json:"assistant"`
	Script         string                 `json:"script"`
	Classification *domain.Classification `json:"classification"`
	Asset          *domain.TemplateAsset  `json:"asset,omitempty"`
	Permissions    permissionSummary      `json:"permissions"`
	Warnings       []string               `json:"warnings"`
}

type permissionSummary struct {
	Updated int      `json:"updated"`
	Failed  []string `json:"failed,omitempty"`
}

func newInitCmd(flags *InitFlags, gflags *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [project-name]",
		Short: "Initialize a new Specify project from the latest template",
		Long: `Initialize a Specify project from the latest Spec Kit template release.

The target is classified first. Ongoing and brownfield projects need
confirmation (or --force) before any template file is written.

Steps:
  1. Check that required tools are installed (git is optional)
  2. Choose an AI assistant and script type
  3. Download the matching template from GitHub
  4. Extract it into the project directory (or merge with --here)
  5. Make helper scripts executable and record the classification
  6. Initialize a git repository unless --no-git is set`,
		Example: `  specify init my-project
  specify init my-project --ai claude --script sh
  specify init --here --ai copilot --force
  specify init my-project --local-templates ../spec-kit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			return runInit(cmd.Context(), w, args, flags, gflags, defaultInitEnv(w))
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.AI, "ai", "", "AI assistant to use ("+strings.Join(assistantNames(), ", ")+")")
	f.StringVar(&flags.Script, "script", "", "script type to use (sh or ps)")
	f.BoolVar(&flags.IgnoreAgentTools, "ignore-agent-tools", false, "skip checks for AI agent tools like Claude Code")
	f.BoolVar(&flags.NoGit, "no-git", false, "skip git repository initialization")
	f.BoolVar(&flags.Here, "here", false, "initialize the project in the current directory")
	f.BoolVar(&flags.Force, "force", false, "skip confirmation for ongoing and brownfield projects")
	f.BoolVar(&flags.SkipTLS, "skip-tls", false, "skip SSL/TLS verification (not recommended)")
	f.BoolVar(&flags.Debug, "debug", false, "show verbose diagnostics for network and extraction failures")
	f.StringVar(&flags.GitHubToken, "github-token", "", "GitHub token for API requests (or set GH_TOKEN or GITHUB_TOKEN)")
	f.StringVar(&flags.ProjectType, "project-type", string(constants.ProjectTypeAuto), "force project type (auto, greenfield, ongoing, brownfield)")
	f.BoolVar(&flags.ClassificationDebug, "classification-debug", false, "print the full classification verdict")
	f.StringVar(&flags.LocalTemplates, "local-templates", "", "copy templates from a local spec-kit checkout instead of downloading")

	return cmd
}

// AddInitCommand adds the init command to the root command.
func AddInitCommand(root *cobra.Command, gflags *GlobalFlags) {
	root.AddCommand(newInitCmd(&InitFlags{}, gflags))
}

//nolint:gocognit,gocyclo // Linear interactive flow; each stage is a short guard
func runInit(ctx context.Context, w io.Writer, args []string, flags *InitFlags, gflags *GlobalFlags, env initEnv) error {
	out := tui.NewOutput(w, gflags.Output)
	jsonMode := gflags.Output == constants.OutputJSON
	out.Print(tui.Banner())

	target, name, err := resolveTarget(args, flags.Here, env.getwd)
	if err != nil {
		return err
	}
	if !target.IsCurrentDir {
		if _, statErr := os.Stat(target.Path); statErr == nil {
			panel := tui.Panel("Directory Conflict",
				fmt.Sprintf("Directory '%s' already exists\nPlease choose a different project name or remove the existing directory.", name),
				tui.ColorError, 0)
			return reportWithPanel(out, jsonMode, panel, fmt.Errorf("%s: %w", name, errors.ErrDirectoryExists))
		}
	}

	cfg, err := config.LoadWithOverrides(ctx, &config.Config{Network: config.NetworkConfig{SkipTLS: flags.SkipTLS}})
	if err != nil {
		return err
	}
	svc := env.services(cfg, source.ResolveToken(flags.GitHubToken))

	verdict, err := svc.Classifier.Classify(ctx, target.Path, flags.ProjectType)
	if err != nil {
		return err
	}

	out.Print(setupPanel(name, target, verdict))
	if flags.ClassificationDebug {
		out.Print(tui.ClassificationPanel(verdict))
		if raw, marshalErr := json.MarshalIndent(verdict, "", "  "); marshalErr == nil {
			out.Print(tui.Panel("Classification Debug", string(raw), tui.ColorDebug, 0))
		}
	}

	if target.IsCurrentDir && verdict.ExistingFilesCount > 0 {
		out.Warning(fmt.Sprintf("Warning: Current directory is not empty (%d items)", verdict.ExistingFilesCount))
		out.Warning("Template files will be merged with existing content and may overwrite existing files")
	}

	if verdict.RequiresConfirmation && !flags.Force {
		if !flags.ClassificationDebug {
			out.Print(tui.ClassificationPanel(verdict))
		}
		if !env.interactive() {
			return errors.Wrapf(errors.ErrNonInteractiveMode, "%s project needs confirmation", verdict.ProjectType)
		}
		ok, confirmErr := env.confirmFn(fmt.Sprintf("Proceed with %s project setup?", verdict.ProjectType), false)
		if confirmErr != nil {
			return confirmErr
		}
		if !ok {
			out.Warning("Operation cancelled")
			return nil
		}
	}

	if !flags.NoGit && !env.tools.DetectOne(ctx, "git").Found() {
		out.Warning("Git not found - will skip repository initialization")
	}

	assistant, err := chooseAssistant(flags.AI, cfg.Defaults.Assistant, env)
	if err != nil {
		return err
	}
	if !flags.IgnoreAgentTools && assistant.Tool != "" {
		if tool := env.tools.DetectOne(ctx, assistant.Tool); !tool.Found() {
			panel := tui.Panel("Agent Detection Error", agentMissingBody(assistant), tui.ColorError, 0)
			return reportWithPanel(out, jsonMode, panel, fmt.Errorf("%s: %w", assistant.Tool, errors.ErrAgentToolMissing))
		}
	}

	script, err := chooseScript(flags.Script, cfg.Defaults.Script, env)
	if err != nil {
		return err
	}

	out.Info("Selected AI assistant: " + assistant.Name.String())
	out.Info("Selected script type: " + script.String())

	log := zerolog.Ctx(ctx).With().Str("run_id", uuid.NewString()).Logger()
	ctx = log.WithContext(ctx)

	trk := tracker.New(bootstrap.Title)
	var live *tui.LiveTree
	if env.live && !jsonMode {
		live = tui.StartLiveTree(w, trk.Render())
		trk.AttachRefresh(func() error {
			live.Update(trk.Render())
			return nil
		})
	}

	pb := tui.NewProgressBar(progressBarWidth)
	pipeline := bootstrap.New(svc, bootstrap.WithDownloadDetail(func(filename string, written, total int64) string {
		return tui.DownloadDetail(pb, filename, written, total)
	}))
	res, runErr := pipeline.Run(ctx, bootstrap.Request{
		Target:         target,
		Assistant:      assistant.Name.String(),
		Script:         script,
		Override:       flags.ProjectType,
		Classification: verdict,
		LocalTemplates: flags.LocalTemplates,
		NoGit:          flags.NoGit,
	}, trk)

	if live != nil {
		_ = live.Stop()
	}
	out.Print(trk.Render())

	if runErr != nil {
		return reportInitFailure(out, jsonMode, flags.Debug, trk, runErr)
	}

	if jsonMode {
		return out.JSON(buildSummary(target, assistant, script, res))
	}

	out.Success("Project ready.")
	for _, warning := range res.Warnings {
		out.Warning("Warning: " + warning)
	}
	out.Print(tui.SecurityNoticePanel(assistant.Folder))
	steps := nextStepsMarkdown(name, target, assistant, res.Classification, runtime.GOOS)
	out.Print(tui.Panel("Next Steps", tui.RenderMarkdown(steps), tui.ColorPrimary, 0))
	if assistant.Name == constants.AssistantCodex {
		out.Print(tui.Panel("Slash Commands in Codex", codexNotice, tui.ColorWarning, 0))
	}
	return nil
}

// resolveTarget turns the positional name and --here into an install target.
// "." is treated as --here.
func resolveTarget(args []string, here bool, getwd func() (string, error)) (domain.InstallTarget, string, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	if name == "." {
		name, here = "", true
	}

	switch {
	case here && name != "":
		return domain.InstallTarget{}, "", errors.NewExitCode2Error(
			fmt.Errorf("%w: cannot specify both project name and --here", errors.ErrConflictingFlags))
	case !here && name == "":
		return domain.InstallTarget{}, "", errors.NewExitCode2Error(
			fmt.Errorf("%w: must specify either a project name or use --here", errors.ErrConflictingFlags))
	}

	if here {
		cwd, err := getwd()
		if err != nil {
			return domain.InstallTarget{}, "", errors.Wrap(err, "resolve current directory")
		}
		return domain.InstallTarget{Path: cwd, IsCurrentDir: true}, filepath.Base(cwd), nil
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return domain.InstallTarget{}, "", errors.Wrapf(err, "resolve project path %q", name)
	}
	return domain.InstallTarget{Path: abs}, name, nil
}

func chooseAssistant(explicit, configured string, env initEnv) (constants.AssistantInfo, error) {
	name := explicit
	if name == "" {
		name = configured
	}
	if name != "" {
		info, ok := constants.LookupAssistant(name)
		if !ok {
			return constants.AssistantInfo{}, errors.NewExitCode2Error(fmt.Errorf("%w: invalid AI assistant '%s'. Choose from: %s",
				errors.ErrInvalidArgument, name, strings.Join(assistantNames(), ", ")))
		}
		return info, nil
	}

	options := make([]tui.Option, len(constants.Assistants))
	for i, a := range constants.Assistants {
		options[i] = tui.Option{Label: a.Name.String(), Description: a.DisplayName, Value: a.Name.String()}
	}
	picked, err := env.selectFn("Choose your AI assistant", options, constants.AssistantCopilot.String())
	if err != nil {
		return constants.AssistantInfo{}, err
	}
	info, _ := constants.LookupAssistant(picked)
	return info, nil
}

func chooseScript(explicit, configured string, env initEnv) (constants.ScriptType, error) {
	name := explicit
	if name == "" {
		name = configured
	}
	if name != "" {
		st := constants.ScriptType(name)
		if _, ok := constants.ScriptTypes[st]; !ok {
			return "", errors.NewExitCode2Error(fmt.Errorf("%w: invalid script type '%s'. Choose from: %s",
				errors.ErrInvalidArgument, name, strings.Join(scriptNames(), ", ")))
		}
		return st, nil
	}

	def := config.DefaultScript()
	if !env.interactive() {
		return def, nil
	}
	names := scriptNames()
	options := make([]tui.Option, len(names))
	for i, n := range names {
		options[i] = tui.Option{Label: n, Description: constants.ScriptTypes[constants.ScriptType(n)], Value: n}
	}
	picked, err := env.selectFn("Choose script type (or press Enter)", options, def.String())
	if err != nil {
		return "", err
	}
	return constants.ScriptType(picked), nil
}

func assistantNames() []string {
	names := make([]string, len(constants.Assistants))
	for i, a := range constants.Assistants {
		names[i] = a.Name.String()
	}
	return names
}

func scriptNames() []string {
	names := make([]string, 0, len(constants.ScriptTypes))
	for st := range constants.ScriptTypes {
		names = append(names, st.String())
	}
	sort.Strings(names)
	return names
}

func agentMissingBody(a constants.AssistantInfo) string {
	return fmt.Sprintf("%s not found\nInstall with: %s\n%s is required to continue with this project type.\n\nTip: Use --ignore-agent-tools to skip this check",
		a.Tool, a.InstallURL, a.DisplayName)
}

func setupPanel(name string, target domain.InstallTarget, c *domain.Classification) string {
	cwd := target.Path
	if !target.IsCurrentDir {
		cwd = filepath.Dir(target.Path)
	}
	rows := [][2]string{
		{"Project", name},
		{"Working Path", cwd},
		{"Project Type", tui.ProjectTypeLabel(c.ProjectType)},
		{"Confidence", fmt.Sprintf("%d/100", c.ConfidenceScore)},
	}
	if !target.IsCurrentDir {
		rows = append(rows, [2]string{"Target Path", target.Path})
	}
	return tui.Panel("Specify Project Setup", tui.KeyValueLines(rows, "  "), tui.ColorPrimary, 0)
}

// reportWithPanel prints panel in text mode and marks err as shown. JSON mode
// leaves err for Execute to encode.
func reportWithPanel(out tui.Output, jsonMode bool, panel string, err error) error {
	if jsonMode {
		return err
	}
	out.Print(panel)
	return errors.Reported(err)
}

func reportInitFailure(out tui.Output, jsonMode, debug bool, trk *tracker.Tracker, err error) error {
	if jsonMode {
		return err
	}

	step := ""
	var stepErr *bootstrap.StepError
	if stderrors.As(err, &stepErr) {
		step = stepErr.Step
		if s, ok := trk.Step(stepErr.Step); ok {
			step = s.Label
		}
	}

	var extra []string
	var netErr *errors.NetworkError
	if debug && stderrors.As(err, &netErr) {
		if netErr.StatusCode != 0 {
			extra = append(extra, fmt.Sprintf("Status: %d", netErr.StatusCode))
		}
		if headers := logging.RedactHeaders(netErr.Header); len(headers) > 0 {
			extra = append(extra, "Headers:")
			extra = append(extra, headers...)
		}
		if netErr.Body != "" {
			extra = append(extra, "Body: "+errors.Truncate(netErr.Body, debugBodyLimit))
		}
	}

	out.Print(tui.FailurePanel(step, "Initialization failed: "+errors.UserMessage(err), extra))
	if debug {
		cwd, _ := os.Getwd()
		out.Print(tui.DebugEnvPanel([][2]string{
			{"Go", runtime.Version()},
			{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
			{"CWD", cwd},
		}))
	}
	return errors.Reported(err)
}

func buildSummary(target domain.InstallTarget, a constants.AssistantInfo, script constants.ScriptType, res *bootstrap.Result) initSummary {
	s := initSummary{
		ProjectPath:    target.Path,
		Assistant:      a.Name.String(),
		Script:         script.String(),
		Classification: res.Classification,
		Permissions:    permissionSummary{Updated: res.Permissions.Updated},
		Warnings:       res.Warnings,
	}
	if s.Warnings == nil {
		s.Warnings = []string{}
	}
	if res.Asset.Filename != "" {
		asset := res.Asset
		s.Asset = &asset
	}
	for _, f := range res.Permissions.Failures {
		s.Permissions.Failed = append(s.Permissions.Failed, f.String())
	}
	return s
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // Fd fits in int on supported platforms
}
