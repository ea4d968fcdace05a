package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/specify/internal/config"
	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/errors"
	"github.com/mrz1836/specify/internal/tui"
)

// ConfigShowFlags holds flags specific to the config show command.
type ConfigShowFlags struct {
	// Format specifies the output format (yaml or json).
	Format string
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect specify configuration",
	}
	cmd.AddCommand(newConfigShowCmd(&ConfigShowFlags{}))
	return cmd
}

// AddConfigCommand adds the config command tree to the root command.
func AddConfigCommand(root *cobra.Command) {
	root.AddCommand(newConfigCmd())
}

func newConfigShowCmd(flags *ConfigShowFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective configuration with source annotations.

Each value notes where it came from:
  - default: Built-in default value
  - global: From ~/.specify/config.yaml
  - env: From a SPECIFY_* environment variable

Examples:
  specify config show
  specify config show --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.Format, "format", "yaml", "display format (yaml or json)")
	return cmd
}

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value is a built-in default.
	SourceDefault ConfigSource = "default"
	// SourceGlobal indicates the value came from the global config file.
	SourceGlobal ConfigSource = "global"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
)

// ConfigValueWithSource represents a configuration value with its source.
type ConfigValueWithSource struct {
	Value  any          `json:"value" yaml:"value"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// configSection is one top-level block in key order.
type configSection struct {
	name string
	keys []string
}

//nolint:gochecknoglobals // Display order of config keys
var configSections = []configSection{
	{"github", []string{"owner", "repo", "api_base_url"}},
	{"network", []string{"list_timeout", "download_timeout", "skip_tls"}},
	{"defaults", []string{"assistant", "script"}},
}

// AnnotatedConfig maps "section" → "key" → value with source.
type AnnotatedConfig map[string]map[string]ConfigValueWithSource

type configShowStyles struct {
	header    lipgloss.Style
	section   lipgloss.Style
	key       lipgloss.Style
	sourceEnv lipgloss.Style
	sourceGbl lipgloss.Style
	sourceDef lipgloss.Style
	dim       lipgloss.Style
}

func newConfigShowStyles() *configShowStyles {
	return &configShowStyles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(tui.ColorPrimary).MarginBottom(1),
		section:   lipgloss.NewStyle().Bold(true),
		key:       lipgloss.NewStyle().Foreground(tui.ColorPrimary),
		sourceEnv: lipgloss.NewStyle().Foreground(tui.ColorError),
		sourceGbl: lipgloss.NewStyle().Foreground(tui.ColorSuccess),
		sourceDef: lipgloss.NewStyle().Foreground(tui.ColorMuted),
		dim:       tui.StyleDim,
	}
}

func runConfigShow(ctx context.Context, w io.Writer, flags *ConfigShowFlags) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	globalPath, pathErr := config.GlobalConfigPath()
	var fileValues map[string]any
	if pathErr == nil {
		fileValues = loadConfigFile(globalPath)
	}
	annotated := buildAnnotatedConfig(cfg, fileValues)

	switch strings.ToLower(flags.Format) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(annotated)
	case "yaml":
		writeAnnotatedYAML(w, annotated, globalPath)
		return nil
	default:
		return fmt.Errorf("%w: %s (use yaml or json)", errors.ErrInvalidOutputFormat, flags.Format)
	}
}

func buildAnnotatedConfig(cfg *config.Config, fileValues map[string]any) AnnotatedConfig {
	values := map[string]any{
		"github.owner":             cfg.GitHub.Owner,
		"github.repo":              cfg.GitHub.Repo,
		"github.api_base_url":      cfg.GitHub.APIBaseURL,
		"network.list_timeout":     cfg.Network.ListTimeout.String(),
		"network.download_timeout": cfg.Network.DownloadTimeout.String(),
		"network.skip_tls":         cfg.Network.SkipTLS,
		"defaults.assistant":       cfg.Defaults.Assistant,
		"defaults.script":          cfg.Defaults.Script,
	}

	annotated := make(AnnotatedConfig, len(configSections))
	for _, sec := range configSections {
		annotated[sec.name] = make(map[string]ConfigValueWithSource, len(sec.keys))
		for _, key := range sec.keys {
			full := sec.name + "." + key
			annotated[sec.name][key] = determineSource(full, values[full], fileValues)
		}
	}
	return annotated
}

// loadConfigFile flattens a YAML config file into dotted keys. Unreadable or
// malformed files yield nil; config.Load already reported them.
func loadConfigFile(path string) map[string]any {
	data, err := os.ReadFile(path) //#nosec G304 -- config file path
	if err != nil {
		return nil
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil
	}
	flat := make(map[string]any)
	flatten("", raw, flat)
	return flat
}

func flatten(prefix string, in, out map[string]any) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = v
	}
}

// determineSource determines where a configuration value came from.
func determineSource(key string, value any, fileValues map[string]any) ConfigValueWithSource {
	envKey := constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if os.Getenv(envKey) != "" {
		return ConfigValueWithSource{Value: value, Source: SourceEnv}
	}
	if _, ok := fileValues[key]; ok {
		return ConfigValueWithSource{Value: value, Source: SourceGlobal}
	}
	return ConfigValueWithSource{Value: value, Source: SourceDefault}
}

func writeAnnotatedYAML(w io.Writer, annotated AnnotatedConfig, globalPath string) {
	styles := newConfigShowStyles()

	_, _ = fmt.Fprintln(w, styles.header.Render("Effective specify configuration"))
	_, _ = fmt.Fprintln(w, styles.dim.Render("Sources: ")+
		styles.sourceEnv.Render("env")+" > "+
		styles.sourceGbl.Render("global")+" > "+
		styles.sourceDef.Render("default"))
	_, _ = fmt.Fprintln(w)

	for _, sec := range configSections {
		_, _ = fmt.Fprintln(w, styles.section.Render(sec.name+":"))
		for _, key := range sec.keys {
			vs := annotated[sec.name][key]
			_, _ = fmt.Fprintf(w, "  %s: %s  %s\n",
				styles.key.Render(key),
				formatConfigValue(vs.Value),
				sourceStyle(vs.Source, styles).Render("# "+string(vs.Source)))
		}
		_, _ = fmt.Fprintln(w)
	}

	if globalPath == "" {
		return
	}
	status := globalPath
	if _, err := os.Stat(globalPath); err != nil {
		status += " (not found)"
	}
	_, _ = fmt.Fprintln(w, styles.dim.Render("Configuration file: "+status))
}

func formatConfigValue(value any) string {
	switch v := value.(type) {
	case string:
		if v == "" {
			return "(not set)"
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func sourceStyle(src ConfigSource, styles *configShowStyles) lipgloss.Style {
	switch src {
	case SourceEnv:
		return styles.sourceEnv
	case SourceGlobal:
		return styles.sourceGbl
	case SourceDefault:
		return styles.sourceDef
	}
	return styles.dim
}
