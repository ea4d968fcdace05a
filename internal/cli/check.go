package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/specify/internal/config"
	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/tracker"
	"github.com/mrz1836/specify/internal/tui"
)

// checkTitle heads the check tracker.
const checkTitle = "Check Available Tools"

func newCheckCmd(gflags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that all required tools are installed",
		Long: `Check that git and the supported AI assistant CLIs and editors are
installed. Nothing is required: missing tools only produce tips.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), cmd.OutOrStdout(), gflags, config.NewToolDetector())
		},
	}
}

// AddCheckCommand adds the check command to the root command.
func AddCheckCommand(root *cobra.Command, gflags *GlobalFlags) {
	root.AddCommand(newCheckCmd(gflags))
}

func runCheck(ctx context.Context, w io.Writer, gflags *GlobalFlags, detector config.ToolDetector) error {
	out := tui.NewOutput(w, gflags.Output)
	out.Print(tui.Banner())
	out.Info("Checking for installed tools...")

	result, err := detector.Detect(ctx)
	if err != nil {
		return err
	}

	if gflags.Output == constants.OutputJSON {
		return out.JSON(result)
	}

	trk := tracker.New(checkTitle)
	for _, tool := range result.Tools {
		trk.Add(tool.Name, tool.Label)
		if tool.Found() {
			trk.Complete(tool.Name, "available")
		} else {
			trk.Error(tool.Name, "not found")
		}
	}
	out.Print(trk.Render())

	out.Success("Specify CLI is ready to use!")
	if !result.GitFound {
		out.Info("Tip: Install git for repository management")
	}
	if !result.AnyAssistantFound {
		out.Info("Tip: Install an AI assistant for the best experience")
	}
	return nil
}
