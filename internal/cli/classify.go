package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/specify/internal/classify"
	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/domain"
	"github.com/mrz1836/specify/internal/errors"
	"github.com/mrz1836/specify/internal/state"
	"github.com/mrz1836/specify/internal/tui"
)

// ClassifyFlags holds flags specific to the classify command.
type ClassifyFlags struct {
	// ProjectType forces a project type instead of the heuristic.
	ProjectType string
}

// classifyReport is the JSON document printed by classify --output json.
type classifyReport struct {
	*domain.Classification

	// Recorded is the sidecar written by an earlier init, if any.
	Recorded *state.Record `json:"recorded,omitempty"`
}

func newClassifyCmd(flags *ClassifyFlags, gflags *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [path]",
		Short: "Classify a directory as greenfield, ongoing or brownfield",
		Long: `Run the project classifier on a directory without installing anything.

The verdict lists the signals that decided the type, any warnings and
the migration recommendations shown by init. When the directory was
initialized before, the recorded verdict is shown too.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runClassify(cmd.Context(), cmd.OutOrStdout(), dir, flags, gflags, classify.New())
		},
	}

	cmd.Flags().StringVar(&flags.ProjectType, "project-type", string(constants.ProjectTypeAuto), "force project type (auto, greenfield, ongoing, brownfield)")
	return cmd
}

// AddClassifyCommand adds the classify command to the root command.
func AddClassifyCommand(root *cobra.Command, gflags *GlobalFlags) {
	root.AddCommand(newClassifyCmd(&ClassifyFlags{}, gflags))
}

func runClassify(ctx context.Context, w io.Writer, dir string, flags *ClassifyFlags, gflags *GlobalFlags, c *classify.Classifier) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.Wrapf(err, "resolve path %q", dir)
	}

	verdict, err := c.Classify(ctx, abs, flags.ProjectType)
	if err != nil {
		return err
	}

	recorded, err := state.NewFileStore(nil).Load(abs)
	if err != nil && !stderrors.Is(err, errors.ErrNotFound) {
		return err
	}

	out := tui.NewOutput(w, gflags.Output)
	if gflags.Output == constants.OutputJSON {
		return out.JSON(classifyReport{Classification: verdict, Recorded: recorded})
	}

	out.Print(tui.ClassificationPanel(verdict))
	if recorded != nil {
		out.Info(fmt.Sprintf("Recorded at init: %s (%d/100) on %s",
			tui.ProjectTypeLabel(recorded.ProjectType), recorded.ConfidenceScore,
			recorded.PersistedAt.Format(time.RFC3339)))
	}
	return nil
}
