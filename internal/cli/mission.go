package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"casefile/pkg/casefile"
)

// NewMissionCommand creates the `mission` command group.
func NewMissionCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Mission operations",
	}
	cmd.AddCommand(newMissionStepCommand(opts))
	return cmd
}

func newMissionStepCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step <missionID> <stepIndex> <pending|complete>",
		Short: "Set a mission step's status (mission completes when all steps do)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			missionID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid mission id %q", args[0])
			}
			stepIndex, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid step index %q", args[1])
			}

			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			mission, err := app.Store.UpdateMissionStep(cmd.Context(), missionID, stepIndex, casefile.StepStatus(args[2]))
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), opts.Format, mission,
				fmt.Sprintf("mission %d step %d is %s; mission is %s", missionID, stepIndex, args[2], mission.Status))
		},
	}
	return cmd
}
