package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"casefile/pkg/casefile"
)

// NewAddCommand creates the `add` command group: one subcommand per record
// kind. Evidence and argument adds are optimistic; the record is printed as
// soon as it is durable, and enrichment resolves in the background (or
// synchronously with --wait).
func NewAddCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a record to a collection",
	}
	cmd.AddCommand(newAddEvidenceCommand(opts))
	cmd.AddCommand(newAddActionCommand(opts))
	cmd.AddCommand(newAddChargeCommand(opts))
	cmd.AddCommand(newAddGoalCommand(opts))
	cmd.AddCommand(newAddArgumentCommand(opts))
	cmd.AddCommand(newAddMissionCommand(opts))
	return cmd
}

func newAddEvidenceCommand(opts *RootOptions) *cobra.Command {
	var date string
	var tags []string
	var wait bool

	cmd := &cobra.Command{
		Use:   "evidence <description>",
		Short: "Add an evidence record (enriched in the background)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			rec, err := app.Pipeline.AddEvidence(cmd.Context(), date, args[0], tags)
			if err != nil {
				return err
			}
			if wait {
				app.Pipeline.Wait()
				if updated, ok := casefile.FindByID(app.Store, casefile.Evidences, rec.ID); ok {
					rec = updated
				}
			}
			return writeResult(cmd.OutOrStdout(), opts.Format, rec,
				fmt.Sprintf("added evidence %d", rec.ID))
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "evidence date (YYYY-MM-DD, default today)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for enrichment before printing")
	return cmd
}

func newAddActionCommand(opts *RootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "action <text>",
		Short: "Add an action item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			rec, err := app.Store.AddActionItem(cmd.Context(), date, args[0])
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), opts.Format, rec,
				fmt.Sprintf("added action item %d", rec.ID))
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "due date (YYYY-MM-DD, default today)")
	return cmd
}

func newAddChargeCommand(opts *RootOptions) *cobra.Command {
	var evidenceID int64
	var impact int

	cmd := &cobra.Command{
		Use:   "charge <title>",
		Short: "Add an accountability entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			rec, err := app.Store.AddCharge(cmd.Context(), args[0], evidenceID, impact)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), opts.Format, rec,
				fmt.Sprintf("added charge %d", rec.ID))
		},
	}

	cmd.Flags().Int64Var(&evidenceID, "evidence", 0, "linked evidence id")
	cmd.Flags().IntVar(&impact, "impact", 5, "impact score (1-10)")
	return cmd
}

func newAddGoalCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal <title>",
		Short: "Add a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			rec, err := app.Store.AddGoal(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), opts.Format, rec,
				fmt.Sprintf("added goal %d", rec.ID))
		},
	}
	return cmd
}

func newAddArgumentCommand(opts *RootOptions) *cobra.Command {
	var goalID int64
	var evidenceIDs []int64
	var wait bool

	cmd := &cobra.Command{
		Use:   "argument <claim>",
		Short: "Add an argument to a goal (strength assessed in the background)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if goalID == 0 {
				return fmt.Errorf("--goal is required")
			}
			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			arg, err := app.Pipeline.AssessArgument(cmd.Context(), goalID, args[0], evidenceIDs)
			if err != nil {
				return err
			}
			if wait {
				app.Pipeline.Wait()
			}
			return writeResult(cmd.OutOrStdout(), opts.Format, arg,
				fmt.Sprintf("added argument %d to goal %d", arg.ID, goalID))
		},
	}

	cmd.Flags().Int64Var(&goalID, "goal", 0, "goal id (required)")
	cmd.Flags().Int64SliceVar(&evidenceIDs, "evidence", nil, "supporting evidence id (repeatable)")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for strength assessment")
	return cmd
}

func newAddMissionCommand(opts *RootOptions) *cobra.Command {
	var campaignID int64
	var steps []string

	cmd := &cobra.Command{
		Use:   "mission <title>",
		Short: "Add a mission with pending steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			rec, err := app.Store.AddMission(cmd.Context(), args[0], campaignID, steps)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), opts.Format, rec,
				fmt.Sprintf("added mission %d with %d steps", rec.ID, len(rec.Steps)))
		},
	}

	cmd.Flags().Int64Var(&campaignID, "campaign", 0, "campaign id")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "step text (repeatable)")
	return cmd
}

// joinTags formats tags for text output.
func joinTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}
