package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"casefile/pkg/casefile"
)

// NewListCommand creates the `list` command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "List the records of a collection",
		Long:  "Collections: evidence, actionItems, missions, goals, charges.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			return listCollection(cmd.OutOrStdout(), opts.Format, app.Store, args[0])
		},
	}
	return cmd
}

func listCollection(w io.Writer, format string, store *casefile.Store, key string) error {
	switch key {
	case casefile.KeyEvidence:
		recs := casefile.Get(store, casefile.Evidences)
		if format == "json" {
			return writeJSON(w, recs)
		}
		for _, r := range recs {
			fmt.Fprintf(w, "%d\t%s\t%s\ttags: %s\n", r.ID, r.Date, r.Description, joinTags(r.Tags))
		}
	case casefile.KeyActionItems:
		recs := casefile.Get(store, casefile.ActionItems)
		if format == "json" {
			return writeJSON(w, recs)
		}
		for _, r := range recs {
			done := " "
			if r.Done {
				done = "x"
			}
			fmt.Fprintf(w, "%d\t[%s]\t%s\t%s\n", r.ID, done, r.Date, r.Text)
		}
	case casefile.KeyMissions:
		recs := casefile.Get(store, casefile.Missions)
		if format == "json" {
			return writeJSON(w, recs)
		}
		for _, r := range recs {
			completed := 0
			for _, s := range r.Steps {
				if s.Status == casefile.StepComplete {
					completed++
				}
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%d/%d steps\n", r.ID, r.Status, r.Title, completed, len(r.Steps))
		}
	case casefile.KeyGoals:
		recs := casefile.Get(store, casefile.Goals)
		if format == "json" {
			return writeJSON(w, recs)
		}
		for _, r := range recs {
			fmt.Fprintf(w, "%d\t%s\t%d arguments\n", r.ID, r.Title, len(r.Arguments))
			for _, a := range r.Arguments {
				fmt.Fprintf(w, "\t%d\t[%s]\t%s\n", a.ID, a.Strength, a.Claim)
			}
		}
	case casefile.KeyCharges:
		recs := casefile.Get(store, casefile.Charges)
		if format == "json" {
			return writeJSON(w, recs)
		}
		for _, r := range recs {
			fmt.Fprintf(w, "%d\t%s\t%s\timpact %d\n", r.ID, r.Status, r.Title, r.ImpactScore)
		}
	default:
		return fmt.Errorf("unknown collection %q", key)
	}
	return nil
}
