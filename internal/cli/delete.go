package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"casefile/pkg/casefile"
)

// NewDeleteCommand creates the `delete` command. Deleting a record other
// records still reference is allowed; dangling references are filtered out
// at read time.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete a record by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}

			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			removed, err := deleteFromCollection(cmd.Context(), app.Store, args[0], id)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "no record %d in %s\n", id, args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %d\n", args[0], id)
			return nil
		},
	}
	return cmd
}

func deleteFromCollection(ctx context.Context, store *casefile.Store, key string, id int64) (bool, error) {
	switch key {
	case casefile.KeyEvidence:
		return casefile.DeleteByID(ctx, store, casefile.Evidences, id)
	case casefile.KeyActionItems:
		return casefile.DeleteByID(ctx, store, casefile.ActionItems, id)
	case casefile.KeyMissions:
		return casefile.DeleteByID(ctx, store, casefile.Missions, id)
	case casefile.KeyGoals:
		return casefile.DeleteByID(ctx, store, casefile.Goals, id)
	case casefile.KeyCharges:
		return casefile.DeleteByID(ctx, store, casefile.Charges, id)
	default:
		return false, fmt.Errorf("unknown collection %q", key)
	}
}
