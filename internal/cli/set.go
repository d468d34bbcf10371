package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSetCommand creates the `set` command group for the document's scalar
// settings.
func NewSetCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set a document scalar",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "theme <name>",
		Short: "Set the active theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Store.SetTheme(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "theme set to %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "api-key <key>",
		Short: "Set the enrichment credential (empty string disables enrichment)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Store.SetAPIKey(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "api key updated")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "template <operation> <template>",
		Short: "Override the prompt template for an enrichment operation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Store.SetPromptTemplate(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "template for %s updated\n", args[0])
			return nil
		},
	})

	return cmd
}
