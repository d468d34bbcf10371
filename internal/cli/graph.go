package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"casefile/pkg/graph"
)

// NewGraphCommand creates the `graph` command: project the dependency graph
// from the current document and print it.
func NewGraphCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Project the node/edge dependency graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			g := graph.Project(app.Store.Snapshot())
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), g)
			}

			out := cmd.OutOrStdout()
			for _, n := range g.Nodes {
				fmt.Fprintf(out, "node\t%s\t%s\n", n.ID, n.Label)
			}
			for _, e := range g.Edges {
				fmt.Fprintf(out, "edge\t%s -%s-> %s\n", e.From, e.Relation, e.To)
			}
			return nil
		},
	}
	return cmd
}
