package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cypherview/pkg/document"
	"github.com/matzehuels/cypherview/pkg/errors"
	"github.com/matzehuels/cypherview/pkg/group"
	"github.com/matzehuels/cypherview/pkg/pipeline"
)

// groupsCommand creates the groups command.
func (c *CLI) groupsCommand() *cobra.Command {
	var (
		property string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "groups [file]",
		Short: "List the vertex groups of a graph document",
		Long: `Groups counts the vertices of a graph document by the group property and
lists the groups largest first, in the order the concentrate command pairs them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if property == "" {
				property = c.cfg().Options.GroupProperty
			}
			if property == "" {
				property = pipeline.DefaultGroupProperty
			}
			if err := errors.ValidatePropertyName(property); err != nil {
				return err
			}

			doc, err := document.Import(args[0])
			if err != nil {
				return err
			}
			g, err := doc.ToGraph()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "build graph")
			}
			groups := group.Count(g, property)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(groups)
			}
			fmt.Println(renderGroupTable(property, groups))
			printDetail("%d groups, %d group pairs", len(groups), len(group.Pairs(len(groups))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&property, "group-property", "g", "", "vertex property defining groups (default \"timeGroup\")")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the group list as JSON")

	return cmd
}
