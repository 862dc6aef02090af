package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-datx/datx"
)

func newLsCmd(a *app) *cobra.Command {
	var (
		at    string
		attrs bool
	)
	cmd := &cobra.Command{
		Use:   "ls <file>",
		Short: "List the paths of a decoded file",
		Long: `List every path of the decoded tree with its kind. Paths can be passed
to "datx dump --path". Attribute groups are skipped unless --attrs is set.

Example:
  datx ls scan.datx --path /Measurement`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.read(args[0])
			if err != nil {
				return err
			}
			n, err := datx.Lookup(root, at)
			if err != nil {
				return err
			}
			g, ok := n.(datx.Group)
			if !ok {
				return fmt.Errorf("%s is not a group", datx.CleanPath(at))
			}

			out := cmd.OutOrStdout()
			prefix := strings.TrimSuffix(datx.CleanPath(at), "/")
			return datx.Walk(g, func(p string, n datx.Node) error {
				if !attrs && strings.HasSuffix(p, "/"+datx.AttributesKey) {
					return datx.SkipGroup
				}
				full := prefix + p
				if p == "/" {
					full = datx.CleanPath(at)
				}
				fmt.Fprintf(out, "%s\t%s\n", full, kind(n))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&at, "path", "p", "/", "Group to list")
	cmd.Flags().BoolVar(&attrs, "attrs", false, "Include attribute groups")
	return cmd
}

// kind describes a node in one short phrase.
func kind(n datx.Node) string {
	switch v := n.(type) {
	case datx.Group:
		return "group"
	case *datx.Dataset:
		if !v.HasValues() {
			return "dataset (empty)"
		}
		return "dataset " + kind(v.Values)
	case datx.Array:
		return fmt.Sprintf("%s %s", v.Dtype(), datx.FormatShape(v.Shape))
	case datx.Sequence:
		return fmt.Sprintf("sequence (%d,)", len(v))
	case datx.String:
		return "string"
	case datx.Int:
		return "int"
	case datx.Uint:
		return "uint"
	case datx.Float:
		return "float"
	case datx.Bool:
		return "bool"
	}
	return fmt.Sprintf("%T", n)
}
