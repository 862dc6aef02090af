package cmd

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-datx/datx"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		at   string
		full bool
	)
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the decoded tree as YAML",
		Long: `Print the decoded tree, or the subtree at --path, as YAML. Bulk arrays
are summarised by element type and shape unless --full is set.

Examples:
  datx dump scan.datx
  datx dump scan.datx --path "/Measurement/Surface/attributes"`,
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
			return writeYAML(cmd.OutOrStdout(), n, full)
		},
	}
	cmd.Flags().StringVarP(&at, "path", "p", "/", "Subtree to print")
	cmd.Flags().BoolVar(&full, "full", false, "Print array contents")
	return cmd
}

func writeYAML(w io.Writer, n datx.Node, full bool) error {
	b, err := yaml.Marshal(toYAML(n, full))
	if err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// toYAML converts a node to values the YAML encoder understands, keeping
// group keys sorted.
func toYAML(n datx.Node, full bool) any {
	switch v := n.(type) {
	case datx.Group:
		m := make(yaml.MapSlice, 0, len(v))
		for _, k := range v.Keys() {
			m = append(m, yaml.MapItem{Key: k, Value: toYAML(v[k], full)})
		}
		return m
	case *datx.Dataset:
		m := yaml.MapSlice{{Key: datx.AttributesKey, Value: toYAML(v.Attributes, full)}}
		if v.HasValues() {
			m = append(m, yaml.MapItem{Key: datx.ValuesKey, Value: toYAML(v.Values, full)})
		}
		return m
	case datx.Sequence:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = toYAML(e, full)
		}
		return out
	case datx.Array:
		if !full {
			return fmt.Sprintf("<%s %s>", v.Dtype(), datx.FormatShape(v.Shape))
		}
		return yaml.MapSlice{
			{Key: "dtype", Value: v.Dtype()},
			{Key: "shape", Value: v.Shape},
			{Key: "data", Value: v.Data},
		}
	case datx.Int:
		return int64(v)
	case datx.Uint:
		return uint64(v)
	case datx.Float:
		return float64(v)
	case datx.Bool:
		return bool(v)
	case datx.String:
		return string(v)
	}
	return fmt.Sprintf("%v", n)
}
