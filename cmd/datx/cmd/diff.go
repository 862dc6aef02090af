package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-datx/datx"
)

func newDiffCmd(a *app) *cobra.Command {
	var (
		at      string
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "diff <file-a> <file-b>",
		Short: "Compare the decoded trees of two files",
		Long: `Compare the decoded trees of two files, or the subtrees at --path, line
by line in the same YAML layout as "datx dump". Arrays are compared by
element type and shape only. Removed lines start with "-", added lines
with "+". Nothing is printed when the trees match.

Example:
  datx diff before.datx after.datx --path /Measurement/Surface/attributes`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var docs [2]string
			for i, file := range args {
				root, err := a.read(file)
				if err != nil {
					return err
				}
				n, err := datx.Lookup(root, at)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				var buf bytes.Buffer
				if err := writeYAML(&buf, n, false); err != nil {
					return err
				}
				docs[i] = buf.String()
			}
			out := cmd.OutOrStdout()
			writeDiff(out, diffLines(docs[0], docs[1]), colorEnabled(out, noColor))
			return nil
		},
	}
	cmd.Flags().StringVarP(&at, "path", "p", "/", "Subtree to compare")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	return cmd
}

func diffLines(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(ca, cb, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

// writeDiff prints the changed lines with one line of context each side.
// It prints nothing when there are no changes.
func writeDiff(w io.Writer, diffs []diffmatchpatch.Diff, colored bool) {
	changed := false
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			changed = true
		}
	}
	if !changed {
		return
	}

	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	if colored {
		del.EnableColor()
		ins.EnableColor()
	} else {
		del.DisableColor()
		ins.DisableColor()
	}

	for i, d := range diffs {
		lines := strings.SplitAfter(d.Text, "\n")
		if lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range lines {
				del.Fprint(w, "- "+l)
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				ins.Fprint(w, "+ "+l)
			}
		case diffmatchpatch.DiffEqual:
			if len(lines) == 0 {
				continue
			}
			afterChange, beforeChange := i > 0, i < len(diffs)-1
			if afterChange {
				fmt.Fprint(w, "  "+lines[0])
			}
			if afterChange && beforeChange && len(lines) > 2 {
				fmt.Fprintln(w, "  ...")
			}
			if beforeChange && (!afterChange || len(lines) > 1) {
				fmt.Fprint(w, "  "+lines[len(lines)-1])
			}
		}
	}
}
