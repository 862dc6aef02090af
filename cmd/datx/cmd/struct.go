package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-datx/datx"
)

func newStructCmd(a *app) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "struct <file>",
		Short: "Print the group and dataset layout of a file",
		Long: `Print the group and dataset layout of a file, one object per line,
indented by depth. Datasets show their shape and element type.

Example:
  datx struct scan.datx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			paint := newPainter(out, noColor)
			for line, err := range datx.Structure(args[0], a.options()...) {
				if err != nil {
					return err
				}
				fmt.Fprintln(out, paint(line))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	return cmd
}

// colorEnabled reports whether w is a terminal and colour was not disabled.
func colorEnabled(w io.Writer, disabled bool) bool {
	f, ok := w.(*os.File)
	return !disabled && ok && isatty.IsTerminal(f.Fd())
}

// newPainter colours the kind tag of structure lines when w is a terminal.
func newPainter(w io.Writer, disabled bool) func(string) string {
	if !colorEnabled(w, disabled) {
		return func(s string) string { return s }
	}
	group := color.New(color.FgBlue, color.Bold)
	dataset := color.New(color.FgGreen)
	group.EnableColor()
	dataset.EnableColor()

	return func(line string) string {
		body := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(body)]
		for tag, c := range map[string]*color.Color{"[Group]": group, "[Dataset]": dataset} {
			if rest, ok := strings.CutPrefix(body, tag); ok {
				return indent + c.Sprint(tag) + rest
			}
		}
		return line
	}
}
