package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robert-malhotra/go-datx/grid"
	"github.com/robert-malhotra/go-datx/internal/config"
	"github.com/robert-malhotra/go-datx/surface"
)

func newProcessCmd(a *app) *cobra.Command {
	var (
		profile  string
		quantity string
		op       string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "process <file>",
		Short: "Export a processed height map as text",
		Long: `Extract a measurement quantity, apply an operation and write the X, Y
and Z matrices as text, each followed by a blank line.

Operations:
  raw       mask no-data cells as nan
  fill      replace no-data cells with the nearest valid value
  baseline  fill, then subtract the best-fit plane

Flags override the values of a --config profile.

Examples:
  datx process scan.datx -q Surface --op baseline -o surface.txt
  datx process scan.datx --config profile.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if profile != "" {
				loaded, err := config.LoadConfig(profile)
				if err != nil {
					return err
				}
				cfg = loaded
				if !cmd.Flags().Changed("log-level") {
					if err := a.setLevel(cfg.Logging.Level); err != nil {
						return err
					}
				}
			}
			flags := cmd.Flags()
			if flags.Changed("quantity") {
				cfg.Quantity = quantity
			}
			if flags.Changed("op") {
				cfg.Op = op
			}
			if flags.Changed("output") {
				cfg.Output = output
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.process(cmd.OutOrStdout(), args[0], cfg)
		},
	}
	cmd.Flags().StringVar(&profile, "config", "", "Processing profile (YAML)")
	cmd.Flags().StringVarP(&quantity, "quantity", "q", "Surface", "Measurement quantity")
	cmd.Flags().StringVar(&op, "op", "raw", "Operation: raw, fill or baseline")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func (a *app) process(stdout io.Writer, path string, cfg *config.Config) (err error) {
	op, err := surface.ParseOp(cfg.Op)
	if err != nil {
		return err
	}
	root, err := a.read(path)
	if err != nil {
		return err
	}
	s, err := surface.Extract(root, cfg.Quantity)
	if err != nil {
		return err
	}
	res, err := s.Apply(op)
	if err != nil {
		return err
	}

	st := grid.Summarize(res.Z)
	_, labels := surface.Ticks(res.Z, res.Unit)
	fields := []zap.Field{
		zap.String("quantity", s.Name),
		zap.String("op", string(op)),
		zap.String("unit", res.Unit),
		zap.Int("valid", st.Valid),
		zap.Int("missing", st.Missing),
		zap.Float64("min", st.Min),
		zap.Float64("max", st.Max),
		zap.Float64("rms", st.RMS),
		zap.Strings("ticks", labels),
	}
	if res.Plane != nil {
		fields = append(fields, zap.Stringer("plane", res.Plane))
	}
	a.log.Info("processed surface", fields...)

	w, dest := stdout, "stdout"
	if cfg.Output != "" {
		f, cerr := os.Create(cfg.Output)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w, dest = f, cfg.Output
	}
	if err := grid.WriteText(w, res.X, res.Y, res.Z); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}
