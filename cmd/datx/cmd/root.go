package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robert-malhotra/go-datx/datx"
	"github.com/robert-malhotra/go-datx/internal/logging"
)

// app is the state shared by all subcommands.
type app struct {
	log      *zap.Logger
	logLevel string

	// open overrides the container implementation. nil selects HDF5.
	open datx.Opener
}

func (a *app) options() []datx.Option {
	return []datx.Option{datx.WithLogger(a.log), datx.WithOpener(a.open)}
}

func (a *app) read(path string) (datx.Group, error) {
	return datx.Read(path, a.options()...)
}

func (a *app) setLevel(level string) error {
	l, err := logging.New(level)
	if err != nil {
		return err
	}
	a.log = l
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	if a.log == nil {
		a.log = zap.NewNop()
	}
	rootCmd := &cobra.Command{
		Use:   "datx",
		Short: "Inspect and process instrument measurement files",
		Long: `datx reads HDF5 measurement files such as Zygo .datx exports, prints
their structure and metadata, and exports height maps with missing values
masked or filled and the planar tilt removed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setLevel(a.logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newStructCmd(a),
		newLsCmd(a),
		newDumpCmd(a),
		newDiffCmd(a),
		newQuantitiesCmd(a),
		newProcessCmd(a),
	)
	return rootCmd
}

// Execute runs the datx command. This is called by main.main().
func Execute() {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.log.Sync()
	if err != nil {
		os.Exit(1)
	}
}
