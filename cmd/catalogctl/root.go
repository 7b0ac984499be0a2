package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/storefront/internal/logger"
	"github.com/kailas-cloud/storefront/internal/repository/memstore"
	"github.com/kailas-cloud/storefront/internal/version"
)

// app is the state shared by every subcommand once the root pre-run has loaded it.
type app struct {
	in     io.Reader
	out    io.Writer
	logger *zap.Logger
	store  *memstore.Store

	seedPath string
	verbose  bool
	pageSize int
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Query the storefront catalog and dashboard tables",
		Version:       version.String(),
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	root.PersistentFlags().StringVar(&a.seedPath, "seed", "", "seed YAML file (default: embedded seed data)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging to stderr")
	root.PersistentFlags().IntVar(&a.pageSize, "page-size", 0, "items per page (default: 9 for products, 10 for tables)")

	root.AddCommand(
		newProductsCmd(a),
		newTableCmd(a),
		newSearchCmd(a),
		newLiveCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	logger, err := logpkg.NewCLILogger(a.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.logger = logger
	cmd.SetContext(logpkg.ContextWithLogger(cmd.Context(), logger))

	if a.seedPath == "" {
		a.store, err = memstore.Default()
	} else {
		a.store, err = memstore.LoadFile(a.seedPath)
	}
	if err != nil {
		return fmt.Errorf("load record store: %w", err)
	}
	logger.Debug("Record store loaded",
		zap.String("seed", a.seedPath),
		zap.Int("records", len(a.store.Records())),
	)
	return nil
}

// size returns the --page-size override or def.
func (a *app) size(def int) int {
	if a.pageSize > 0 {
		return a.pageSize
	}
	return def
}
