// Command transitguide builds a transit catalog from a JSON command stream
// and answers stop/bus/route/map queries against it, mirroring
// original_source/main.cpp's two-mode contract: "make_base" ingests
// base_requests and writes a self-contained catalog file; "process_requests"
// reads that file back and answers stat_requests.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// exitArgError is original_source/main.cpp's usage() exit code, used here
// when the run mode is missing or unrecognized.
const exitArgError = 5

func main() {
	log := logrus.NewEntry(logrus.StandardLogger())

	root := newRootCommand(log)
	if err := root.Execute(); err != nil {
		if _, ok := err.(usageError); ok {
			os.Exit(exitArgError)
		}
		log.WithError(err).Error("transitguide: failed")
		os.Exit(1)
	}
}

// usageError marks an error that should exit with exitArgError rather than
// the generic failure code.
type usageError struct{ error }

func newRootCommand(log *logrus.Entry) *cobra.Command {
	root := &cobra.Command{
		Use:           "transitguide",
		Short:         "Static transport guide catalog builder and query engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Accept any args so an unknown mode reaches RunE (and exitArgError)
		// instead of cobra's own "unknown command" error.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cmd.PrintErrln("invalid argument: run mode")
			}
			cmd.PrintErrln("Usage: transitguide [make_base|process_requests]")
			return usageError{os.ErrInvalid}
		},
	}
	root.AddCommand(newMakeBaseCommand(log), newProcessRequestsCommand(log))
	return root
}
