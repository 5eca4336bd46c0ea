package main

import (
	"fmt"

	"github.com/passbi/transitguide/internal/jsonapi"
	"github.com/passbi/transitguide/internal/persist"
	"github.com/passbi/transitguide/internal/query"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newProcessRequestsCommand mirrors original_source/main.cpp's
// process_requests branch: deserialize the catalog and answer every
// stat_requests entry as a single JSON array written to stdout.
func newProcessRequestsCommand(log *logrus.Entry) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "process_requests",
		Short: "Answer queries against a previously built catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := jsonapi.Parse(cmd.InOrStdin())
			if err != nil {
				return err
			}

			path := outputPath(doc.SerializationFile, dbPath)
			cat, err := persist.Deserialize(path)
			if err != nil {
				return fmt.Errorf("deserialize catalog: %w", err)
			}

			svc := query.New(cat)
			out, err := jsonapi.Respond(svc, doc.StatRequests)
			if err != nil {
				return fmt.Errorf("build response: %w", err)
			}

			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "catalog file path, overriding serialization_settings.file")
	return cmd
}
