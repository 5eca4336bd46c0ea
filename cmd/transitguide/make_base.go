package main

import (
	"fmt"

	"github.com/passbi/transitguide/internal/catalogbuild"
	"github.com/passbi/transitguide/internal/config"
	"github.com/passbi/transitguide/internal/gtfsimport"
	"github.com/passbi/transitguide/internal/jsonapi"
	"github.com/passbi/transitguide/internal/persist"
	"github.com/passbi/transitguide/internal/routegraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// newMakeBaseCommand mirrors original_source/main.cpp's make_base branch:
// replay base_requests into a builder, compute the graph and its all-pairs
// cache, and serialize the result to a single file.
func newMakeBaseCommand(log *logrus.Entry) *cobra.Command {
	var gtfsDir string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "make_base",
		Short: "Build a catalog from a JSON command stream and serialize it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := jsonapi.Parse(cmd.InOrStdin())
			if err != nil {
				return err
			}

			b := catalogbuild.New(log)
			if err := jsonapi.Replay(b, doc.BaseCommands); err != nil {
				return err
			}
			if gtfsDir != "" {
				if err := gtfsimport.Load(b, gtfsDir, log); err != nil {
					return fmt.Errorf("gtfs import: %w", err)
				}
			}

			routing := doc.Routing
			if !doc.HasRouting {
				routing, err = config.Routing()
				if err != nil {
					return fmt.Errorf("routing settings: %w", err)
				}
			}
			render := doc.Render
			if !doc.HasRender {
				render = config.DefaultRender()
			}

			cat, err := b.Build(routing, render)
			if err != nil {
				return err
			}

			g, err := routegraph.Build(cat, log)
			if err != nil {
				return err
			}
			routegraph.BuildAllPairsCache(cat, g, log)

			path := outputPath(doc.SerializationFile, dbPath)
			if err := persist.Serialize(cat, path); err != nil {
				return fmt.Errorf("serialize catalog: %w", err)
			}

			log.WithFields(logrus.Fields{
				"stops": len(cat.StopOrder),
				"buses": len(cat.BusOrder),
				"file":  path,
			}).Info("transitguide: catalog built")
			return nil
		},
	}

	cmd.Flags().StringVar(&gtfsDir, "gtfs-dir", "", "optional GTFS feed directory to import alongside base_requests")
	cmd.Flags().StringVar(&dbPath, "db", "", "catalog file path, overriding serialization_settings.file")
	return cmd
}

func outputPath(fromDocument, fromFlag string) string {
	if fromFlag != "" {
		return fromFlag
	}
	if fromDocument != "" {
		return fromDocument
	}
	return "transitguide.db"
}
