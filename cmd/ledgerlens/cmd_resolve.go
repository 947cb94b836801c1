package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openledger/ledgerlens/internal/definitions"
	"github.com/openledger/ledgerlens/internal/models"
	"github.com/openledger/ledgerlens/internal/resolver"
)

func resolveCmd() *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "resolve [json]",
		Short: "Resolve a single record given as a JSON object",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			var data []byte
			switch {
			case len(args) == 1:
				data = []byte(args[0])
			case inputFile != "":
				var err error
				data, err = os.ReadFile(inputFile)
				if err != nil {
					return fmt.Errorf("resolve: reading input: %w", err)
				}
			default:
				var err error
				data, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("resolve: reading stdin: %w", err)
				}
			}

			var record models.Record
			if err := json.Unmarshal(data, &record); err != nil {
				return fmt.Errorf("resolve: parsing record: %w", err)
			}

			orch, stopWatch, err := newOrchestrator(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer stopWatch()

			enriched := orch.Resolve(record)
			out, err := json.MarshalIndent(enriched, "", "  ")
			if err != nil {
				return fmt.Errorf("resolve: marshaling result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read the record from a JSON file instead of stdin")
	return cmd
}

func batchCmd() *cobra.Command {
	var inputFile string
	var workers int

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resolve a JSONL stream of records, one enriched record per output line",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			in := cmd.InOrStdin()
			if inputFile != "" {
				f, err := os.Open(inputFile)
				if err != nil {
					return fmt.Errorf("batch: opening input: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			var records []models.Record
			scanner := bufio.NewScanner(in)
			scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
			for scanner.Scan() {
				line := scanner.Bytes()
				if len(line) == 0 {
					continue
				}
				var record models.Record
				if err := json.Unmarshal(line, &record); err != nil {
					return fmt.Errorf("batch: parsing record %d: %w", len(records)+1, err)
				}
				records = append(records, record)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("batch: reading input: %w", err)
			}

			orch, stopWatch, err := newOrchestrator(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer stopWatch()

			if workers <= 0 {
				workers = cfg.Engine.BatchWorkers
			}
			results, err := orch.ResolveBatch(cmd.Context(), records, workers)
			if err != nil {
				return fmt.Errorf("batch: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, r := range results {
				if err := enc.Encode(r); err != nil {
					return fmt.Errorf("batch: writing result: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read records from a JSONL file instead of stdin")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default from config)")
	return cmd
}

// newOrchestrator wires definitions, registries, and the resolver, and
// starts the hot-reload watcher when configured. The returned func stops
// the watcher.
func newOrchestrator(ctx context.Context, logger *slog.Logger) (*resolver.Orchestrator, func(), error) {
	defs, err := newDefinitions(logger)
	if err != nil {
		return nil, nil, fmt.Errorf("loading definitions: %w", err)
	}
	catalog, err := newCatalog(logger)
	if err != nil {
		return nil, nil, fmt.Errorf("loading registries: %w", err)
	}

	cleanup := func() {}
	if cfg.Engine.WatchDefinitions {
		w, werr := definitions.NewWatcher(defs, logger)
		if werr != nil {
			return nil, nil, fmt.Errorf("starting definitions watcher: %w", werr)
		}
		go w.Run(ctx)
		cleanup = func() { _ = w.Close() }
	}

	return resolver.New(defs, catalog, logger), cleanup, nil
}
