package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openledger/ledgerlens/internal/graph"
	"github.com/openledger/ledgerlens/internal/registry"
)

func registryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect registries and their linked-data layer",
	}

	cmd.AddCommand(
		registryListCmd(),
		registryGetCmd(),
		registryCanonicalCmd(),
		registryRelatedCmd(),
		registryTriplesCmd(),
		registryFindCmd(),
		registryCreateCmd(),
	)

	return cmd
}

func registryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loaded registries and entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			catalog, err := newCatalog(logger)
			if err != nil {
				return fmt.Errorf("registry list: %w", err)
			}
			snap := catalog.Snapshot()
			for _, t := range snap.Types() {
				reg, _ := snap.Get(t)
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s  %d entries\n", t, reg.Len())
			}
			return nil
		},
	}
}

func registryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <type> <entity-id>",
		Short: "Print one registry entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := lookupRegistry(args[0])
			if err != nil {
				return fmt.Errorf("registry get: %w", err)
			}
			rec, ok := reg.Get(args[1])
			if !ok {
				return fmt.Errorf("registry get: %w: %s", registry.ErrNotFound, args[1])
			}
			out, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return fmt.Errorf("registry get: marshaling JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func registryCanonicalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "canonical <type> <entity-id>",
		Short: "Follow the same_as chain to the canonical entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := lookupRegistry(args[0])
			if err != nil {
				return fmt.Errorf("registry canonical: %w", err)
			}
			result := graph.ResolveCanonical(reg, args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "%s  (hops=%d, path=%s)\n",
				result.FinalID, result.HopCount, strings.Join(result.Path, " -> "))
			if result.CycleDetected {
				fmt.Fprintln(cmd.OutOrStdout(), "warning: same_as cycle detected; treating last id as canonical")
			}
			if result.BoundExceeded {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: chain exceeded %d hops; truncated\n", graph.MaxHops)
			}
			return nil
		},
	}
}

func registryRelatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "related <type> <property> <value>",
		Short: "List entity ids whose attribute equals a value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := lookupRegistry(args[0])
			if err != nil {
				return fmt.Errorf("registry related: %w", err)
			}
			ids := graph.NewIndex(reg).Related(args[1], args[2])
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching entries.")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func registryTriplesCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "triples <type>",
		Short: "Export a registry as (subject, predicate, object) triples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := lookupRegistry(args[0])
			if err != nil {
				return fmt.Errorf("registry triples: %w", err)
			}
			triples := graph.ExportTriples(reg)

			if outputJSON {
				out, marshalErr := json.MarshalIndent(triples, "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("registry triples: marshaling JSON: %w", marshalErr)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			for _, t := range triples {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", t.Subject, t.Predicate, t.Object)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	return cmd
}

func registryFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <type> <property> <value>",
		Short: "Scan a registry for entries whose attribute equals a value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := lookupRegistry(args[0])
			if err != nil {
				return fmt.Errorf("registry find: %w", err)
			}
			entries := graph.FindByProperty(reg, args[1], args[2])
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s  %s\n", e.ID, e.Record.CanonicalName)
			}
			return nil
		},
	}
}

func registryCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <type> <text>",
		Short: "Insert-if-absent a record for unresolved text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			creator := registry.NewCreator(cfg.Engine.RegistriesDir, logger)
			id, created, err := creator.EnsureRecord(args[0], args[1])
			if err != nil {
				return fmt.Errorf("registry create: %w", err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "exists %s\n", id)
			}
			return nil
		},
	}
}

func lookupRegistry(entityType string) (*registry.Registry, error) {
	logger := newLogger()
	catalog, err := newCatalog(logger)
	if err != nil {
		return nil, err
	}
	reg, ok := catalog.Snapshot().Get(entityType)
	if !ok {
		return nil, fmt.Errorf("registry %q: %w", entityType, registry.ErrNotFound)
	}
	return reg, nil
}
