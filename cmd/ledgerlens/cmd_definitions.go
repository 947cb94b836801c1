package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func definitionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "definitions",
		Short: "Inspect and validate entity definitions",
	}

	cmd.AddCommand(
		definitionsValidateCmd(),
		definitionsListCmd(),
	)

	return cmd
}

func definitionsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Parse and validate the configured definitions document",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defs, err := newDefinitions(logger)
			if err != nil {
				return fmt.Errorf("definitions validate: %w", err)
			}
			snap := defs.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d definitions (%d enabled), version %s\n",
				len(snap.All()), len(snap.ListEnabled()), snap.Version())
			return nil
		},
	}
}

func definitionsListCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List enabled definitions in resolution order",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defs, err := newDefinitions(logger)
			if err != nil {
				return fmt.Errorf("definitions list: %w", err)
			}
			enabled := defs.Snapshot().ListEnabled()

			if outputJSON {
				out, marshalErr := json.MarshalIndent(enabled, "", "  ")
				if marshalErr != nil {
					return fmt.Errorf("definitions list: marshaling JSON: %w", marshalErr)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			for _, d := range enabled {
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %-20s  registry=%-12s  %s\n",
					d.Priority, d.ID, d.Registry, d.DisplayName)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "output as JSON")
	return cmd
}
