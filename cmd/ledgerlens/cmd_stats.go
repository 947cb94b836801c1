package main

import (
	"expvar"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print engine counters for this process",
		RunE: func(cmd *cobra.Command, args []string) error {
			expvar.Do(func(kv expvar.KeyValue) {
				if strings.HasPrefix(kv.Key, "ledgerlens_") {
					fmt.Fprintf(cmd.OutOrStdout(), "%-48s %s\n", kv.Key, kv.Value.String())
				}
			})
			return nil
		},
	}
}
