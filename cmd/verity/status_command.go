package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"verity/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check directories, credentials, and external binaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var rows [][]string
			failed := false
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				rows = append(rows, []string{result.Name, passFail(result.Passed), result.Detail})
				if !result.Passed {
					failed = true
				}
			}
			for _, status := range preflight.CheckSystemDeps(cfg) {
				detail := status.Detail
				if status.Available {
					detail = status.Description
				}
				rows = append(rows, []string{status.Name, passFail(status.Available), detail})
				if !status.Available && !status.Optional {
					failed = true
				}
			}

			headers := []string{"Check", "Status", "Detail"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))

			if failed {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}
}

func passFail(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}
