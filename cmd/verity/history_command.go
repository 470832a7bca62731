package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"verity/internal/config"
	"verity/internal/services"
	"verity/internal/store"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var userFlag string
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List fact-check records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" && !allFlag {
				return fmt.Errorf("pass --user <email> or --all")
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				var records []*store.FactCheck
				var err error
				if allFlag {
					records, err = st.ListFactChecks(cmd.Context())
				} else {
					user, resolveErr := resolveUser(cmd, st, userFlag)
					if resolveErr != nil {
						return resolveErr
					}
					records, err = st.ListFactChecksForUser(cmd.Context(), user.ID)
				}
				if err != nil {
					return err
				}
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No fact-check records.")
					return nil
				}
				headers := []string{"ID", "Kind", "Source", "Verdict", "Sources", "Created"}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, factCheckRows(records), aligns))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "Show records for this user email")
	cmd.Flags().BoolVar(&allFlag, "all", false, "Show records for every user")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <record-id>",
		Short: "Show one fact-check record with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				record, err := st.GetFactCheckByID(cmd.Context(), id)
				if err != nil {
					return err
				}
				if record == nil {
					return services.Wrap(services.ErrNotFound, "cli", "show", fmt.Sprintf("record %d", id), nil)
				}
				comments, err := st.ListCommentsForFactCheck(cmd.Context(), id)
				if err != nil {
					return err
				}
				printFactCheck(cmd, record, comments)
				return nil
			})
		},
	}
}
