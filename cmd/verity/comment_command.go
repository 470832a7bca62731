package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"verity/internal/config"
	"verity/internal/store"
)

func newCommentCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Manage admin comments on fact-check records",
	}
	cmd.AddCommand(newCommentAddCommand(ctx))
	cmd.AddCommand(newCommentListCommand(ctx))
	return cmd
}

func newCommentAddCommand(ctx *commandContext) *cobra.Command {
	var authorFlag string

	cmd := &cobra.Command{
		Use:   "add <record-id> <text...>",
		Short: "Attach a comment to a record (admin only)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			body := strings.Join(args[1:], " ")
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				author, err := resolveUser(cmd, st, authorFlag)
				if err != nil {
					return err
				}
				comment, err := st.CreateComment(cmd.Context(), id, author.ID, body)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Comment #%d added to record #%d\n", comment.ID, comment.FactCheckID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&authorFlag, "author", "", "Email of the commenting admin")
	_ = cmd.MarkFlagRequired("author")
	return cmd
}

func newCommentListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <record-id>",
		Short: "List a record's comments, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				comments, err := st.ListCommentsForFactCheck(cmd.Context(), id)
				if err != nil {
					return err
				}
				if len(comments) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No comments.")
					return nil
				}
				for _, comment := range comments {
					fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", formatTime(comment.CreatedAt), comment.AuthorEmail, comment.Body)
				}
				return nil
			})
		},
	}
}
