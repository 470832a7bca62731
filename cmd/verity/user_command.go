package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"verity/internal/config"
	"verity/internal/store"
)

func newUserCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserAddCommand(ctx))
	cmd.AddCommand(newUserListCommand(ctx))
	return cmd
}

func newUserAddCommand(ctx *commandContext) *cobra.Command {
	var emailFlag string
	var hashFlag string
	var roleFlag string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				user, err := st.CreateUser(cmd.Context(), emailFlag, hashFlag, store.Role(roleFlag))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User #%d created (%s, %s)\n", user.ID, user.Email, user.Role)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&emailFlag, "email", "", "Account email")
	cmd.Flags().StringVar(&hashFlag, "hash", "", "Password hash")
	cmd.Flags().StringVar(&roleFlag, "role", string(store.RoleUser), "Account role: user or admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("hash")
	return cmd
}

func newUserListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				users, err := st.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				if len(users) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No accounts.")
					return nil
				}
				rows := make([][]string, 0, len(users))
				for _, user := range users {
					lastLogin := "-"
					if user.LastLoginAt != nil {
						lastLogin = formatTime(*user.LastLoginAt)
					}
					rows = append(rows, []string{
						strconv.FormatInt(user.ID, 10),
						user.Email,
						string(user.Role),
						formatTime(user.CreatedAt),
						lastLogin,
					})
				}
				headers := []string{"ID", "Email", "Role", "Created", "Last login"}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				return nil
			})
		},
	}
}
