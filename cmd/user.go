package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var userNickname string

var userCMD = &cobra.Command{
	Use:   "user",
	Short: "Manage journal owners",
}

var userAddCMD = &cobra.Command{
	Use:   "add [user-id]",
	Short: "Register a user so trade logs can be written for it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer shutdown(context.Background())

		nickname := userNickname
		if nickname == "" {
			nickname = args[0]
		}
		if err := a.tradeLogs.CreateUser(ctx, args[0], nickname); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user %s ready\n", args[0])
		return nil
	},
}

func init() {
	userAddCMD.Flags().StringVarP(&userNickname, "nickname", "n", "", "display name (defaults to the id)")
	userCMD.AddCommand(userAddCMD)
}
