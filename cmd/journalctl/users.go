package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/heartmarshall/gratitude-backend/pkg/ctxutil"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User administration",
	}
	cmd.AddCommand(usersDeleteCmd())
	return cmd
}

func usersDeleteCmd() *cobra.Command {
	var (
		userID string
		as     string
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a user with all of their sessions and contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				interactive := term.IsTerminal(int(os.Stdin.Fd()))
				ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), interactive,
					fmt.Sprintf("Delete user %s and all of their data?", userID))
				if err != nil {
					return err
				}
				if !ok {
					return errors.New("aborted")
				}
			}

			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			// Admin checks run against the acting user.
			ctx := ctxutil.WithUserID(cmd.Context(), as)
			if err := rt.c.Admin.DeleteUser(ctx, userID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %s deleted\n", userID)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id to delete")
	cmd.Flags().StringVar(&as, "as", "", "acting admin user id")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("as")
	return cmd
}
