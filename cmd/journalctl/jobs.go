package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

func remindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Birthday reminder digests",
	}

	var date string
	run := &cobra.Command{
		Use:   "run",
		Short: "Send today's reminder digests once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			today := domain.DateOf(time.Now())
			if date != "" {
				d, err := domain.ParseDate(date)
				if err != nil {
					return err
				}
				today = d
			}

			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			sum, err := rt.c.Reminders.Run(cmd.Context(), today)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked %d, sent %d, skipped %d, failed %d\n",
				sum.Checked, sum.Sent, sum.Skipped, sum.Failed)
			return nil
		},
	}
	run.Flags().StringVar(&date, "date", "", "run as if today were YYYY-MM-DD")
	cmd.AddCommand(run)
	return cmd
}

func backupCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload a user's journal and contacts to object storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if rt.c.Backup == nil {
				return errors.New("backup bucket is not configured")
			}
			res, err := rt.c.Backup.Backup(cmd.Context(), userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d session(s) -> %s\n", res.Sessions, res.SessionsKey)
			fmt.Fprintf(out, "%d contact(s) -> %s\n", res.Contacts, res.ContactsKey)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id to back up")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
