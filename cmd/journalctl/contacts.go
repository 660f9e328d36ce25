package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func contactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Import or export a user's contacts as CSV",
	}
	cmd.AddCommand(contactsImportCmd())
	cmd.AddCommand(contactsExportCmd())
	return cmd
}

func contactsImportCmd() *cobra.Command {
	var userID, file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import contacts from a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			res, err := rt.c.ContactIO.Import(cmd.Context(), userID, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d, skipped %d\n", res.Imported, res.Skipped)
			for _, re := range res.Rows {
				fmt.Fprintf(out, "  row %d: %s\n", re.Row, re.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "owner user id")
	cmd.Flags().StringVar(&file, "file", "", "CSV file to read")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func contactsExportCmd() *cobra.Command {
	var userID, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export contacts to CSV (stdout unless --out is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			n, err := rt.c.ContactIO.Export(cmd.Context(), userID, w)
			if err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d contact(s) to %s\n", n, out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "owner user id")
	cmd.Flags().StringVar(&out, "out", "", "output file")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
