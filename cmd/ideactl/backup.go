package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/idea-board/internal/model"
)

func newExportCmd(a *app) *cobra.Command {
	var email, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's backup document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.maintenance.UserByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}
			doc, err := a.backups.Export(cmd.Context(), user.ID)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", outPath, err)
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("writing backup: %w", err)
			}
			if outPath != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d ideas for %s to %s\n", len(doc.Ideas), user.Email, outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the user to export")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var email, inPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace a user's ideas with a backup document",
		Long: `Replace all of a user's ideas and tasks with the contents of a backup
document, exactly like POST /api/restore. The document is validated in full
before anything is deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.maintenance.UserByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}

			f, err := os.Open(inPath)
			if err != nil {
				return fmt.Errorf("opening %s: %w", inPath, err)
			}
			defer f.Close()

			var doc model.Backup
			if err := json.NewDecoder(f).Decode(&doc); err != nil {
				return fmt.Errorf("reading %s: %w", inPath, err)
			}

			result, err := a.backups.Restore(cmd.Context(), user.ID, &doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d ideas, %d tasks restored for %s\n",
				result.Message, result.IdeasRestored, result.TasksRestored, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the user to import into")
	cmd.Flags().StringVar(&inPath, "in", "", "backup file to read")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
