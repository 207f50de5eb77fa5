package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newUsersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users with their idea counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := a.maintenance.Users(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No users found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tIDEAS")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", u.ID, u.DisplayName, u.Email, u.IdeaCount)
			}
			return w.Flush()
		},
	}
}

func newDuplicatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates",
		Short: "Report ideas and tasks that were stored more than once",
		Long: `Report duplicate ideas (same owner, title, description, status, rating
and type) and duplicate tasks (same idea, name, due date and status).
Nothing is deleted; the report pairs each duplicate with the oldest copy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.maintenance.Duplicates(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Total ideas: %d\n", report.Totals.Ideas)
			fmt.Fprintf(out, "Total tasks: %d\n\n", report.Totals.Tasks)

			if len(report.Ideas) == 0 {
				fmt.Fprintln(out, "No duplicate ideas.")
			} else {
				fmt.Fprintf(out, "Duplicate ideas (%d):\n", len(report.Ideas))
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ORIGINAL\tDUPLICATE\tUSER\tTITLE")
				for _, d := range report.Ideas {
					fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", d.OriginalID, d.DuplicateID, d.UserID, d.Title)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			fmt.Fprintln(out)

			if len(report.Tasks) == 0 {
				fmt.Fprintln(out, "No duplicate tasks.")
				return nil
			}
			fmt.Fprintf(out, "Duplicate tasks (%d):\n", len(report.Tasks))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ORIGINAL\tDUPLICATE\tIDEA\tNAME\tSTATUS")
			for _, d := range report.Tasks {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\n", d.OriginalID, d.DuplicateID, d.IdeaTitle, d.Name, d.Status)
			}
			return w.Flush()
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show idea and task totals and ideas per status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.maintenance.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Ideas: %d\n", stats.Totals.Ideas)
			fmt.Fprintf(out, "Tasks: %d\n", stats.Totals.Tasks)
			if len(stats.ByStatus) == 0 {
				return nil
			}

			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STATUS\tIDEAS")
			for _, s := range stats.ByStatus {
				fmt.Fprintf(w, "%s\t%d\n", s.Status, s.Count)
			}
			return w.Flush()
		},
	}
}

func newTransferCmd(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move every idea from one user to another",
		Long: `Move every idea (and, with it, every task) owned by the user with the
--from email to the user with the --to email. Useful when someone signed in
with a second Google account by mistake.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.maintenance.TransferIdeas(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transferred %d ideas from %s to %s\n", n, from, to)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "email of the current owner")
	cmd.Flags().StringVar(&to, "to", "", "email of the new owner")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
