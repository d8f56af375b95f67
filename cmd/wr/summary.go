package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSummaryCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the home-screen counters",
		Long:  "Shows unread messages, pending notes, active requests and announcements, plus any persistence problems.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			s := a.Summary()
			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Unread messages:\t%s\n", badge(s.UnreadMessages))
			fmt.Fprintf(w, "Pending notes:\t%s\n", badge(s.PendingNotes))
			fmt.Fprintf(w, "Submitted notes:\t%d\n", s.SubmittedNotes)
			fmt.Fprintf(w, "Active requests:\t%d\n", s.ActiveRequests)
			fmt.Fprintf(w, "Completed requests:\t%d\n", s.CompletedRequests)
			fmt.Fprintf(w, "Announcements:\t%d\n", s.ActiveAnnouncements)
			w.Flush()

			for slot, err := range a.PersistErrors() {
				fmt.Fprintf(out, "warning: %s: %v\n", slot, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	return cmd
}

// badge caps a counter the way the home screen does.
func badge(n int) string {
	if n > 9 {
		return "9+"
	}
	return fmt.Sprintf("%d", n)
}
