package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/wardroom/internal/models"
)

func newAnnounceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Announcement board commands",
	}

	cmd.AddCommand(newAnnounceListCmd())
	cmd.AddCommand(newAnnouncePublishCmd())
	cmd.AddCommand(newAnnounceDismissCmd())
	return cmd
}

func newAnnounceListCmd() *cobra.Command {
	var (
		configPath string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active announcements",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			list := a.Announcements.Active()
			if all {
				list = a.Announcements.All()
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No announcements")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tTITLE\tPOSTED\tBODY")
			for _, ann := range list {
				title := ann.Icon + " " + ann.Title
				if ann.Dismissed {
					title += " (dismissed)"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", ann.ID, ann.Kind, title, formatTime(ann.CreatedAt), truncate(ann.Body, 50))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	cmd.Flags().BoolVar(&all, "all", false, "include dismissed announcements")
	return cmd
}

func newAnnouncePublishCmd() *cobra.Command {
	var (
		configPath string
		body       string
		kind       string
		icon       string
	)

	cmd := &cobra.Command{
		Use:   "publish <title>",
		Short: "Publish an announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ann, err := a.Announcements.Publish(args[0], body, models.AnnouncementKind(kind), icon)
			if err != nil {
				return describeValidation(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Published announcement %d\n", ann.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	cmd.Flags().StringVar(&body, "body", "", "announcement text (required)")
	cmd.Flags().StringVar(&kind, "kind", "info", "info, warning, urgent or celebration")
	cmd.Flags().StringVar(&icon, "icon", "📢", "icon shown with the title")
	return cmd
}

func newAnnounceDismissCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "dismiss <announcement-id>",
		Short: "Dismiss an announcement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "announcement")
			if err != nil {
				return err
			}
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Announcements.Dismiss(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Dismissed announcement %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	return cmd
}
