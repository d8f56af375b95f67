package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/wardroom/internal/models"
	"github.com/zulandar/wardroom/internal/requests"
)

func newRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Service request commands",
	}

	cmd.AddCommand(newRequestTypesCmd())
	cmd.AddCommand(newRequestSubmitCmd())
	cmd.AddCommand(newRequestStatusCmd())
	cmd.AddCommand(newRequestAssignCmd())
	cmd.AddCommand(newRequestListCmd())
	return cmd
}

func newRequestTypesCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List request types",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tESTIMATE\tAPPROVAL")
			for _, t := range a.Requests.Types() {
				approval := "no"
				if t.RequiresApproval {
					approval = "yes"
				}
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\n", t.ID, t.Icon, t.Name, t.Category, t.EstimatedTime, approval)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	return cmd
}

func newRequestSubmitCmd() *cobra.Command {
	var (
		configPath  string
		description string
		priority    string
		location    string
		wait        bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "submit <type-id>",
		Short: "File a service request",
		Long:  "Files a request. Urgent requests start approved; with --wait, stays running while review and assignment complete.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.Requests.Submit(requests.SubmitOpts{
				TypeID:      args[0],
				Description: description,
				Priority:    models.Priority(priority),
				Location:    location,
			})
			if err != nil {
				return describeValidation(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Submitted request %d (%s): %s\n", r.ID, r.TypeName, r.Status)

			if !wait {
				return nil
			}
			if err := settle(a, timeout); err != nil {
				return err
			}
			r, _ = a.Requests.Request(r.ID)
			fmt.Fprintf(out, "Request %d is now %s (ETA %s)\n", r.ID, r.Status, formatETA(r.EstimatedCompletion))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	cmd.Flags().StringVarP(&description, "description", "d", "", "what is needed (required)")
	cmd.Flags().StringVar(&priority, "priority", "medium", "priority (low, medium, high, urgent)")
	cmd.Flags().StringVar(&location, "location", "", "where the request applies")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for scheduled status changes")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "how long --wait may block")
	return cmd
}

func newRequestStatusCmd() *cobra.Command {
	var (
		configPath string
		notes      string
	)

	cmd := &cobra.Command{
		Use:   "status <request-id> <status>",
		Short: "Update a request's status",
		Long:  "Moves a request forward (approved, in_progress, completed) or cancels it. Non-empty --notes replace the request notes.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "request")
			if err != nil {
				return err
			}
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Requests.UpdateStatus(id, models.RequestStatus(args[1]), notes); err != nil {
				return describeValidation(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Request %d is now %s\n", id, args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	cmd.Flags().StringVar(&notes, "notes", "", "notes to record with the change")
	return cmd
}

func newRequestAssignCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "assign <request-id> <assignee>",
		Short: "Record who is handling a request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "request")
			if err != nil {
				return err
			}
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Requests.Assign(id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned request %d to %s\n", id, args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	return cmd
}

func newRequestListCmd() *cobra.Command {
	var (
		configPath string
		completed  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active requests",
		Long:  "Lists active requests, most recent first. --completed lists completed and cancelled requests instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			list := a.Requests.Active()
			if completed {
				list = a.Requests.Completed()
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No requests")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tPRIORITY\tSTATUS\tLOCATION\tASSIGNED\tETA\tDESCRIPTION")
			for _, r := range list {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.TypeName, r.Priority, r.Status, orDash(r.Location), orDash(r.AssignedTo),
					formatETA(r.EstimatedCompletion), truncate(r.Description, 40))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	cmd.Flags().BoolVar(&completed, "completed", false, "list completed and cancelled requests")
	return cmd
}
