package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Chat room commands",
	}

	cmd.AddCommand(newRoomListCmd())
	cmd.AddCommand(newRoomOpenCmd())
	cmd.AddCommand(newRoomReadCmd())
	return cmd
}

func newRoomListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List chat rooms",
		Long:  "Lists every chat room with its unread count and latest message.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tUNREAD\tLAST MESSAGE")
			for _, r := range a.Messaging.Rooms() {
				last := "-"
				if r.LastMessage != nil {
					last = truncate(r.LastMessage.Text, 40)
				}
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%d\t%s\n",
					r.ID, r.Icon, r.Name, r.Category, r.UnreadCount, last)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	return cmd
}

func newRoomOpenCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "open <room-id>",
		Short: "Open a room and show its history",
		Long:  "Makes the room current, clears its unread count and prints its messages.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			room, ok := a.Messaging.Room(args[0])
			if !ok {
				return fmt.Errorf("room not found: %s", args[0])
			}
			a.Messaging.SelectRoom(room.ID)
			a.Messaging.MarkRead(room.ID)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s — %s\n", room.Icon, room.Name, room.Description)
			printMessages(out, a.Messaging.CurrentMessages())
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	return cmd
}

func newRoomReadCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "read <room-id>",
		Short: "Mark a room as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if _, ok := a.Messaging.Room(args[0]); !ok {
				return fmt.Errorf("room not found: %s", args[0])
			}
			a.Messaging.MarkRead(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %s as read\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	return cmd
}
