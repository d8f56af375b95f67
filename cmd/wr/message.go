package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/wardroom/internal/models"
)

func newMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Messaging commands",
	}

	cmd.AddCommand(newMessageSendCmd())
	cmd.AddCommand(newMessageListCmd())
	return cmd
}

func newMessageSendCmd() *cobra.Command {
	var (
		configPath string
		room       string
		reaction   string
		wait       bool
		timeout    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "send <text>",
		Short: "Send a message to a room",
		Long:  "Posts a message as the local user. With --wait, stays running until the counterpart reply arrives.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			msg, ok := a.Messaging.Post(room, args[0], true, reaction, models.LocalUser)
			if !ok {
				return fmt.Errorf("room not found: %s", room)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sent message %d to %s\n", msg.ID, room)

			if !wait {
				return nil
			}
			if err := settle(a, timeout); err != nil {
				return err
			}
			msgs := a.Messaging.Messages(room)
			if last := msgs[len(msgs)-1]; last.ID != msg.ID {
				printMessages(out, msgs[len(msgs)-1:])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	cmd.Flags().StringVar(&room, "room", "", "room ID (required)")
	cmd.Flags().StringVar(&reaction, "reaction", "", "reaction glyph to attach")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the counterpart reply")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long --wait may block")
	cmd.MarkFlagRequired("room")
	return cmd
}

func newMessageListCmd() *cobra.Command {
	var (
		configPath string
		room       string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages in a room",
		Long:  "Prints a room's history in posting order. Without --room, uses the currently open room.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			var msgs []models.Message
			if room == "" {
				cur, ok := a.Messaging.CurrentRoom()
				if !ok {
					fmt.Fprintln(out, "No room open; pass --room or run 'wr room open'")
					return nil
				}
				room = cur.ID
				msgs = a.Messaging.CurrentMessages()
			} else {
				if _, ok := a.Messaging.Room(room); !ok {
					return fmt.Errorf("room not found: %s", room)
				}
				msgs = a.Messaging.Messages(room)
			}

			if len(msgs) == 0 {
				fmt.Fprintf(out, "No messages in %s\n", room)
				return nil
			}
			printMessages(out, msgs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	cmd.Flags().StringVar(&room, "room", "", "room ID")
	return cmd
}
