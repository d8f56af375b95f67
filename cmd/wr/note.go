package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/wardroom/internal/models"
)

func newNoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Structured note commands",
	}

	cmd.AddCommand(newNoteTemplatesCmd())
	cmd.AddCommand(newNoteSaveCmd("draft", "Save a draft note", false))
	cmd.AddCommand(newNoteSaveCmd("submit", "Submit a note", true))
	cmd.AddCommand(newNoteSubmitDraftCmd())
	cmd.AddCommand(newNoteListCmd())
	return cmd
}

func newNoteTemplatesCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List note templates and their fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			for _, t := range a.Notes.Templates() {
				fmt.Fprintf(out, "%s %s (%s)\n", t.Icon, t.Title, t.ID)
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, f := range t.Fields {
					req := ""
					if f.Required {
						req = "required"
					}
					fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", f.ID, f.Label, f.Kind, req)
				}
				w.Flush()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	return cmd
}

func newNoteSaveCmd(use, short string, submit bool) *cobra.Command {
	var (
		configPath string
		fields     []string
	)

	cmd := &cobra.Command{
		Use:   use + " <template-id>",
		Short: short,
		Long:  "Fills a note from --field id=value flags. Submitting requires every required field.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			tmpl, ok := a.Notes.Template(args[0])
			if !ok {
				return fmt.Errorf("template not found: %s", args[0])
			}
			values, err := parseFields(tmpl, fields)
			if err != nil {
				return err
			}

			save := a.Notes.SaveDraft
			if submit {
				save = a.Notes.Submit
			}
			note, err := save(tmpl.ID, values)
			if err != nil {
				return describeValidation(err)
			}

			state := "Saved draft"
			if note.Submitted {
				state = "Submitted"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s note %d (%s)\n", state, note.ID, note.TemplateTitle)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "field value as id=value (repeatable)")
	return cmd
}

func newNoteSubmitDraftCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "submit-draft <note-id>",
		Short: "Submit a saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "note")
			if err != nil {
				return err
			}
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			note, err := a.Notes.SubmitDraft(id)
			if err != nil {
				return describeValidation(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Submitted note %d (%s)\n", note.ID, note.TemplateTitle)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	return cmd
}

func newNoteListCmd() *cobra.Command {
	var (
		configPath string
		state      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			var list []models.CompletedNote
			switch state {
			case "":
				list = a.Notes.Notes()
			case "pending":
				list = a.Notes.PendingNotes()
			case "submitted":
				list = a.Notes.SubmittedNotes()
			default:
				return fmt.Errorf("invalid --state %q (pending, submitted)", state)
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No notes")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTEMPLATE\tSTATE\tCREATED")
			for _, n := range list {
				st := "draft"
				if n.Submitted {
					st = "submitted"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", n.ID, n.TemplateTitle, st, formatTime(n.CreatedAt))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Wardroom config file")
	cmd.Flags().StringVar(&state, "state", "", "filter by state (pending, submitted)")
	return cmd
}

// describeValidation rewrites a validation error as a one-line list of what
// is missing; other errors pass through.
func describeValidation(err error) error {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return fmt.Errorf("missing or invalid: %s", joinViolations(ve.Violations))
	}
	return err
}
