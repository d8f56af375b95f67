package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/zulandar/wardroom/internal/models"
)

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// formatTime renders t in local time for tables.
func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// formatETA renders an optional completion estimate.
func formatETA(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTime(*t)
}

// orDash substitutes "-" for empty table cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printMessages(out io.Writer, msgs []models.Message) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFROM\tTEXT\tREACTION\tSENT")
	for _, m := range msgs {
		from := m.SenderName
		if m.FromUser {
			from = models.LocalUser
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			m.ID, orDash(from), m.Text, orDash(m.Reaction), formatTime(m.CreatedAt))
	}
	w.Flush()
}

func parseID(s, what string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s ID: %w", what, err)
	}
	return id, nil
}

// parseFields turns repeated id=value flags into note values. Values for
// boolean fields must parse as booleans; ids not on the template are
// rejected.
func parseFields(tmpl models.NoteTemplate, raw []string) (map[string]models.FieldValue, error) {
	kinds := make(map[string]models.FieldKind, len(tmpl.Fields))
	for _, f := range tmpl.Fields {
		kinds[f.ID] = f.Kind
	}

	values := make(map[string]models.FieldValue, len(raw))
	for _, kv := range raw {
		id, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("field %q: want id=value", kv)
		}
		kind, known := kinds[id]
		if !known {
			return nil, fmt.Errorf("field %q is not on template %s", id, tmpl.ID)
		}
		if kind == models.FieldBoolean {
			b, err := strconv.ParseBool(val)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", id, err)
			}
			values[id] = models.Bool(b)
			continue
		}
		values[id] = models.Text(val)
	}
	return values, nil
}

func joinViolations(v []string) string {
	return strings.Join(v, ", ")
}
