package main

import (
	"strings"
	"testing"
	"time"
)

func TestRoomCommands(t *testing.T) {
	cfg := writeConfig(t)

	out := mustRun(t, "room", "list", "-c", cfg)
	for _, id := range []string{"support-dashboard", "day-shift-team", "night-shift-team", "emergency-alerts", "general-team"} {
		if !strings.Contains(out, id) {
			t.Errorf("room list missing %s:\n%s", id, out)
		}
	}

	out = mustRun(t, "room", "open", "day-shift-team", "-c", cfg)
	if !strings.Contains(out, "Day Shift Team") {
		t.Errorf("room open output:\n%s", out)
	}

	out = mustRun(t, "message", "list", "-c", cfg)
	if strings.Contains(out, "No room open") {
		t.Errorf("current room not persisted between commands:\n%s", out)
	}

	mustRun(t, "room", "read", "general-team", "-c", cfg)
	out = mustRun(t, "summary", "-c", cfg)
	// 6 seeded unread, minus day-shift (0) and general-team (3).
	if got := summaryValue(out, "Unread messages:"); got != "3" {
		t.Errorf("unread after reads = %q, want 3:\n%s", got, out)
	}

	if _, err := run(t, "room", "open", "cafeteria", "-c", cfg); err == nil {
		t.Error("expected error for unknown room")
	}
}

func TestMessageSend_Wait(t *testing.T) {
	cfg := writeConfig(t)
	out := mustRun(t, "message", "send", "Need a hand with intake", "--room", "support-dashboard", "--wait", "-c", cfg)
	if !strings.Contains(out, "Sent message 11") {
		t.Errorf("send output:\n%s", out)
	}
	if !strings.Contains(out, "Got it! Thanks for the update") || !strings.Contains(out, "Admin") {
		t.Errorf("reply not shown:\n%s", out)
	}

	out = mustRun(t, "message", "list", "--room", "support-dashboard", "-c", cfg)
	if !strings.Contains(out, "Need a hand with intake") || !strings.Contains(out, "Got it!") {
		t.Errorf("history after send:\n%s", out)
	}
}

func TestMessageSend_UnknownRoom(t *testing.T) {
	cfg := writeConfig(t)
	if _, err := run(t, "message", "send", "hi", "--room", "cafeteria", "-c", cfg); err == nil {
		t.Error("expected error for unknown room")
	}
}

func TestNoteCommands(t *testing.T) {
	cfg := writeConfig(t)

	out := mustRun(t, "note", "templates", "-c", cfg)
	if !strings.Contains(out, "Patient Check-in") || !strings.Contains(out, "vitals-check") {
		t.Errorf("templates output:\n%s", out)
	}

	_, err := run(t, "note", "submit", "patient-check", "-f", "patient-name=Jane Doe", "-c", cfg)
	if err == nil || !strings.Contains(err.Error(), "Patient Mood") {
		t.Errorf("submit err = %v, want missing Patient Mood", err)
	}

	out = mustRun(t, "note", "draft", "patient-check", "-f", "patient-name=Jane Doe", "-f", "vitals-check=false", "-c", cfg)
	if !strings.Contains(out, "Saved draft note 1") {
		t.Errorf("draft output:\n%s", out)
	}

	if _, err := run(t, "note", "submit-draft", "1", "-c", cfg); err == nil {
		t.Error("expected submit-draft to fail without mood")
	}

	out = mustRun(t, "note", "submit", "patient-check", "-f", "patient-name=Jane Doe", "-f", "mood=Calm 😌", "-c", cfg)
	if !strings.Contains(out, "Submitted note 2") {
		t.Errorf("submit output:\n%s", out)
	}

	out = mustRun(t, "note", "list", "--state", "pending", "-c", cfg)
	if !strings.Contains(out, "draft") || strings.Contains(out, "submitted") {
		t.Errorf("pending list:\n%s", out)
	}
}

func TestNoteDraft_FieldErrors(t *testing.T) {
	cfg := writeConfig(t)
	tests := [][]string{
		{"note", "draft", "patient-check", "-f", "patient-name"},
		{"note", "draft", "patient-check", "-f", "shoe-size=9"},
		{"note", "draft", "patient-check", "-f", "vitals-check=maybe"},
		{"note", "draft", "discharge"},
	}
	for _, args := range tests {
		if _, err := run(t, append(args, "-c", cfg)...); err == nil {
			t.Errorf("wr %s: expected error", strings.Join(args, " "))
		}
	}
}

func TestRequestCommands(t *testing.T) {
	cfg := writeConfig(t)

	out := mustRun(t, "request", "types", "-c", cfg)
	if !strings.Contains(out, "pharmacy") || !strings.Contains(out, "Maintenance & Repair") {
		t.Errorf("types output:\n%s", out)
	}

	out = mustRun(t, "request", "submit", "housekeeping", "-d", "Spill in hall 3", "--priority", "low", "--wait", "-c", cfg)
	if !strings.Contains(out, "Submitted request 4 (Housekeeping): pending") {
		t.Errorf("submit output:\n%s", out)
	}
	if !strings.Contains(out, "Request 4 is now in_progress") {
		t.Errorf("lifecycle did not complete:\n%s", out)
	}

	out = mustRun(t, "request", "submit", "clinical-support", "-d", "Extra hands", "--priority", "urgent", "-c", cfg)
	if !strings.Contains(out, ": approved") {
		t.Errorf("urgent submit output:\n%s", out)
	}

	if _, err := run(t, "request", "submit", "housekeeping", "--priority", "low", "-c", cfg); err == nil {
		t.Error("expected error for missing description")
	}

	mustRun(t, "request", "status", "4", "completed", "--notes", "Mopped", "-c", cfg)
	if _, err := run(t, "request", "status", "4", "pending", "-c", cfg); err == nil {
		t.Error("expected error moving completed request back to pending")
	}
	mustRun(t, "request", "assign", "5", "Nurse Kim", "-c", cfg)

	out = mustRun(t, "request", "list", "--completed", "-c", cfg)
	if !strings.Contains(out, "Housekeeping") || !strings.Contains(out, "Supply Request") {
		t.Errorf("completed list:\n%s", out)
	}
	out = mustRun(t, "request", "list", "-c", cfg)
	if !strings.Contains(out, "Nurse Kim") {
		t.Errorf("active list:\n%s", out)
	}
}

func TestAnnounceCommands(t *testing.T) {
	cfg := writeConfig(t)

	mustRun(t, "announce", "dismiss", "1", "-c", cfg)
	out := mustRun(t, "announce", "list", "-c", cfg)
	if strings.Contains(out, "Weather Alert") || !strings.Contains(out, "Raffle Update") {
		t.Errorf("active list:\n%s", out)
	}

	out = mustRun(t, "announce", "publish", "Fire drill", "--body", "10am, east wing", "--kind", "urgent", "-c", cfg)
	if !strings.Contains(out, "Published announcement 3") {
		t.Errorf("publish output:\n%s", out)
	}

	out = mustRun(t, "announce", "list", "--all", "-c", cfg)
	if !strings.Contains(out, "(dismissed)") || !strings.Contains(out, "Fire drill") {
		t.Errorf("all list:\n%s", out)
	}

	if _, err := run(t, "announce", "publish", "Empty", "-c", cfg); err == nil {
		t.Error("expected error for missing body")
	}
	if _, err := run(t, "announce", "dismiss", "99", "-c", cfg); err == nil {
		t.Error("expected error for unknown announcement")
	}
}

func TestMessageSend_ReplyLandsInLaterCommand(t *testing.T) {
	cfg := writeConfig(t)
	mustRun(t, "message", "send", "Anyone seen the crash cart?", "--room", "support-dashboard", "-c", cfg)

	time.Sleep(60 * time.Millisecond)
	out := mustRun(t, "message", "list", "--room", "support-dashboard", "-c", cfg)
	if !strings.Contains(out, "Got it! Thanks for the update") {
		t.Errorf("reply missing after restart:\n%s", out)
	}
}

func TestRequestSubmit_LifecycleAcrossCommands(t *testing.T) {
	cfg := writeConfig(t)
	mustRun(t, "request", "submit", "housekeeping", "-d", "Spill in hall 3", "--priority", "low", "-c", cfg)

	time.Sleep(60 * time.Millisecond)
	if line := requestLine(mustRun(t, "request", "list", "-c", cfg), "4"); !strings.Contains(line, " approved ") {
		t.Fatalf("request 4 after approve delay: %q", line)
	}
	time.Sleep(60 * time.Millisecond)
	if line := requestLine(mustRun(t, "request", "list", "-c", cfg), "4"); !strings.Contains(line, " in_progress ") {
		t.Errorf("request 4 after progress delay: %q", line)
	}
}

// requestLine returns the request list row for id.
func requestLine(out, id string) string {
	for _, line := range strings.Split(out, "\n") {
		if f := strings.Fields(line); len(f) > 0 && f[0] == id {
			return line
		}
	}
	return ""
}

// summaryValue returns the value printed after label in summary output.
func summaryValue(out, label string) string {
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, label); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer message", 8, "a lon..."},
		{"🚨🚨🚨🚨", 2, "🚨🚨"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
