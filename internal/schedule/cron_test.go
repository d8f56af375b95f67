package schedule

import (
	"testing"
	"time"
)

func TestNextDelay_ValidExpression(t *testing.T) {
	// "0 9 * * *" = daily at 09:00; epoch is 08:00.
	d, err := NextDelay("0 9 * * *", epoch)
	if err != nil {
		t.Fatalf("NextDelay: %v", err)
	}
	if d != time.Hour {
		t.Errorf("delay = %v, want 1h", d)
	}
}

func TestNextDelay_InvalidExpression(t *testing.T) {
	if _, err := NextDelay("not a cron expr", epoch); err == nil {
		t.Fatal("expected error for invalid expression")
	}
}

func TestNextDelay_EveryMinute(t *testing.T) {
	d, err := NextDelay("* * * * *", epoch.Add(10*time.Second))
	if err != nil {
		t.Fatalf("NextDelay: %v", err)
	}
	if d != 50*time.Second {
		t.Errorf("delay = %v, want 50s", d)
	}
}

func TestEvery_ReArms(t *testing.T) {
	m := NewManual(epoch)
	count := 0
	if err := Every(m, m, "*/5 * * * *", func() { count++ }); err != nil {
		t.Fatalf("Every: %v", err)
	}

	m.Advance(4 * time.Minute)
	if count != 0 {
		t.Fatalf("count after 4m = %d, want 0", count)
	}
	m.Advance(time.Minute)
	if count != 1 {
		t.Fatalf("count after 5m = %d, want 1", count)
	}
	m.Advance(10 * time.Minute)
	if count != 3 {
		t.Errorf("count after 15m = %d, want 3", count)
	}
	if m.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1 (re-armed job)", m.Pending())
	}
}

func TestEvery_InvalidExpression(t *testing.T) {
	m := NewManual(epoch)
	if err := Every(m, m, "bogus", func() {}); err == nil {
		t.Fatal("expected error for invalid expression")
	}
	if m.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", m.Pending())
	}
}
