package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// NextDelay parses a 5-field cron expression and returns the duration from
// now until its next fire time.
func NextDelay(expr string, now time.Time) (time.Duration, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0, fmt.Errorf("schedule: parse cron %q: %w", expr, err)
	}
	return sched.Next(now).Sub(now), nil
}

// Every arranges for fn to run each time expr fires, using s for delays and
// c to decide the next fire time. The job re-arms itself after each run.
func Every(s Scheduler, c Clock, expr string, fn func()) error {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return fmt.Errorf("schedule: parse cron %q: %w", expr, err)
	}

	var arm func()
	arm = func() {
		now := c.Now()
		s.Schedule(sched.Next(now).Sub(now), func() {
			fn()
			arm()
		})
	}
	arm()
	return nil
}
