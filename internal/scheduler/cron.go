package scheduler

import "fmt"

// durationToCronExpression renders a polling interval as a six-field cron
// expression, for interoperability with external schedulers only; the
// scheduler itself drives ticks with time.Ticker, not a cron engine,
// per the Design Notes' native-ticker decision.
func durationToCronExpression(d int64) string {
	seconds := d
	switch {
	case seconds < 60:
		return fmt.Sprintf("*/%d * * * * *", seconds)
	case seconds < 3600:
		return fmt.Sprintf("0 */%d * * * *", seconds/60)
	default:
		return fmt.Sprintf("0 0 */%d * * *", seconds/3600)
	}
}
