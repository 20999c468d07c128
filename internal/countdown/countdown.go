// Package countdown computes the time remaining until a race starts.
package countdown

import (
	"fmt"
	"time"

	"github.com/yourusername/p10-paddock/internal/models"
)

const (
	msPerSecond = int64(1000)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// Result is the remaining time split into calendar units
type Result struct {
	Days    int  `json:"days" yaml:"days"`
	Hours   int  `json:"hours" yaml:"hours"`
	Minutes int  `json:"minutes" yaml:"minutes"`
	Seconds int  `json:"seconds" yaml:"seconds"`
	Expired bool `json:"expired" yaml:"expired"`
}

// Calculate splits target-now into days, hours, minutes and seconds, truncating
// sub-second remainders. A target at or before now is Expired with zero fields.
func Calculate(target, now time.Time) Result {
	total := target.Sub(now).Milliseconds()
	if total <= 0 {
		return Result{Expired: true}
	}

	return Result{
		Days:    int(total / msPerDay),
		Hours:   int(total % msPerDay / msPerHour),
		Minutes: int(total % msPerHour / msPerMinute),
		Seconds: int(total % msPerMinute / msPerSecond),
	}
}

// Until computes the countdown to a race date and clock. Input that does not parse
// yields an Expired result.
func Until(date, clock string, loc *time.Location, now time.Time) Result {
	target, err := models.ParseStart(date, clock, loc)
	if err != nil {
		return Result{Expired: true}
	}
	return Calculate(target, now)
}

// String formats the result as "1d 02h 03m 04s", or "started" once expired
func (r Result) String() string {
	if r.Expired {
		return "started"
	}
	return fmt.Sprintf("%dd %02dh %02dm %02ds", r.Days, r.Hours, r.Minutes, r.Seconds)
}
