package races

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yourusername/p10-paddock/internal/models"
)

// FormatDate renders a YYYY-MM-DD date as "July 16, 2023". Unparseable input is
// returned unchanged.
func FormatDate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("January 2, 2006")
}

// FormatTime drops the seconds of an HH:MM:SS clock
func FormatTime(clock string) string {
	clock = strings.TrimSuffix(strings.TrimSpace(clock), "Z")
	parts := strings.Split(clock, ":")
	if len(parts) < 2 {
		return clock
	}
	return parts[0] + ":" + parts[1]
}

// FormatStart renders the start of gp in loc, e.g. "May 25, 2025 15:00"
func FormatStart(gp models.GP, loc *time.Location) string {
	start, err := gp.StartsAt(loc)
	if err != nil {
		return strings.TrimSpace(FormatDate(gp.Date) + " " + FormatTime(gp.Time))
	}
	if loc != nil {
		start = start.In(loc)
	}
	return start.Format("January 2, 2006 15:04")
}

// RelativeDay describes a date relative to now: "Today", "Tomorrow", "Yesterday",
// "In 3 days" or "3 days ago". Days are counted from midnight in loc.
func RelativeDay(date string, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(models.DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return ""
	}

	diff := int(math.Ceil(day.Sub(now).Hours() / 24))
	switch {
	case diff == 0:
		return "Today"
	case diff == 1:
		return "Tomorrow"
	case diff == -1:
		return "Yesterday"
	case diff > 0:
		return fmt.Sprintf("In %d days", diff)
	default:
		return fmt.Sprintf("%d days ago", -diff)
	}
}
