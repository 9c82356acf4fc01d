package logging

import "time"

const asctimeLayout = "2006-01-02T15:04:05.000"

var processStart = time.Now()

// formatTimestamp renders asctime in local time with milliseconds.
func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(time.Local).Format(asctimeLayout)
}

// epochSeconds is the created field: seconds since the Unix epoch.
func epochSeconds(ts time.Time) float64 {
	return float64(ts.UnixNano()) / 1e9
}

// millisecondPart is the msecs field: the sub-second part in milliseconds,
// kept to microsecond precision.
func millisecondPart(ts time.Time) float64 {
	return float64(ts.Nanosecond()/int(time.Microsecond)) / 1e3
}

// sinceStart reports milliseconds between process start and ts.
func sinceStart(ts time.Time) float64 {
	return float64(ts.Sub(processStart)) / float64(time.Millisecond)
}
