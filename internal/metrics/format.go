package metrics

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatUptime renders seconds as "2d 4h 11m", dropping leading zero
// units.
func FormatUptime(seconds int64) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// FormatSpeed renders a byte rate as "1.2 MiB/s".
func FormatSpeed(bytesPerSec float64) string {
	if bytesPerSec < 0 {
		bytesPerSec = 0
	}
	return humanize.IBytes(uint64(bytesPerSec)) + "/s"
}

// FormatPercent renders a 0-100 value as "42%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}
