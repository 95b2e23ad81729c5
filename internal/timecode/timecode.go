// Package timecode converts between time.Duration values and the ADM
// timecode text grammar `[-]HH:MM:SS.fffffffff`.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"admkit/internal/admerr"
)

// maxHours keeps the nanosecond total inside int64.
const maxHours = uint64(1<<63-1) / uint64(time.Hour)

// Parse reads an ADM timecode. The hour field takes at least two digits,
// minutes and seconds exactly two, and the fraction between one and nine.
func Parse(text string) (time.Duration, error) {
	body := text
	negative := false
	if strings.HasPrefix(body, "-") {
		negative = true
		body = body[1:]
	}

	fields := strings.Split(body, ":")
	if len(fields) != 3 {
		return 0, admerr.MalformedTimecode(text, "expected HH:MM:SS.fraction")
	}
	secondsField, fraction, ok := strings.Cut(fields[2], ".")
	if !ok || strings.Contains(fraction, ".") {
		return 0, admerr.MalformedTimecode(text, "expected a single fractional separator")
	}

	hours, err := digits(text, "hours", fields[0], 2, 0)
	if err != nil {
		return 0, err
	}
	minutes, err := digits(text, "minutes", fields[1], 2, 2)
	if err != nil {
		return 0, err
	}
	seconds, err := digits(text, "seconds", secondsField, 2, 2)
	if err != nil {
		return 0, err
	}
	if len(fraction) == 0 || len(fraction) > 9 {
		return 0, admerr.MalformedTimecode(text, "fraction must have 1 to 9 digits")
	}
	nanos, err := digits(text, "fraction", fraction+strings.Repeat("0", 9-len(fraction)), 9, 9)
	if err != nil {
		return 0, err
	}
	if minutes >= 60 {
		return 0, admerr.MalformedTimecode(text, "minutes out of range")
	}
	if seconds >= 60 {
		return 0, admerr.MalformedTimecode(text, "seconds out of range")
	}
	if hours >= maxHours {
		return 0, admerr.MalformedTimecode(text, "hours out of range")
	}

	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(nanos)
	if negative {
		total = -total
	}
	return total, nil
}

// Format renders d with six fractional digits, or nine when d carries
// sub-microsecond precision.
func Format(d time.Duration) string {
	sign := ""
	magnitude := uint64(d)
	if d < 0 {
		sign = "-"
		magnitude = uint64(-(d + 1)) + 1
	}
	nanos := magnitude % uint64(time.Second)
	totalSeconds := magnitude / uint64(time.Second)
	hours := totalSeconds / 3600
	minutes := (totalSeconds / 60) % 60
	seconds := totalSeconds % 60

	if nanos%1000 == 0 {
		return fmt.Sprintf("%s%02d:%02d:%02d.%06d", sign, hours, minutes, seconds, nanos/1000)
	}
	return fmt.Sprintf("%s%02d:%02d:%02d.%09d", sign, hours, minutes, seconds, nanos)
}

func digits(text, field, value string, minLen, exactLen int) (uint64, error) {
	if exactLen > 0 && len(value) != exactLen {
		return 0, admerr.MalformedTimecode(text, fmt.Sprintf("%s must have %d digits", field, exactLen))
	}
	if len(value) < minLen {
		return 0, admerr.MalformedTimecode(text, fmt.Sprintf("%s must have at least %d digits", field, minLen))
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, admerr.MalformedTimecode(text, field+" must be decimal digits")
		}
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, admerr.MalformedTimecode(text, field+" out of range")
	}
	return parsed, nil
}
