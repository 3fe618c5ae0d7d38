package srt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Timecode is a media offset in milliseconds.
type Timecode int64

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute

	maxHours = math.MaxInt64 / msPerHour
)

// ParseTimecode converts HH:MM:SS,mmm into milliseconds. Hours take two or more
// digits; minutes and seconds take exactly two and must be below 60;
// milliseconds take exactly three.
func ParseTimecode(text string) (Timecode, error) {
	value := strings.TrimSpace(text)
	hoursText, rest, ok := strings.Cut(value, ":")
	if !ok || len(hoursText) < 2 || !allDigits(hoursText) {
		return 0, malformedTimecode(text)
	}
	// rest is MM:SS,mmm
	if len(rest) != 9 || rest[2] != ':' || rest[5] != ',' {
		return 0, malformedTimecode(text)
	}
	minutesText, secondsText, millisText := rest[0:2], rest[3:5], rest[6:9]
	if !allDigits(minutesText) || !allDigits(secondsText) || !allDigits(millisText) {
		return 0, malformedTimecode(text)
	}

	hours, err := strconv.ParseInt(hoursText, 10, 64)
	if err != nil || hours > maxHours {
		return 0, malformedTimecode(text)
	}
	minutes, _ := strconv.ParseInt(minutesText, 10, 64)
	seconds, _ := strconv.ParseInt(secondsText, 10, 64)
	millis, _ := strconv.ParseInt(millisText, 10, 64)
	if minutes >= 60 || seconds >= 60 {
		return 0, malformedTimecode(text)
	}

	total := ((hours*60+minutes)*60+seconds)*msPerSecond + millis
	if total < 0 {
		return 0, malformedTimecode(text)
	}
	return Timecode(total), nil
}

// FormatTimecode renders milliseconds as HH:MM:SS,mmm. Negative values render
// as zero.
func FormatTimecode(ms Timecode) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / msPerHour
	minutes := (ms % msPerHour) / msPerMinute
	seconds := (ms % msPerMinute) / msPerSecond
	millis := ms % msPerSecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

func (t Timecode) String() string {
	return FormatTimecode(t)
}

func malformedTimecode(text string) error {
	return fmt.Errorf("%w: %q", ErrMalformedTimecode, text)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
