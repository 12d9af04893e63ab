package ziparchive

import "time"

// civilToUnix converts an MS-DOS date/time tuple (already unpacked by
// dosTimeToUnix) to a Unix timestamp, treating it as UTC since MS-DOS
// timestamps carry no timezone.
func civilToUnix(year, month, day, hour, minute, sec int) int64 {
	return time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC).Unix()
}
