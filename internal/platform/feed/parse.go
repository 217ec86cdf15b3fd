package feed

import (
	"strconv"
	"strings"
	"time"
)

const hvDateLayout = "20060102150405"

// SafeInt parses an upstream count. Empty, missing, and garbage values all
// come back nil; the feed routinely mixes blanks into numeric fields.
func SafeInt(raw string) *int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// YNToBool maps the upstream Y/N flags. Anything else is unknown.
func YNToBool(raw string) *bool {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "Y":
		v := true
		return &v
	case "N":
		v := false
		return &v
	}
	return nil
}

// ParseHVDate parses the report timestamp (YYYYMMDDHHmmss, KST wall time).
// An unparseable value falls back to now so a bad row still supersedes an
// older snapshot.
func ParseHVDate(raw string, loc *time.Location) time.Time {
	s := strings.TrimSpace(raw)
	if s != "" {
		if t, err := time.ParseInLocation(hvDateLayout, s, loc); err == nil {
			return t
		}
	}
	return time.Now().In(loc)
}

// ParseBirthBeds resolves the delivery room pair. hv42 arrives as either a
// count or a Y/N flag:
//
//	no total        -> both unknown
//	digits          -> that count
//	starts with Y   -> fully available
//	starts with N   -> zero available
//	anything else   -> available unknown, total kept
func ParseBirthBeds(hv42 string, hvs26 *int) (available, total *int) {
	if hvs26 == nil {
		return nil, nil
	}
	total = hvs26

	s := strings.TrimSpace(hv42)
	if s == "" {
		return nil, total
	}

	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return &n, total
	}

	switch {
	case strings.HasPrefix(strings.ToUpper(s), "Y"):
		n := *total
		return &n, total
	case strings.HasPrefix(strings.ToUpper(s), "N"):
		n := 0
		return &n, total
	}
	return nil, total
}
