package model

import "strings"

// ParseDisplayName splits an upstream display name into a clean name and a
// variant. A single leading digit followed by a space marks a year timetable;
// anything else is unique. No source currently produces semester names.
func ParseDisplayName(name string) (string, TimetableVariant) {
	if len(name) >= 2 && name[0] >= '0' && name[0] <= '9' && name[1] == ' ' {
		year := uint(name[0] - '0')
		return strings.TrimSpace(name[2:]), Year(year)
	}
	return name, Unique()
}
