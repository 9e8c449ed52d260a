package model

// Weekday is encoded as 1..7 at the storage boundary, Monday = 1.
type Weekday uint8

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

func (w Weekday) String() string {
	if name, ok := weekdayNames[w]; ok {
		return name
	}
	return "Sunday"
}

// WeekdayFromStorage decodes the 1..7 storage encoding. Unrecognized values
// fall back to Sunday.
func WeekdayFromStorage(v int64) Weekday {
	if v >= 1 && v <= 7 {
		return Weekday(v)
	}
	return Sunday
}

// WeekdayFromCode decodes an upstream weekday code. Codes 1-5 map to
// Monday-Friday and 7 maps to Saturday; everything else, 6 included, falls
// back to Sunday. The gap at 6 is reproduced from the upstream feed for
// compatibility; it is not known whether the source ever emits 6.
func WeekdayFromCode(code uint8) Weekday {
	switch code {
	case 1:
		return Monday
	case 2:
		return Tuesday
	case 3:
		return Wednesday
	case 4:
		return Thursday
	case 5:
		return Friday
	case 7:
		return Saturday
	default:
		return Sunday
	}
}
