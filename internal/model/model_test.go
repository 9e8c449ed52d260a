package model

import "testing"

func TestParseDisplayName(t *testing.T) {
	cases := []struct {
		in      string
		name    string
		variant TimetableVariant
	}{
		{"1 Informatyka", "Informatyka", Year(1)},
		{"Informatyka", "Informatyka", Unique()},
		{"9 X", "X", Year(9)},
		{"12 Fizyka", "12 Fizyka", Unique()}, // two digits: no year marker
		{"", "", Unique()},
		{"7", "7", Unique()},
	}

	for _, c := range cases {
		name, variant := ParseDisplayName(c.in)
		if name != c.name || variant != c.variant {
			t.Fatalf("ParseDisplayName(%q) = (%q, %+v), want (%q, %+v)", c.in, name, variant, c.name, c.variant)
		}
	}
}

func TestWeekdayFromCode(t *testing.T) {
	cases := map[uint8]Weekday{
		1: Monday,
		2: Tuesday,
		3: Wednesday,
		4: Thursday,
		5: Friday,
		7: Saturday,
		// reproduced source behavior: everything else is Sunday, 6 included
		0: Sunday,
		6: Sunday,
		8: Sunday,
	}

	for code, want := range cases {
		if got := WeekdayFromCode(code); got != want {
			t.Fatalf("WeekdayFromCode(%d) = %s, want %s", code, got, want)
		}
	}
}

func TestWeekdayFromStorage(t *testing.T) {
	if got := WeekdayFromStorage(6); got != Saturday {
		t.Fatalf("storage decode of 6 = %s, want Saturday", got)
	}
	if got := WeekdayFromStorage(0); got != Sunday {
		t.Fatalf("storage decode of 0 = %s, want Sunday", got)
	}
}

func TestTimetableClone_Independence(t *testing.T) {
	teacher := "Gandalf"
	room := "A-101"

	original := Timetable{
		Descriptor: TimetableDescriptor{
			ID:      TimetableId{Namespace: "moria", ID: "42"},
			Name:    "Informatyka",
			Variant: Year(1),
		},
		Activities: []Activity{{
			ID:         "7",
			Name:       "Algebra",
			Teacher:    &teacher,
			Occurrence: Regular(Monday),
			Group:      ActivityGroup{Symbol: "w", Name: "lecture", ID: 1},
			Time:       ActivityTime{StartTime: "08:00", EndTime: "09:30", Duration: "01:30"},
			Room:       &room,
		}},
	}

	clone := original.Clone()
	clone.Activities[0].Name = "changed"
	*clone.Activities[0].Teacher = "Saruman"
	*clone.Activities[0].Room = "B-202"

	if original.Activities[0].Name != "Algebra" {
		t.Fatalf("clone shares activity slice with original")
	}
	if *original.Activities[0].Teacher != "Gandalf" {
		t.Fatalf("clone shares teacher pointer with original")
	}
	if *original.Activities[0].Room != "A-101" {
		t.Fatalf("clone shares room pointer with original")
	}
}
