// Package model holds the timetable domain types shared by the sync pipeline,
// the repository and the read API.
package model

import "time"

// TimetableId identifies a timetable within a source namespace. The pair is
// globally unique within the repository.
type TimetableId struct {
	Namespace string `json:"namespace"`
	ID        string `json:"id"`
}

func (id TimetableId) String() string {
	return id.Namespace + "/" + id.ID
}

// VariantKind discriminates TimetableVariant values.
type VariantKind string

const (
	VariantSemester VariantKind = "semester"
	VariantYear     VariantKind = "year"
	VariantUnique   VariantKind = "unique"
)

// TimetableVariant classifies a timetable's scope: a specific semester, a
// specific year, or unique/ungrouped. Value is meaningless for VariantUnique.
type TimetableVariant struct {
	Kind  VariantKind `json:"kind"`
	Value uint        `json:"value,omitempty"`
}

func Semester(n uint) TimetableVariant {
	return TimetableVariant{Kind: VariantSemester, Value: n}
}

func Year(n uint) TimetableVariant {
	return TimetableVariant{Kind: VariantYear, Value: n}
}

func Unique() TimetableVariant {
	return TimetableVariant{Kind: VariantUnique}
}

// TimetableDescriptor is the lightweight listing projection of a Timetable.
type TimetableDescriptor struct {
	ID      TimetableId      `json:"id"`
	Name    string           `json:"name"`
	Variant TimetableVariant `json:"variant"`
}

// Timetable is owned exclusively by the repository once ingested and is
// replaced wholesale on re-ingestion of the same id.
type Timetable struct {
	Descriptor TimetableDescriptor `json:"descriptor"`
	Activities []Activity          `json:"activities"`
	UpdateTime time.Time           `json:"updateTime"`
}

// Activity is a single scheduled event within a timetable.
type Activity struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Teacher    *string            `json:"teacher,omitempty"`
	Occurrence ActivityOccurrence `json:"occurrence"`
	Group      ActivityGroup      `json:"group"`
	Time       ActivityTime       `json:"time"`
	Room       *string            `json:"room,omitempty"`
}

// OccurrenceKind discriminates ActivityOccurrence values.
type OccurrenceKind string

const (
	OccurrenceRegular OccurrenceKind = "regular"
	OccurrenceSpecial OccurrenceKind = "special"
)

// ActivityOccurrence is either a weekly slot (Weekday set) or a dated one-off
// (Date set, source-formatted).
type ActivityOccurrence struct {
	Kind    OccurrenceKind `json:"kind"`
	Weekday Weekday        `json:"weekday,omitempty"`
	Date    string         `json:"date,omitempty"`
}

func Regular(day Weekday) ActivityOccurrence {
	return ActivityOccurrence{Kind: OccurrenceRegular, Weekday: day}
}

func Special(date string) ActivityOccurrence {
	return ActivityOccurrence{Kind: OccurrenceSpecial, Date: date}
}

// ActivityGroup describes the student group an activity belongs to.
type ActivityGroup struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	ID     uint8   `json:"id"`
	Number *string `json:"number,omitempty"`
}

// ActivityTime keeps the source-formatted time strings untouched; they are
// never parsed into structured time.
type ActivityTime struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  string `json:"duration"`
}

// Clone returns a deep copy so callers can never observe or cause mutation of
// repository-owned state.
func (t Timetable) Clone() Timetable {
	out := t
	out.Activities = make([]Activity, len(t.Activities))
	for i, a := range t.Activities {
		out.Activities[i] = a.clone()
	}
	return out
}

func (a Activity) clone() Activity {
	out := a
	out.Teacher = cloneStringPtr(a.Teacher)
	out.Room = cloneStringPtr(a.Room)
	out.Group.Number = cloneStringPtr(a.Group.Number)
	return out
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
