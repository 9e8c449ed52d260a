package sqlite

import (
	"fmt"

	"github.com/erebor/erebor-backend/internal/model"
)

// Persist upserts the namespace and timetable rows, then replaces the
// timetable's activity rows wholesale. Delete-then-insert is deliberate:
// activity lists are replaced on every sync, so there is nothing to diff.
func (s *Store) Persist(t model.Timetable) error {
	id := t.Descriptor.ID

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("persist %s: %w", id, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR IGNORE INTO namespace (id) VALUES (?);`, id.Namespace); err != nil {
		return fmt.Errorf("insert namespace %q: %w", id.Namespace, err)
	}

	variant, variantValue := variantToDB(t.Descriptor.Variant)
	_, err = tx.Exec(
		`INSERT OR REPLACE INTO timetable (id, timetable_id, name, variant, variant_value, update_time, namespace_id) VALUES (?, ?, ?, ?, ?, ?, ?);`,
		dbID(id), id.ID, t.Descriptor.Name, variant, variantValue, t.UpdateTime.Unix(), id.Namespace,
	)
	if err != nil {
		return fmt.Errorf("insert timetable %s: %w", id, err)
	}

	if _, err := tx.Exec(`DELETE FROM activity WHERE timetable_id = ?;`, dbID(id)); err != nil {
		return fmt.Errorf("delete old activities for %s: %w", id, err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO activity(
			id,
			activity_id,
			timetable_id,
			name,
			teacher,
			occurrence,
			occurrence_weekday,
			occurrence_date,
			group_symbol,
			group_id,
			group_name,
			group_number,
			start_time,
			end_time,
			duration,
			room) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
	)
	if err != nil {
		return fmt.Errorf("prepare activity insert for %s: %w", id, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range t.Activities {
		occurrence, occurrenceWeekday, occurrenceDate := occurrenceToDB(a.Occurrence)
		activityID := fmt.Sprintf("%s_%s", dbID(id), a.ID)

		_, err := stmt.Exec(
			activityID, a.ID, dbID(id),
			a.Name, a.Teacher, occurrence, occurrenceWeekday, occurrenceDate,
			a.Group.Symbol, fmt.Sprintf("%d", a.Group.ID), a.Group.Name, a.Group.Number,
			a.Time.StartTime, a.Time.EndTime, a.Time.Duration, a.Room,
		)
		if err != nil {
			return fmt.Errorf("insert activity %q for %s: %w", a.ID, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("persist %s: %w", id, err)
	}
	return nil
}

func dbID(id model.TimetableId) string {
	return fmt.Sprintf("%s_%s", id.Namespace, id.ID)
}

func variantToDB(v model.TimetableVariant) (string, any) {
	switch v.Kind {
	case model.VariantSemester:
		return "semester", int64(v.Value)
	case model.VariantYear:
		return "year", int64(v.Value)
	default:
		return "unique", nil
	}
}

func occurrenceToDB(o model.ActivityOccurrence) (string, any, any) {
	if o.Kind == model.OccurrenceSpecial {
		return "special", nil, o.Date
	}
	return "regular", int64(o.Weekday), nil
}
