package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/erebor/erebor-backend/internal/model"
)

// LoadAll reads every timetable row joined with its activities. It runs once
// at startup, before any ingestion, so reads are correct before the first
// scheduled sync completes.
func (s *Store) LoadAll() ([]model.Timetable, error) {
	rows, err := s.db.Query(
		`SELECT namespace_id, timetable_id, name, variant, variant_value, update_time FROM timetable ORDER BY id;`,
	)
	if err != nil {
		return nil, fmt.Errorf("load timetables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Timetable
	for rows.Next() {
		var (
			namespace, timetableID, name, variant string
			variantValue                          sql.NullInt64
			updateTime                            int64
		)
		if err := rows.Scan(&namespace, &timetableID, &name, &variant, &variantValue, &updateTime); err != nil {
			return nil, fmt.Errorf("scan timetable row: %w", err)
		}

		id := model.TimetableId{Namespace: namespace, ID: timetableID}
		activities, err := s.loadActivities(id)
		if err != nil {
			return nil, err
		}

		out = append(out, model.Timetable{
			Descriptor: model.TimetableDescriptor{
				ID:      id,
				Name:    name,
				Variant: dbToVariant(variant, variantValue),
			},
			Activities: activities,
			UpdateTime: time.Unix(updateTime, 0).UTC(),
		})
	}
	return out, rows.Err()
}

func (s *Store) loadActivities(id model.TimetableId) ([]model.Activity, error) {
	rows, err := s.db.Query(
		`SELECT activity_id,
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
			room FROM activity WHERE timetable_id = ? ORDER BY rowid;`,
		dbID(id),
	)
	if err != nil {
		return nil, fmt.Errorf("load activities for %s: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			// A malformed row only loses that activity, not the timetable.
			s.log.Error().Err(err).Stringer("timetable", id).Msg("cannot load activity row")
			continue
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanActivity(rows *sql.Rows) (model.Activity, error) {
	var (
		activityID, name, occurrence         string
		teacher, occurrenceDate, groupNumber sql.NullString
		occurrenceWeekday                    sql.NullInt64
		groupSymbol, groupID, groupName      string
		startTime, endTime, duration         string
		room                                 sql.NullString
	)
	err := rows.Scan(
		&activityID, &name, &teacher, &occurrence, &occurrenceWeekday, &occurrenceDate,
		&groupSymbol, &groupID, &groupName, &groupNumber,
		&startTime, &endTime, &duration, &room,
	)
	if err != nil {
		return model.Activity{}, err
	}

	var occ model.ActivityOccurrence
	if occurrence == "special" {
		occ = model.Special(occurrenceDate.String)
	} else {
		occ = model.Regular(model.WeekdayFromStorage(occurrenceWeekday.Int64))
	}

	parsedGroupID, err := strconv.ParseUint(groupID, 10, 8)
	if err != nil {
		parsedGroupID = 0
	}

	return model.Activity{
		ID:         activityID,
		Name:       name,
		Teacher:    nullableString(teacher),
		Occurrence: occ,
		Group: model.ActivityGroup{
			Symbol: groupSymbol,
			Name:   groupName,
			ID:     uint8(parsedGroupID),
			Number: nullableString(groupNumber),
		},
		Time: model.ActivityTime{
			StartTime: startTime,
			EndTime:   endTime,
			Duration:  duration,
		},
		Room: nullableString(room),
	}, nil
}

func dbToVariant(variant string, value sql.NullInt64) model.TimetableVariant {
	switch variant {
	case "semester":
		return model.Semester(uint(value.Int64))
	case "year":
		return model.Year(uint(value.Int64))
	default:
		return model.Unique()
	}
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
