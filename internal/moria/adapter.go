// Package moria adapts the moria upstream provider into the timetable domain
// model. One sync cycle lists the available timetables, fetches each one's
// activities, filters unusable records and emits the survivors to the
// ingestion sink.
package moria

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/erebor/erebor-backend/internal/httpclient"
	"github.com/erebor/erebor-backend/internal/ingest"
	"github.com/erebor/erebor-backend/internal/model"
	"github.com/erebor/erebor-backend/internal/scheduler"
)

// Namespace partitions moria timetables in the repository.
const Namespace = "moria"

// Config configures the adapter.
type Config struct {
	// BaseURL of the upstream API.
	BaseURL string
	// SkipGroupsCode excludes roster entries carrying this groups code from
	// group matching. The upstream meaning of the value is undocumented.
	SkipGroupsCode string
}

// Adapter fetches and maps moria timetables.
type Adapter struct {
	client         *httpclient.Client
	baseURL        string
	skipGroupsCode string
	log            zerolog.Logger
}

// New returns an adapter using client for all upstream calls.
func New(client *httpclient.Client, cfg Config, log zerolog.Logger) *Adapter {
	return &Adapter{
		client:         client,
		baseURL:        cfg.BaseURL,
		skipGroupsCode: cfg.SkipGroupsCode,
		log:            log,
	}
}

// Job adapts SyncOnce to the scheduler's job contract.
func (a *Adapter) Job() scheduler.Job {
	return func(ctx context.Context, sink ingest.Sink) error {
		return a.SyncOnce(ctx, sink)
	}
}

// SyncOnce performs one full sync cycle. Timetables are emitted as they are
// ready, so partial progress survives a later fetch failure. A fetch failure
// aborts the cycle; per-record issues only skip that record.
func (a *Adapter) SyncOnce(ctx context.Context, sink ingest.Sink) error {
	entries, err := a.fetchList(ctx)
	if err != nil {
		return fmt.Errorf("fetch timetable list: %w", err)
	}
	a.log.Debug().Int("count", len(entries)).Msg("fetched upstream timetable list")

	for _, entry := range entries {
		records, err := a.fetchActivities(ctx, entry.ID)
		if err != nil {
			return fmt.Errorf("fetch activities for %q: %w", entry.ID, err)
		}

		activities := a.mapActivities(entry.ID, records)
		if len(activities) == 0 {
			a.log.Info().Str("timetable", entry.ID).Msg("skipping timetable with no usable activities")
			continue
		}

		name, variant := model.ParseDisplayName(entry.Name)
		timetable := model.Timetable{
			Descriptor: model.TimetableDescriptor{
				ID:      model.TimetableId{Namespace: Namespace, ID: entry.ID},
				Name:    name,
				Variant: variant,
			},
			Activities: activities,
			UpdateTime: time.Now().UTC(),
		}
		if !sink.Send(timetable) {
			a.log.Warn().Str("timetable", entry.ID).Msg("ingestion pipeline closed, dropping timetable")
		}
	}
	return nil
}

func (a *Adapter) fetchList(ctx context.Context) ([]listEntry, error) {
	url := a.baseURL + "/timetables"
	env, err := httpclient.Fetch[envelope[listEntry]](a.client, url, func(c *resty.Client) (*resty.Response, error) {
		return c.R().SetContext(ctx).Get(url)
	})
	if err != nil {
		return nil, err
	}
	return env.Result.Array, nil
}

func (a *Adapter) fetchActivities(ctx context.Context, id string) ([]activityRecord, error) {
	url := a.baseURL + "/activities"
	env, err := httpclient.Fetch[envelope[activityRecord]](a.client, url, func(c *resty.Client) (*resty.Response, error) {
		return c.R().SetContext(ctx).SetQueryParam("id", id).Get(url)
	})
	if err != nil {
		return nil, err
	}
	return env.Result.Array, nil
}

// mapActivities filters and maps upstream records. Records without event data
// or without student membership are logged and skipped, never fatal.
func (a *Adapter) mapActivities(timetableID string, records []activityRecord) []model.Activity {
	out := make([]model.Activity, 0, len(records))
	for _, rec := range records {
		if len(rec.Event) == 0 {
			a.log.Debug().Str("timetable", timetableID).Str("activity", rec.ID).Msg("skipping activity without event data")
			continue
		}
		member, ok := a.matchStudent(timetableID, rec.Students)
		if !ok {
			a.log.Debug().Str("timetable", timetableID).Str("activity", rec.ID).Msg("skipping activity without student membership")
			continue
		}
		out = append(out, a.mapActivity(rec, member))
	}
	return out
}

// matchStudent finds the roster entry for the current timetable's numeric id,
// ignoring entries flagged with the configured groups code.
func (a *Adapter) matchStudent(timetableID string, students []studentRecord) (studentRecord, bool) {
	for _, s := range students {
		if s.Groups == a.skipGroupsCode {
			continue
		}
		if s.ID == timetableID {
			return s, true
		}
	}
	return studentRecord{}, false
}

func (a *Adapter) mapActivity(rec activityRecord, member studentRecord) model.Activity {
	ev := rec.Event[0]

	var occurrence model.ActivityOccurrence
	if ev.Date != "" {
		occurrence = model.Special(ev.Date)
	} else {
		occurrence = model.Regular(model.WeekdayFromCode(parseCode(ev.Day)))
	}

	var teacher *string
	if len(rec.Teacher) > 0 && rec.Teacher[0].Name != "" {
		name := rec.Teacher[0].Name
		teacher = &name
	}

	var room *string
	if ev.Room != "" {
		r := ev.Room
		room = &r
	}

	var number *string
	if member.Group != "" {
		g := member.Group
		number = &g
	}

	groupID, err := strconv.ParseUint(rec.Type.ID, 10, 8)
	if err != nil {
		groupID = 0
	}

	return model.Activity{
		ID:         rec.ID,
		Name:       ev.Name,
		Teacher:    teacher,
		Occurrence: occurrence,
		Group: model.ActivityGroup{
			Symbol: rec.Type.Shortcut,
			Name:   rec.Type.Name,
			ID:     uint8(groupID),
			Number: number,
		},
		Time: model.ActivityTime{
			StartTime: ev.StartTime,
			EndTime:   ev.EndTime,
			Duration:  ev.Duration,
		},
		Room: room,
	}
}

// parseCode turns the upstream weekday string into a numeric code. Anything
// unparsable lands in the Sunday fallback of WeekdayFromCode.
func parseCode(day string) uint8 {
	code, err := strconv.ParseUint(day, 10, 8)
	if err != nil {
		return 0
	}
	return uint8(code)
}
