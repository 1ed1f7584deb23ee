package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"demoride/pkg/config"
	apperrors "demoride/pkg/errors"
	"demoride/pkg/model"
)

// timeOfDay is a wall-clock HH:MM anchor, applied to each calendar day of an
// event in that day's location.
type timeOfDay struct {
	hour   int
	minute int
}

func parseTimeOfDay(value string) (timeOfDay, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return timeOfDay{}, fmt.Errorf("expected HH:MM, got %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return timeOfDay{}, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return timeOfDay{}, fmt.Errorf("invalid minute in %q", value)
	}
	return timeOfDay{hour: hour, minute: minute}, nil
}

func (t timeOfDay) on(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.hour, t.minute, 0, 0, day.Location())
}

type window struct {
	start  timeOfDay
	cutoff timeOfDay
}

// SlotGenerator derives the canonical set of sessions for an event's date
// range: two riding windows per day, one slot every ride+turnaround minutes,
// and one session per group at each slot start.
type SlotGenerator struct {
	windows    []window
	ride       time.Duration
	turnaround time.Duration
}

func NewSlotGenerator(cfg *config.Config) (*SlotGenerator, error) {
	windows := make([]window, 0, 2)
	for _, pair := range [][2]string{
		{cfg.MorningStart, cfg.MorningCutoff},
		{cfg.AfternoonStart, cfg.AfternoonCutoff},
	} {
		start, err := parseTimeOfDay(pair[0])
		if err != nil {
			return nil, apperrors.InvalidConfiguration(fmt.Sprintf("window start: %v", err))
		}
		cutoff, err := parseTimeOfDay(pair[1])
		if err != nil {
			return nil, apperrors.InvalidConfiguration(fmt.Sprintf("window cutoff: %v", err))
		}
		windows = append(windows, window{start: start, cutoff: cutoff})
	}

	if cfg.RideDurationMin <= 0 {
		return nil, apperrors.InvalidConfiguration(fmt.Sprintf("ride duration must be positive, got %d", cfg.RideDurationMin))
	}
	if cfg.TurnaroundDurationMin < 0 {
		return nil, apperrors.InvalidConfiguration(fmt.Sprintf("turnaround duration cannot be negative, got %d", cfg.TurnaroundDurationMin))
	}

	return &SlotGenerator{
		windows:    windows,
		ride:       time.Duration(cfg.RideDurationMin) * time.Minute,
		turnaround: time.Duration(cfg.TurnaroundDurationMin) * time.Minute,
	}, nil
}

// Generate returns session drafts ordered by start time, then group, for every
// calendar day in [StartDate, EndDate] inclusive. Each draft carries the
// event's seat capacity and zero booked seats. A slot whose start would land
// on or past the window cutoff is not emitted. An end date before the start
// date yields an empty set, not an error.
func (g *SlotGenerator) Generate(event *model.Event) ([]*model.Session, error) {
	if event.MaxSlotsPerSession < 1 {
		return nil, apperrors.InvalidConfiguration(
			fmt.Sprintf("max slots per session must be at least 1, got %d", event.MaxSlotsPerSession))
	}

	cadence := g.ride + g.turnaround
	sessions := []*model.Session{}

	firstDay := startOfDay(event.StartDate)
	lastDay := startOfDay(event.EndDate)
	for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		for _, w := range g.windows {
			cutoff := w.cutoff.on(day)
			for start := w.start.on(day); start.Before(cutoff); start = start.Add(cadence) {
				for _, group := range model.Groups {
					sessions = append(sessions, &model.Session{
						EventID:        event.ID,
						StartTime:      start,
						EndTime:        start.Add(g.ride),
						Group:          group,
						AvailableSlots: event.MaxSlotsPerSession,
						BookedSlots:    0,
					})
				}
			}
		}
	}

	return sessions, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
