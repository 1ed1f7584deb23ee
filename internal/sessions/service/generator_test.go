package service

import (
	"testing"
	"time"

	"demoride/pkg/config"
	apperrors "demoride/pkg/errors"
	"demoride/pkg/model"
)

func testSchedulingConfig() *config.Config {
	return &config.Config{
		MorningStart:          config.DefaultMorningStart,
		MorningCutoff:         config.DefaultMorningCutoff,
		AfternoonStart:        config.DefaultAfternoonStart,
		AfternoonCutoff:       config.DefaultAfternoonCutoff,
		RideDurationMin:       config.DefaultRideDurationMin,
		TurnaroundDurationMin: config.DefaultTurnaroundDurationMin,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateTwoDayEvent(t *testing.T) {
	gen, err := NewSlotGenerator(testSchedulingConfig())
	if err != nil {
		t.Fatalf("NewSlotGenerator() error = %v", err)
	}

	event := &model.Event{
		ID:                 "65f1a2b3c4d5e6f7a8b9c0d1",
		StartDate:          day(2026, time.March, 14),
		EndDate:            day(2026, time.March, 15),
		MaxSlotsPerSession: 8,
	}

	sessions, err := gen.Generate(event)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// 7 start times per day (3 morning, 4 afternoon), 2 groups, 2 days.
	if len(sessions) != 28 {
		t.Fatalf("Generate() produced %d sessions, want 28", len(sessions))
	}

	startsPerDay := map[string]map[time.Time]bool{}
	for _, s := range sessions {
		if s.EventID != event.ID {
			t.Errorf("session event_id = %q, want %q", s.EventID, event.ID)
		}
		if s.AvailableSlots != 8 {
			t.Errorf("session at %v available_slots = %d, want 8", s.StartTime, s.AvailableSlots)
		}
		if s.BookedSlots != 0 {
			t.Errorf("session at %v booked_slots = %d, want 0", s.StartTime, s.BookedSlots)
		}
		if got := s.EndTime.Sub(s.StartTime); got != 45*time.Minute {
			t.Errorf("session at %v duration = %v, want 45m", s.StartTime, got)
		}

		hour := s.StartTime.Hour()
		if hour >= 12 && hour < 14 {
			t.Errorf("session starts inside the midday gap: %v", s.StartTime)
		}
		if hour >= 18 || hour < 9 {
			t.Errorf("session starts outside riding windows: %v", s.StartTime)
		}

		key := s.StartTime.Format("2006-01-02")
		if startsPerDay[key] == nil {
			startsPerDay[key] = map[time.Time]bool{}
		}
		startsPerDay[key][s.StartTime] = true
	}

	if len(startsPerDay) != 2 {
		t.Fatalf("sessions span %d days, want 2", len(startsPerDay))
	}
	for date, starts := range startsPerDay {
		if len(starts) != 7 {
			t.Errorf("day %s has %d distinct start times, want 7", date, len(starts))
		}
	}
}

func TestGenerateGroupPairing(t *testing.T) {
	gen, err := NewSlotGenerator(testSchedulingConfig())
	if err != nil {
		t.Fatalf("NewSlotGenerator() error = %v", err)
	}

	event := &model.Event{
		StartDate:          day(2026, time.March, 14),
		EndDate:            day(2026, time.March, 14),
		MaxSlotsPerSession: 4,
	}

	sessions, err := gen.Generate(event)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	groupsPerStart := map[time.Time]map[model.Group]int{}
	for _, s := range sessions {
		if groupsPerStart[s.StartTime] == nil {
			groupsPerStart[s.StartTime] = map[model.Group]int{}
		}
		groupsPerStart[s.StartTime][s.Group]++
	}

	for start, groups := range groupsPerStart {
		if groups[model.Group1] != 1 || groups[model.Group2] != 1 {
			t.Errorf("start %v has group counts %v, want exactly one session per group", start, groups)
		}
	}
}

func TestGenerateCutoffIsHalfOpen(t *testing.T) {
	cfg := testSchedulingConfig()
	// With a 30-minute cadence the last morning start is 11:30; a slot at
	// exactly 12:00 must not appear.
	cfg.RideDurationMin = 20
	cfg.TurnaroundDurationMin = 10

	gen, err := NewSlotGenerator(cfg)
	if err != nil {
		t.Fatalf("NewSlotGenerator() error = %v", err)
	}

	sessions, err := gen.Generate(&model.Event{
		StartDate:          day(2026, time.June, 1),
		EndDate:            day(2026, time.June, 1),
		MaxSlotsPerSession: 2,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	for _, s := range sessions {
		if s.StartTime.Hour() == 12 || s.StartTime.Hour() == 18 {
			t.Errorf("session generated at cutoff: %v", s.StartTime)
		}
	}
}

func TestGenerateEmptyRange(t *testing.T) {
	gen, err := NewSlotGenerator(testSchedulingConfig())
	if err != nil {
		t.Fatalf("NewSlotGenerator() error = %v", err)
	}

	sessions, err := gen.Generate(&model.Event{
		StartDate:          day(2026, time.March, 15),
		EndDate:            day(2026, time.March, 14),
		MaxSlotsPerSession: 8,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("Generate() on inverted range produced %d sessions, want 0", len(sessions))
	}
}

func TestGenerateInvalidCapacity(t *testing.T) {
	gen, err := NewSlotGenerator(testSchedulingConfig())
	if err != nil {
		t.Fatalf("NewSlotGenerator() error = %v", err)
	}

	_, err = gen.Generate(&model.Event{
		StartDate:          day(2026, time.March, 14),
		EndDate:            day(2026, time.March, 15),
		MaxSlotsPerSession: 0,
	})
	if !apperrors.HasCode(err, apperrors.CodeInvalidConfiguration) {
		t.Errorf("Generate() error = %v, want InvalidConfiguration", err)
	}
}

func TestGenerateDeterminism(t *testing.T) {
	gen, err := NewSlotGenerator(testSchedulingConfig())
	if err != nil {
		t.Fatalf("NewSlotGenerator() error = %v", err)
	}

	event := &model.Event{
		StartDate:          day(2026, time.March, 14),
		EndDate:            day(2026, time.March, 15),
		MaxSlotsPerSession: 8,
	}

	first, _ := gen.Generate(event)
	second, _ := gen.Generate(event)

	if len(first) != len(second) {
		t.Fatalf("runs disagree on count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].StartTime.Equal(second[i].StartTime) || first[i].Group != second[i].Group {
			t.Errorf("draft %d differs between runs: %v/%s vs %v/%s",
				i, first[i].StartTime, first[i].Group, second[i].StartTime, second[i].Group)
		}
	}
}

func TestNewSlotGeneratorRejectsBadWindows(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"malformed start", func(c *config.Config) { c.MorningStart = "nine" }},
		{"hour out of range", func(c *config.Config) { c.AfternoonCutoff = "25:00" }},
		{"zero ride duration", func(c *config.Config) { c.RideDurationMin = 0 }},
		{"negative turnaround", func(c *config.Config) { c.TurnaroundDurationMin = -5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testSchedulingConfig()
			tt.mutate(cfg)
			if _, err := NewSlotGenerator(cfg); !apperrors.HasCode(err, apperrors.CodeInvalidConfiguration) {
				t.Errorf("NewSlotGenerator() error = %v, want InvalidConfiguration", err)
			}
		})
	}
}
