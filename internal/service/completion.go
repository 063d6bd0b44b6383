package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-bread/internal/calendar"
	"daily-bread/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnauthenticated blocks completion writes that lack a resolved identity.
// The ledger never records under a zero or placeholder user id.
var ErrUnauthenticated = errors.New("no authenticated user")

type CompletionService struct {
	db      *gorm.DB
	content *ContentService
	now     func() time.Time
}

func NewCompletionService(db *gorm.DB, content *ContentService) *CompletionService {
	return &CompletionService{db: db, content: content, now: time.Now}
}

// CompletionFields are the mutable fields of a completion record; a repeat
// completion replaces them wholesale (last write wins).
type CompletionFields struct {
	ElapsedSeconds int
	Reflection     string
	Application    string
}

// Record upserts the completion of a content unit by a user. The write is a
// single atomic upsert keyed by the (user_id, content_unit_id) unique index,
// so two concurrent completions of the same unit can never produce two rows;
// the one arriving last at the store wins.
func (s *CompletionService) Record(ctx context.Context, userID, unitID int, f CompletionFields) (*model.CompletionRecord, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	if _, err := s.content.Unit(ctx, unitID); err != nil {
		return nil, err
	}

	rec := model.CompletionRecord{
		UserID:         userID,
		ContentUnitID:  unitID,
		CompletedAt:    s.now().UTC(),
		ElapsedSeconds: f.ElapsedSeconds,
		Reflection:     f.Reflection,
		Application:    f.Application,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "content_unit_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"completed_at", "elapsed_seconds", "reflection", "application",
		}),
	}).Create(&rec).Error
	if err != nil {
		return nil, fmt.Errorf("upsert completion: %w", err)
	}

	// Re-read by key so the caller sees the stored row regardless of which
	// branch the upsert took.
	var stored model.CompletionRecord
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND content_unit_id = ?", userID, unitID).
		First(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("read completion back: %w", err)
	}
	return &stored, nil
}

// Completed returns the subset of unitIDs the user has a record for. Reads go
// straight to the store, so a session always observes its own writes.
func (s *CompletionService) Completed(ctx context.Context, userID int, unitIDs []int) (map[int]bool, error) {
	done := make(map[int]bool, len(unitIDs))
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	if len(unitIDs) == 0 {
		return done, nil
	}

	var ids []int
	err := s.db.WithContext(ctx).
		Model(&model.CompletionRecord{}).
		Where("user_id = ? AND content_unit_id IN ?", userID, unitIDs).
		Pluck("content_unit_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}

// DayState is the derived completion state of one day. It is computed fresh
// on every call and never persisted.
type DayState struct {
	Day                string `json:"day"`
	DevotionalAssigned bool   `json:"devotional_assigned"`
	DevotionalDone     bool   `json:"devotional_done"`
	ReadingTotal       int    `json:"reading_total"`
	ReadingCompleted   int    `json:"reading_completed"`
	ReadingDone        bool   `json:"reading_done"`
}

// DayState derives whether the user completed a day. Reading completion is
// all-or-nothing: done only when every assigned chapter has a record. A day
// with zero assigned readings is never "done", it is not applicable.
func (s *CompletionService) DayState(ctx context.Context, userID int, day calendar.Day) (*DayState, error) {
	state := &DayState{Day: day.String()}

	content, err := s.content.ForDay(ctx, day)
	if errors.Is(err, ErrNoContent) {
		return state, nil
	}
	if err != nil {
		return nil, err
	}

	done, err := s.Completed(ctx, userID, content.UnitIDs())
	if err != nil {
		return nil, err
	}

	if content.Devotional != nil {
		state.DevotionalAssigned = true
		state.DevotionalDone = done[content.Devotional.ID]
	}
	state.ReadingTotal = len(content.Readings)
	for _, r := range content.Readings {
		if done[r.ID] {
			state.ReadingCompleted++
		}
	}
	state.ReadingDone = state.ReadingTotal > 0 && state.ReadingCompleted == state.ReadingTotal
	return state, nil
}

// WeekMap buckets the user's completions inside the week bounds by weekday
// index. Each completed_at is re-evaluated in the policy zone before
// bucketing; using the stored timestamp's own zone shifts records near
// midnight into the neighboring day.
func (s *CompletionService) WeekMap(ctx context.Context, userID int, bounds calendar.WeekBounds) (map[time.Weekday]bool, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}

	var recs []model.CompletionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND completed_at BETWEEN ? AND ?",
			userID, bounds.Start.UTC(), bounds.End.UTC()).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("query week completions: %w", err)
	}

	days := make(map[time.Weekday]bool)
	for _, r := range recs {
		days[calendar.WeekdayOf(r.CompletedAt)] = true
	}
	return days, nil
}

// CompletedDays lists the distinct policy days on which the user has at
// least one completion, newest first. Used for streak badges.
func (s *CompletionService) CompletedDays(ctx context.Context, userID, limit int) ([]calendar.Day, error) {
	var recs []model.CompletionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("query completion history: %w", err)
	}

	seen := make(map[calendar.Day]bool)
	var days []calendar.Day
	for _, r := range recs {
		d := calendar.DayOf(r.CompletedAt)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	return days, nil
}

// Count returns the user's total number of completion records.
func (s *CompletionService) Count(ctx context.Context, userID int) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.CompletionRecord{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return n, nil
}
