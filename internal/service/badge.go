package service

import (
	"context"
	"fmt"
	"time"

	"daily-bread/internal/calendar"
	"daily-bread/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BadgeDef describes one badge in the catalog. Total counts completions of
// any unit; Streak counts consecutive policy days ending today (or
// yesterday) with at least one completion.
type BadgeDef struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Total       int    `json:"total,omitempty"`
	Streak      int    `json:"streak,omitempty"`
}

var BadgeCatalog = []BadgeDef{
	{Code: "first-step", Name: "First Step", Description: "Complete your first devotional or chapter.", Total: 1},
	{Code: "steady-10", Name: "Steady", Description: "Complete 10 content units.", Total: 10},
	{Code: "persistent-50", Name: "Persistent", Description: "Complete 50 content units.", Total: 50},
	{Code: "devoted-200", Name: "Devoted", Description: "Complete 200 content units.", Total: 200},
	{Code: "streak-3", Name: "Warming Up", Description: "Complete content 3 days in a row.", Streak: 3},
	{Code: "streak-7", Name: "Full Week", Description: "Complete content 7 days in a row.", Streak: 7},
	{Code: "streak-30", Name: "Habit Formed", Description: "Complete content 30 days in a row.", Streak: 30},
}

type BadgeService struct {
	db          *gorm.DB
	completions *CompletionService
	hub         *Hub
	resolver    *calendar.Resolver
}

func NewBadgeService(db *gorm.DB, completions *CompletionService, hub *Hub, resolver *calendar.Resolver) *BadgeService {
	return &BadgeService{db: db, completions: completions, hub: hub, resolver: resolver}
}

// EvaluateAfterCompletion checks the catalog against the user's ledger and
// awards any newly earned badges. Awards are insert-once: re-evaluating
// never duplicates and never revokes.
func (s *BadgeService) EvaluateAfterCompletion(ctx context.Context, userID int) ([]model.UserBadge, error) {
	total, err := s.completions.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	streak, err := s.currentStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	var awarded []model.UserBadge
	for _, def := range BadgeCatalog {
		earned := (def.Total > 0 && total >= int64(def.Total)) ||
			(def.Streak > 0 && streak >= def.Streak)
		if !earned {
			continue
		}

		ub := model.UserBadge{UserID: userID, BadgeCode: def.Code, AwardedAt: time.Now().UTC()}
		res := s.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_code"}},
				DoNothing: true,
			}).
			Create(&ub)
		if res.Error != nil {
			return nil, fmt.Errorf("award badge %s: %w", def.Code, res.Error)
		}
		if res.RowsAffected > 0 {
			awarded = append(awarded, ub)
			if s.hub != nil {
				s.hub.Publish(userID, Event{Type: EventBadge, Payload: def})
			}
		}
	}
	return awarded, nil
}

// ListForUser returns the user's earned badges.
func (s *BadgeService) ListForUser(ctx context.Context, userID int) ([]model.UserBadge, error) {
	var badges []model.UserBadge
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("awarded_at").
		Find(&badges).Error
	if err != nil {
		return nil, fmt.Errorf("query badges: %w", err)
	}
	if badges == nil {
		badges = []model.UserBadge{}
	}
	return badges, nil
}

// currentStreak walks back from today over the user's distinct completion
// days. A streak survives a not-yet-completed today but breaks on any
// earlier gap.
func (s *BadgeService) currentStreak(ctx context.Context, userID int) (int, error) {
	days, err := s.completions.CompletedDays(ctx, userID, 2000)
	if err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}

	have := make(map[calendar.Day]bool, len(days))
	for _, d := range days {
		have[d] = true
	}

	cursor := s.resolver.Today()
	if !have[cursor] {
		cursor = calendar.DayOf(cursor.Start().AddDate(0, 0, -1))
	}

	streak := 0
	for have[cursor] {
		streak++
		cursor = calendar.DayOf(cursor.Start().AddDate(0, 0, -1))
	}
	return streak, nil
}
