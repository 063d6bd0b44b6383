package service

import (
	"context"
	"errors"
	"fmt"

	"daily-bread/internal/calendar"
	"daily-bread/internal/model"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ErrNoContent means nothing is assigned to the requested day. This is an
// expected condition (content may not be authored yet), surfaced to the
// client as an empty state, not a failure.
var ErrNoContent = errors.New("no content assigned")

type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService { return &ContentService{db: db} }

// DayContent is the content assigned to one policy day. Readings are ordered
// ascending by chapter number; the UI and completion semantics depend on
// that order.
type DayContent struct {
	Devotional *model.ContentUnit  `json:"devotional,omitempty"`
	Readings   []model.ContentUnit `json:"readings"`
}

// UnitIDs lists the ids of every unit assigned to the day, devotional first.
func (dc *DayContent) UnitIDs() []int {
	ids := make([]int, 0, len(dc.Readings)+1)
	if dc.Devotional != nil {
		ids = append(ids, dc.Devotional.ID)
	}
	for _, r := range dc.Readings {
		ids = append(ids, r.ID)
	}
	return ids
}

// ForDay fetches the devotional and reading chapters assigned to a day.
// Lookups are pure reads with no side effects, so callers may retry freely
// on transient store errors.
func (s *ContentService) ForDay(ctx context.Context, day calendar.Day) (*DayContent, error) {
	var (
		devotional *model.ContentUnit
		readings   []model.ContentUnit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var u model.ContentUnit
		err := s.db.WithContext(gctx).
			Where("kind = ? AND assigned_date = ?", model.KindDevotional, day.String()).
			First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("query devotional: %w", err)
		}
		devotional = &u
		return nil
	})
	g.Go(func() error {
		err := s.db.WithContext(gctx).
			Where("kind = ? AND assigned_date = ?", model.KindChapter, day.String()).
			Order("chapter").
			Find(&readings).Error
		if err != nil {
			return fmt.Errorf("query readings: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if devotional == nil && len(readings) == 0 {
		return nil, ErrNoContent
	}
	if readings == nil {
		readings = []model.ContentUnit{}
	}
	return &DayContent{Devotional: devotional, Readings: readings}, nil
}

// Unit fetches a single content unit by id.
func (s *ContentService) Unit(ctx context.Context, id int) (*model.ContentUnit, error) {
	var u model.ContentUnit
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoContent
	}
	if err != nil {
		return nil, fmt.Errorf("query unit %d: %w", id, err)
	}
	return &u, nil
}
