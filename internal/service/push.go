package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"daily-bread/internal/logger"
	"daily-bread/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushService keeps the device-token registry and talks to the push gateway.
type PushService struct {
	db         *gorm.DB
	gatewayURL string
	client     *http.Client
}

func NewPushService(db *gorm.DB, gatewayURL string) *PushService {
	return &PushService{db: db, gatewayURL: gatewayURL, client: &http.Client{Timeout: 10 * time.Second}}
}

// RegisterDevice upserts a token. A token moving between accounts (shared
// device) re-binds to the latest user.
func (s *PushService) RegisterDevice(ctx context.Context, userID int, token, platform string) error {
	if userID <= 0 {
		return ErrUnauthenticated
	}
	d := model.DeviceToken{
		UserID:    userID,
		Token:     token,
		Platform:  platform,
		CreatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform"}),
		}).
		Create(&d).Error
	if err != nil {
		return fmt.Errorf("upsert device token: %w", err)
	}
	return nil
}

// NotifyUser sends a push to every registered device of the user. Gateway
// failures are logged per device; the first error is returned after all
// devices were attempted.
func (s *PushService) NotifyUser(ctx context.Context, userID int, title, body string) error {
	if s.gatewayURL == "" {
		return nil
	}

	var devices []model.DeviceToken
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&devices).Error; err != nil {
		return fmt.Errorf("query devices: %w", err)
	}

	var firstErr error
	for _, d := range devices {
		if err := s.send(ctx, d.Token, title, body); err != nil {
			logger.Warn("push send failed", "user", userID, "platform", d.Platform, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *PushService) send(ctx context.Context, token, title, body string) error {
	payload, _ := json.Marshal(map[string]string{
		"to":    token,
		"title": title,
		"body":  body,
	})
	req, err := http.NewRequestWithContext(ctx, "POST", s.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("push gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("push gateway status %d: %s", resp.StatusCode, data)
	}
	return nil
}
