package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"daily-bread/internal/logger"
	"daily-bread/internal/model"

	"gorm.io/gorm"
)

var ErrNotRecipient = errors.New("not the message recipient")

// MessageService handles pastor-disciple direct messages. New messages are
// pushed to the recipient's event stream and devices; both are fire and
// forget and never fail the send.
type MessageService struct {
	db   *gorm.DB
	hub  *Hub
	push *PushService
}

func NewMessageService(db *gorm.DB, hub *Hub, push *PushService) *MessageService {
	return &MessageService{db: db, hub: hub, push: push}
}

func (s *MessageService) Send(ctx context.Context, fromID, toID int, body string) (*model.Message, error) {
	if fromID <= 0 {
		return nil, ErrUnauthenticated
	}

	var recipient model.User
	if err := s.db.WithContext(ctx).First(&recipient, toID).Error; err != nil {
		return nil, fmt.Errorf("recipient %d: %w", toID, err)
	}

	msg := model.Message{
		FromUserID: fromID,
		ToUserID:   toID,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	if s.hub != nil {
		s.hub.Publish(toID, Event{Type: EventMessage, Payload: msg})
	}
	if s.push != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.push.NotifyUser(ctx, toID, "New message", body); err != nil {
				logger.Warn("push notify failed", "to", toID, "err", err)
			}
		}()
	}
	return &msg, nil
}

// Conversation lists messages between the user and a peer, oldest first.
func (s *MessageService) Conversation(ctx context.Context, userID, peerID, limit int) ([]model.Message, error) {
	if userID <= 0 {
		return nil, ErrUnauthenticated
	}
	if limit <= 0 {
		limit = 100
	}

	var msgs []model.Message
	err := s.db.WithContext(ctx).
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userID, peerID, peerID, userID).
		Order("created_at").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, fmt.Errorf("query conversation: %w", err)
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return msgs, nil
}

// MarkRead stamps read_at on a message. Only the recipient may mark a
// message read; marking twice keeps the first timestamp.
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID int) error {
	var msg model.Message
	if err := s.db.WithContext(ctx).First(&msg, messageID).Error; err != nil {
		return fmt.Errorf("message %d: %w", messageID, err)
	}
	if msg.ToUserID != userID {
		return ErrNotRecipient
	}
	if msg.ReadAt != nil {
		return nil
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).Model(&msg).Update("read_at", &now).Error
}
