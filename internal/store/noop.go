package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
)

// Noop is the fallback wiring when no database_url is configured: the
// server still runs, lifecycle and notification effects are only logged.
type Noop struct{}

func (Noop) MarkSessionStart(ctx context.Context, room domain.RoomID) error {
	log.Info().Str("module", "store.noop").Str("room", string(room)).Msg("session start (not persisted)")
	return nil
}

func (Noop) MarkSessionEnd(ctx context.Context, room domain.RoomID) error {
	log.Info().Str("module", "store.noop").Str("room", string(room)).Msg("session end (not persisted)")
	return nil
}

func (Noop) CreateNotification(ctx context.Context, n domain.Notification) error {
	log.Info().Str("module", "store.noop").Str("recipient", string(n.RecipientID)).Str("type", n.Type).Msg("notification (not persisted)")
	return nil
}

func (Noop) Persist(ctx context.Context, sender, receiver domain.UserID, content string) (domain.MessageRecord, error) {
	return domain.MessageRecord{
		ID:         uuid.NewString(),
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
		CreatedAt:  time.Now(),
	}, nil
}
