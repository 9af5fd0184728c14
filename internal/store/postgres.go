// Package store implements the persistence collaborators consumed by the
// realtime core: the mentoring-session store, the notification service and
// the chat message store. All three write through a single pgx pool.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
)

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info().Str("module", "store").Msg("connected to database")
	return &Postgres{pool: pool}, nil
}

func (db *Postgres) Close() {
	db.pool.Close()
}

// MarkSessionStart upserts the session row as active. The guard on status
// keeps a completed session from being resurrected by a late start.
func (db *Postgres) MarkSessionStart(ctx context.Context, room domain.RoomID) error {
	query := `
		INSERT INTO mentoring_sessions (room_id, status, started_at)
		VALUES ($1, 'active', NOW())
		ON CONFLICT (room_id) DO UPDATE
		SET status = 'active', started_at = COALESCE(mentoring_sessions.started_at, NOW())
		WHERE mentoring_sessions.status <> 'completed'`

	if _, err := db.pool.Exec(ctx, query, string(room)); err != nil {
		return fmt.Errorf("failed to mark session start: %w", err)
	}
	return nil
}

func (db *Postgres) MarkSessionEnd(ctx context.Context, room domain.RoomID) error {
	query := `
		UPDATE mentoring_sessions
		SET status = 'completed', ended_at = NOW()
		WHERE room_id = $1 AND status = 'active'`

	if _, err := db.pool.Exec(ctx, query, string(room)); err != nil {
		return fmt.Errorf("failed to mark session end: %w", err)
	}
	return nil
}

func (db *Postgres) CreateNotification(ctx context.Context, n domain.Notification) error {
	query := `
		INSERT INTO notifications (recipient_id, type, message, link, created_at)
		VALUES ($1, $2, $3, $4, NOW())`

	if _, err := db.pool.Exec(ctx, query, string(n.RecipientID), n.Type, n.Message, n.Link); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (db *Postgres) Persist(ctx context.Context, sender, receiver domain.UserID, content string) (domain.MessageRecord, error) {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at`

	rec := domain.MessageRecord{SenderID: sender, ReceiverID: receiver, Content: content}
	err := db.pool.QueryRow(ctx, query, string(sender), string(receiver), content).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return domain.MessageRecord{}, fmt.Errorf("failed to persist message: %w", err)
	}
	return rec, nil
}
