package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/core"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/metrics"
)

const MaxContentLen = 2000

var (
	ErrEmptyContent   = errors.New("empty message content")
	ErrContentTooLong = errors.New("message content too long")
)

// Disconnector lets chat hand chronically slow members to the supervisor.
type Disconnector interface {
	Disconnect(id domain.ConnID) bool
}

// Chat broadcasts messages within a room, persists them, and fires the
// notification collaborator for the intended recipient. The three effects
// have independent failure domains: a failed write or notification never
// makes the broadcast count as undelivered.
type Chat struct {
	rooms    *Rooms
	msgs     core.MessageStore
	notifier core.Notifier
	metrics  *metrics.Metrics
	policy   Policy
	kicker   Disconnector
	timeout  time.Duration
}

func NewChat(rooms *Rooms, msgs core.MessageStore, notifier core.Notifier, m *metrics.Metrics, policy Policy, kicker Disconnector, timeout time.Duration) *Chat {
	return &Chat{
		rooms:    rooms,
		msgs:     msgs,
		notifier: notifier,
		metrics:  m,
		policy:   policy,
		kicker:   kicker,
		timeout:  timeout,
	}
}

type chatFrame struct {
	Type     string        `json:"type"`
	Room     domain.RoomID `json:"room"`
	Sender   domain.UserID `json:"sender"`
	Receiver domain.UserID `json:"receiver"`
	Content  string        `json:"content"`
}

// Send validates, broadcasts to the room, then dispatches the notification
// asynchronously. Validation failures are the only errors the caller sees.
func (c *Chat) Send(room domain.RoomID, senderConn domain.ConnID, sender, receiver domain.UserID, content string) (PublishResult, error) {
	if content == "" {
		return PublishResult{}, ErrEmptyContent
	}
	if len(content) > MaxContentLen {
		return PublishResult{}, ErrContentTooLong
	}
	if err := room.Validate(); err != nil {
		return PublishResult{}, err
	}
	if err := sender.Validate(); err != nil {
		return PublishResult{}, err
	}
	if err := receiver.Validate(); err != nil {
		return PublishResult{}, err
	}

	frame, err := json.Marshal(chatFrame{
		Type:     "receiveMessage",
		Room:     room,
		Sender:   sender,
		Receiver: receiver,
		Content:  content,
	})
	if err != nil {
		return PublishResult{}, err
	}

	res := c.rooms.Broadcast(room, senderConn, frame)
	for _, slow := range res.Dropped {
		c.metrics.Inc(metrics.ChatDropped)
		if c.policy != nil && c.policy.OnBackpressure(room, slow) == KickMember && c.kicker != nil {
			c.kicker.Disconnect(slow)
		}
	}

	go c.persist(sender, receiver, content)
	go c.notify(room, sender, receiver)

	return res, nil
}

// persist writes the message record off the broadcast path. Store latency
// or failure is invisible to room members.
func (c *Chat) persist(sender, receiver domain.UserID, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if _, err := c.msgs.Persist(ctx, sender, receiver, content); err != nil {
		c.metrics.Inc(metrics.MsgPersistFail)
		log.Error().Err(err).Str("module", "app.chat").Str("sender", string(sender)).Str("receiver", string(receiver)).Msg("message persist failed")
	}
}

// notify runs in its own goroutine with its own deadline; its failures
// feed observability and nothing else.
func (c *Chat) notify(room domain.RoomID, sender, receiver domain.UserID) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	n := domain.Notification{
		RecipientID: receiver,
		Type:        "chat_message",
		Message:     fmt.Sprintf("New message from %s", sender),
		Link:        fmt.Sprintf("/chat/%s", room),
	}
	if err := c.notifier.CreateNotification(ctx, n); err != nil {
		c.metrics.Inc(metrics.NotifyFail)
		log.Error().Err(err).Str("module", "app.chat").Str("room", string(room)).Str("receiver", string(receiver)).Msg("notification dispatch failed")
	}
}
