package app

import (
	"context"
	"errors"
	"sync"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/core"
	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
)

// fakeConn records frames and can be told to refuse sends, standing in
// for a member whose buffer is full.
type fakeConn struct {
	mu       sync.Mutex
	frames   [][]byte
	failSend bool
	closed   bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend {
		return errors.New("buffer full")
	}
	cp := make([]byte, len(fr))
	copy(cp, fr)
	f.frames = append(f.frames, cp)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeConn) Frames() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.frames))
	copy(out, f.frames)
	return out
}

func (f *fakeConn) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeResolver struct {
	mu sync.Mutex
	m  map[domain.ConnID]core.SignalConnection
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{m: make(map[domain.ConnID]core.SignalConnection)}
}

func (r *fakeResolver) add(id domain.ConnID, c core.SignalConnection) {
	r.mu.Lock()
	r.m[id] = c
	r.mu.Unlock()
}

func (r *fakeResolver) Lookup(id domain.ConnID) (core.SignalConnection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.m[id]
	return c, ok
}

// fakeStore counts lifecycle persistence calls and can fail on demand.
type fakeStore struct {
	mu     sync.Mutex
	starts map[domain.RoomID]int
	ends   map[domain.RoomID]int
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		starts: make(map[domain.RoomID]int),
		ends:   make(map[domain.RoomID]int),
	}
}

func (s *fakeStore) MarkSessionStart(ctx context.Context, room domain.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts[room]++
	return s.err
}

func (s *fakeStore) MarkSessionEnd(ctx context.Context, room domain.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ends[room]++
	return s.err
}

func (s *fakeStore) startCount(room domain.RoomID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts[room]
}

func (s *fakeStore) endCount(room domain.RoomID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ends[room]
}

// fakeMsgStore records persisted chat messages and can fail on demand.
type fakeMsgStore struct {
	mu     sync.Mutex
	saved  []domain.MessageRecord
	err    error
	called chan struct{}
}

func newFakeMsgStore(err error) *fakeMsgStore {
	return &fakeMsgStore{err: err, called: make(chan struct{}, 16)}
}

func (s *fakeMsgStore) Persist(ctx context.Context, sender, receiver domain.UserID, content string) (domain.MessageRecord, error) {
	rec := domain.MessageRecord{SenderID: sender, ReceiverID: receiver, Content: content}
	s.mu.Lock()
	s.saved = append(s.saved, rec)
	s.mu.Unlock()
	s.called <- struct{}{}
	return rec, s.err
}

func (s *fakeMsgStore) records() []domain.MessageRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.MessageRecord, len(s.saved))
	copy(out, s.saved)
	return out
}

type fakeNotifier struct {
	mu     sync.Mutex
	sent   []domain.Notification
	err    error
	called chan struct{}
}

func newFakeNotifier(err error) *fakeNotifier {
	return &fakeNotifier{err: err, called: make(chan struct{}, 16)}
}

func (n *fakeNotifier) CreateNotification(ctx context.Context, notif domain.Notification) error {
	n.mu.Lock()
	n.sent = append(n.sent, notif)
	n.mu.Unlock()
	n.called <- struct{}{}
	return n.err
}

func (n *fakeNotifier) notifications() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.Notification, len(n.sent))
	copy(out, n.sent)
	return out
}
