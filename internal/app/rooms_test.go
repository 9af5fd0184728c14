package app

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/harshadmt/Mentor-Mate-sub000/internal/domain"
)

func TestRoomsJoinCounts(t *testing.T) {
	m := NewRooms(newFakeResolver())

	res, err := m.Join("r1", "c1", domain.KindVideo)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !res.First {
		t.Fatal("first join: First got false")
	}
	if len(res.Members) != 0 {
		t.Fatalf("first join members: got %v want empty", res.Members)
	}

	res, err = m.Join("r1", "c2", domain.KindVideo)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.First {
		t.Fatal("second join: First got true")
	}
	if len(res.Members) != 1 || res.Members[0] != "c1" {
		t.Fatalf("second join members: got %v want [c1]", res.Members)
	}
	if got := len(m.Snapshot("r1")); got != 2 {
		t.Fatalf("member count: got %d want 2", got)
	}
}

func TestRoomsKindMismatch(t *testing.T) {
	m := NewRooms(newFakeResolver())

	if _, err := m.Join("r1", "c1", domain.KindChat); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := m.Join("r1", "c2", domain.KindVideo); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("Join with wrong kind: got %v want ErrKindMismatch", err)
	}
	// The rejected join must not have touched membership.
	if got := len(m.Snapshot("r1")); got != 1 {
		t.Fatalf("member count after rejection: got %d want 1", got)
	}
}

func TestRoomsLeave(t *testing.T) {
	m := NewRooms(newFakeResolver())
	m.Join("r1", "c1", domain.KindChat)
	m.Join("r1", "c2", domain.KindChat)

	res := m.Leave("r1", "c1")
	if res.Deleted {
		t.Fatal("Leave with members remaining: Deleted got true")
	}
	if len(res.Remaining) != 1 || res.Remaining[0] != "c2" {
		t.Fatalf("Remaining: got %v want [c2]", res.Remaining)
	}

	// Removing a non-member is a no-op returning unchanged membership.
	res = m.Leave("r1", "stranger")
	if len(res.Remaining) != 1 || res.Deleted {
		t.Fatalf("non-member Leave: got %+v", res)
	}

	res = m.Leave("r1", "c2")
	if !res.Deleted {
		t.Fatal("last Leave: Deleted got false")
	}
	if _, ok := m.Kind("r1"); ok {
		t.Fatal("Kind after delete: room still exists")
	}

	// Leaving a room that no longer exists is a no-op too.
	if res := m.Leave("r1", "c2"); res.Deleted || len(res.Remaining) != 0 {
		t.Fatalf("Leave on deleted room: got %+v", res)
	}
}

func TestRoomsConcurrentJoinSingleFirst(t *testing.T) {
	m := NewRooms(newFakeResolver())

	const n = 32
	var wg sync.WaitGroup
	firsts := make(chan bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := m.Join("r1", domain.ConnID(fmt.Sprintf("c%d", i)), domain.KindVideo)
			if err != nil {
				t.Errorf("Join: %v", err)
				return
			}
			firsts <- res.First
		}(i)
	}
	wg.Wait()
	close(firsts)

	count := 0
	for f := range firsts {
		if f {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("First observed by %d joiners, want exactly 1", count)
	}
	if got := len(m.Snapshot("r1")); got != n {
		t.Fatalf("member count: got %d want %d", got, n)
	}
}

func TestRoomsBroadcastBestEffort(t *testing.T) {
	conns := newFakeResolver()
	healthy := &fakeConn{}
	slow := &fakeConn{failSend: true}
	conns.add("c1", &fakeConn{})
	conns.add("c2", healthy)
	conns.add("c3", slow)

	m := NewRooms(conns)
	m.Join("r1", "c1", domain.KindChat)
	m.Join("r1", "c2", domain.KindChat)
	m.Join("r1", "c3", domain.KindChat)
	// c4 is a member whose connection silently vanished from the registry.
	m.Join("r1", "c4", domain.KindChat)

	res := m.Broadcast("r1", "c1", []byte(`{"type":"x"}`))
	if res.SentTo != 1 {
		t.Fatalf("SentTo: got %d want 1", res.SentTo)
	}
	if len(res.Dropped) != 2 {
		t.Fatalf("Dropped: got %v want 2 entries", res.Dropped)
	}
	if frames := healthy.Frames(); len(frames) != 1 || string(frames[0]) != `{"type":"x"}` {
		t.Fatalf("healthy member frames: got %q", frames)
	}
}

func TestRoomsList(t *testing.T) {
	m := NewRooms(newFakeResolver())
	m.Join("lobby", "c1", domain.KindChat)
	m.Join("r1", "c1", domain.KindVideo)
	m.Join("r1", "c2", domain.KindVideo)

	infos := m.List()
	if len(infos) != 2 {
		t.Fatalf("List: got %d rooms want 2", len(infos))
	}
	byID := make(map[domain.RoomID]RoomInfo)
	for _, i := range infos {
		byID[i.ID] = i
	}
	if byID["lobby"].Kind != "chat" || byID["lobby"].MemberCount != 1 {
		t.Fatalf("lobby info: got %+v", byID["lobby"])
	}
	if byID["r1"].Kind != "video" || byID["r1"].MemberCount != 2 {
		t.Fatalf("r1 info: got %+v", byID["r1"])
	}
}
