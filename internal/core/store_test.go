package core

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Lobby/internal/domain"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	s := NewStore(opts)
	t.Cleanup(s.Shutdown)
	return s
}

// sequence returns codes in order, then repeats the last one.
func sequence(codes ...int) func() int {
	var mu sync.Mutex
	i := 0
	return func() int {
		mu.Lock()
		defer mu.Unlock()
		c := codes[min(i, len(codes)-1)]
		i++
		return c
	}
}

func TestCreateRoom(t *testing.T) {
	s := newTestStore(t, Options{})

	code, err := s.CreateRoom("p1", "alice")
	require.NoError(t, err)
	require.NoError(t, domain.ValidateRoomCode(string(code)))

	room, ok := s.Room(code)
	require.True(t, ok)
	require.Equal(t, domain.PlayerID("p1"), room.HostID)
	require.Len(t, room.Players, 1)
	require.True(t, room.Players[0].IsActive)
	require.Empty(t, room.Messages)
	require.NotNil(t, room.Messages)

	p, ok := s.Player("p1")
	require.True(t, ok)
	require.Equal(t, code, p.RoomCode)
	require.Equal(t, 1, s.PendingTimers())
}

func TestCreateRoomCodesUnique(t *testing.T) {
	s := newTestStore(t, Options{})

	seen := make(map[domain.RoomCode]bool)
	for i := range 200 {
		code, err := s.CreateRoom(domain.PlayerID(fmt.Sprintf("p%d", i)), "player")
		require.NoError(t, err)
		require.NoError(t, domain.ValidateRoomCode(string(code)))
		require.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestCreateRoomRetriesOnCollision(t *testing.T) {
	s := newTestStore(t, Options{NextCode: sequence(11111, 11111, 11111, 22222)})

	first, err := s.CreateRoom("p1", "alice")
	require.NoError(t, err)
	require.Equal(t, domain.RoomCode("11111"), first)

	second, err := s.CreateRoom("p2", "bob")
	require.NoError(t, err)
	require.Equal(t, domain.RoomCode("22222"), second)
}

func TestJoinRoom(t *testing.T) {
	s := newTestStore(t, Options{})
	code, err := s.CreateRoom("host", "alice")
	require.NoError(t, err)

	room, err := s.JoinRoom("guest", "bob", code)
	require.NoError(t, err)
	require.Equal(t, code, room.Code)
	require.Len(t, room.Players, 2)
	require.Equal(t, domain.PlayerID("host"), room.Players[0].ID)
	require.Equal(t, domain.PlayerID("guest"), room.Players[1].ID)
	require.Len(t, room.Messages, 1)
	require.Equal(t, "bob entered the room", room.Messages[0].Body)
	require.Equal(t, domain.MessageSystem, room.Messages[0].Type)
}

func TestJoinRoomNotFoundDoesNotMutate(t *testing.T) {
	s := newTestStore(t, Options{})

	_, err := s.JoinRoom("guest", "bob", "99999")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, ok := s.Player("guest")
	require.False(t, ok)
	rooms, players := s.Stats()
	require.Zero(t, rooms)
	require.Zero(t, players)
	require.Zero(t, s.PendingTimers())
}

func TestJoinRoomTwiceKeepsSingleMembership(t *testing.T) {
	s := newTestStore(t, Options{})
	code, _ := s.CreateRoom("host", "alice")

	_, err := s.JoinRoom("guest", "bob", code)
	require.NoError(t, err)
	room, err := s.JoinRoom("guest", "bobby", code)
	require.NoError(t, err)

	require.Len(t, room.Players, 2)
	require.Equal(t, "bobby", room.Players[1].Nickname)
	require.Len(t, room.Messages, 1)
}

func TestJoinOtherRoomDetachesFromPrevious(t *testing.T) {
	s := newTestStore(t, Options{NextCode: sequence(11111, 22222)})
	first, _ := s.CreateRoom("h1", "alice")
	second, _ := s.CreateRoom("h2", "carol")
	_, err := s.JoinRoom("guest", "bob", first)
	require.NoError(t, err)

	_, err = s.JoinRoom("guest", "bob", second)
	require.NoError(t, err)

	require.Len(t, s.PlayersList(first), 1)
	require.Len(t, s.PlayersList(second), 2)
	p, _ := s.Player("guest")
	require.Equal(t, second, p.RoomCode)
}

func TestLeaveRoomHostClosesRoom(t *testing.T) {
	s := newTestStore(t, Options{})
	code, _ := s.CreateRoom("host", "alice")
	_, _ = s.JoinRoom("guest", "bob", code)

	res := s.LeaveRoom("host")
	require.True(t, res.Left)
	require.True(t, res.WasHost)
	require.True(t, res.Closed)
	require.Equal(t, []domain.PlayerID{"guest"}, res.Remaining)

	_, ok := s.Room(code)
	require.False(t, ok)
	require.Empty(t, s.AvailableRooms())
	require.Zero(t, s.PendingTimers())

	guest, ok := s.Player("guest")
	require.True(t, ok)
	require.Empty(t, guest.RoomCode)
}

func TestLeaveRoomLastMemberClosesRoom(t *testing.T) {
	s := newTestStore(t, Options{})
	code, _ := s.CreateRoom("host", "alice")
	_, _ = s.JoinRoom("guest", "bob", code)

	// Host drops out of the member list without a host leave event.
	s.mu.Lock()
	s.rooms[code].RemoveMember("host")
	s.mu.Unlock()

	res := s.LeaveRoom("guest")
	require.True(t, res.Closed)
	require.False(t, res.WasHost)
	_, ok := s.Room(code)
	require.False(t, ok)
}

func TestLeaveRoomNonHostKeepsRoom(t *testing.T) {
	s := newTestStore(t, Options{})
	code, _ := s.CreateRoom("host", "alice")
	_, _ = s.JoinRoom("a", "bob", code)
	_, _ = s.JoinRoom("b", "carol", code)

	res := s.LeaveRoom("a")
	require.True(t, res.Left)
	require.False(t, res.Closed)
	require.Equal(t, []domain.PlayerID{"host", "b"}, res.Remaining)

	room, ok := s.Room(code)
	require.True(t, ok)
	require.Len(t, room.Players, 2)
	last := room.Messages[len(room.Messages)-1]
	require.Equal(t, "bob left the room", last.Body)
}

func TestLeaveRoomUnknownIsNoOp(t *testing.T) {
	s := newTestStore(t, Options{})
	require.False(t, s.LeaveRoom("ghost").Left)

	code, _ := s.CreateRoom("host", "alice")
	_, _ = s.JoinRoom("guest", "bob", code)
	require.True(t, s.LeaveRoom("guest").Left)
	require.False(t, s.LeaveRoom("guest").Left)
}

func TestCloseRoomIdempotent(t *testing.T) {
	s := newTestStore(t, Options{})
	code, _ := s.CreateRoom("host", "alice")
	_, _ = s.JoinRoom("guest", "bob", code)

	members, ok := s.CloseRoom(code)
	require.True(t, ok)
	require.Equal(t, []domain.PlayerID{"host", "guest"}, members)
	require.Zero(t, s.PendingTimers())

	members, ok = s.CloseRoom(code)
	require.False(t, ok)
	require.Nil(t, members)
}

func TestChatScenario(t *testing.T) {
	s := newTestStore(t, Options{})
	code, _ := s.CreateRoom("a", "alice")
	_, err := s.JoinRoom("b", "bob", code)
	require.NoError(t, err)

	m, ok := s.AddMessage(code, "alice", "hello")
	require.True(t, ok)
	require.Equal(t, domain.MessageUser, m.Type)

	room, _ := s.Room(code)
	require.Len(t, room.Messages, 2)
	require.Equal(t, domain.MessageSystem, room.Messages[0].Type)
	require.Equal(t, "bob entered the room", room.Messages[0].Body)
	require.Equal(t, "hello", room.Messages[1].Body)
	require.Equal(t, "alice", room.Messages[1].AuthorNickname)

	_, ok = s.AddMessage("00000", "alice", "lost")
	require.False(t, ok)
}

func TestMessageCap(t *testing.T) {
	s := newTestStore(t, Options{MaxMessages: 2})
	code, _ := s.CreateRoom("a", "alice")

	for _, body := range []string{"one", "two", "three"} {
		s.AddMessage(code, "alice", body)
	}
	room, _ := s.Room(code)
	require.Len(t, room.Messages, 2)
	require.Equal(t, "two", room.Messages[0].Body)
}

func TestSnapshotIsCopy(t *testing.T) {
	s := newTestStore(t, Options{})
	code, _ := s.CreateRoom("a", "alice")
	s.AddMessage(code, "alice", "hello")

	room, _ := s.Room(code)
	room.Messages[0].Body = "changed"

	again, _ := s.Room(code)
	require.Equal(t, "hello", again.Messages[0].Body)
}

func TestAvailableRooms(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := newTestStore(t, Options{Now: clock, NextCode: sequence(11111, 22222)})

	first, _ := s.CreateRoom("h1", "alice")
	now = now.Add(time.Second)
	second, _ := s.CreateRoom("h2", "carol")
	_, _ = s.JoinRoom("g", "bob", second)

	rooms := s.AvailableRooms()
	require.Len(t, rooms, 2)
	require.Equal(t, RoomInfo{Code: first, MemberCount: 1, HostID: "h1", CreatedAt: now.Add(-time.Second).UnixMilli()}, rooms[0])
	require.Equal(t, second, rooms[1].Code)
	require.Equal(t, 2, rooms[1].MemberCount)
}

func TestPlayersListSkipsRemovedPlayers(t *testing.T) {
	s := newTestStore(t, Options{})
	code, _ := s.CreateRoom("host", "alice")
	_, _ = s.JoinRoom("guest", "bob", code)

	s.RemovePlayer("guest")

	list := s.PlayersList(code)
	require.Len(t, list, 1)
	require.Equal(t, domain.PlayerID("host"), list[0].ID)
	require.Empty(t, s.PlayersList("00000"))
}

func TestConnectionBinding(t *testing.T) {
	s := newTestStore(t, Options{})
	code, _ := s.CreateRoom("host", "alice")
	_, _ = s.JoinRoom("guest", "bob", code)

	require.True(t, s.SetConnectionID("host", "c1"))
	require.True(t, s.SetConnectionID("guest", "c2"))
	require.False(t, s.SetConnectionID("ghost", "c3"))

	p, ok := s.FindPlayerByConnectionID("c2")
	require.True(t, ok)
	require.Equal(t, domain.PlayerID("guest"), p.ID)
	require.ElementsMatch(t, []domain.ConnectionID{"c1", "c2"}, s.RoomConnections(code))

	// Reconnect replaces the old connection.
	require.True(t, s.SetConnectionID("guest", "c9"))
	_, ok = s.FindPlayerByConnectionID("c2")
	require.False(t, ok)
	p, ok = s.FindPlayerByConnectionID("c9")
	require.True(t, ok)
	require.Equal(t, domain.PlayerID("guest"), p.ID)

	// Re-registering on join keeps the bound connection.
	_, _ = s.JoinRoom("guest", "bob", code)
	p, _ = s.Player("guest")
	require.Equal(t, domain.ConnectionID("c9"), p.ConnectionID)

	s.RemovePlayer("guest")
	_, ok = s.FindPlayerByConnectionID("c9")
	require.False(t, ok)
	require.Equal(t, []domain.ConnectionID{"c1"}, s.Connections([]domain.PlayerID{"host", "guest"}))
}

func TestDisconnectScenario(t *testing.T) {
	s := newTestStore(t, Options{})
	code, _ := s.CreateRoom("B", "bravo")
	_, _ = s.JoinRoom("A", "alpha", code)

	res := s.LeaveRoom("A")
	s.RemovePlayer("A")
	require.False(t, res.Closed)
	room, ok := s.Room(code)
	require.True(t, ok)
	require.Len(t, room.Players, 1)
	require.Equal(t, domain.PlayerID("B"), room.Players[0].ID)

	res = s.LeaveRoom("B")
	s.RemovePlayer("B")
	require.True(t, res.Closed)
	_, ok = s.Room(code)
	require.False(t, ok)
	rooms, players := s.Stats()
	require.Zero(t, rooms)
	require.Zero(t, players)
}

func TestConcurrentAccess(t *testing.T) {
	s := newTestStore(t, Options{})
	code, _ := s.CreateRoom("host", "alice")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := domain.PlayerID(fmt.Sprintf("p%d", i))
			_, err := s.JoinRoom(id, "player", code)
			if err != nil {
				return
			}
			s.UpdateActivity(id)
			s.AddMessage(code, "player", "hi")
			_ = s.Snapshots()
			if i%2 == 0 {
				s.LeaveRoom(id)
				s.RemovePlayer(id)
			}
		}(i)
	}
	wg.Wait()

	room, ok := s.Room(code)
	require.True(t, ok)
	require.Len(t, room.Players, 26)
	// 50 joins, 50 chats and 25 leaves.
	require.Len(t, room.Messages, 125)
}

func TestEnterRoomReportsDetach(t *testing.T) {
	s := newTestStore(t, Options{NextCode: sequence(11111, 22222)})
	first, _ := s.CreateRoom("h1", "alice")
	second, _ := s.CreateRoom("h2", "carol")
	_, _ = s.JoinRoom("guest", "bob", first)

	res, err := s.EnterRoom("guest", "bob", second, "c2")
	require.NoError(t, err)
	require.True(t, res.Added)
	require.Equal(t, second, res.Room.Code)
	require.True(t, res.Detached.Left)
	require.Equal(t, first, res.Detached.RoomCode)
	require.Len(t, res.Detached.Players, 1)

	p, ok := s.FindPlayerByConnectionID("c2")
	require.True(t, ok)
	require.Equal(t, domain.PlayerID("guest"), p.ID)
}

func TestEnterUnknownRoomKeepsMembership(t *testing.T) {
	s := newTestStore(t, Options{NextCode: sequence(11111)})
	code, _ := s.CreateRoom("host", "alice")
	_, _ = s.JoinRoom("guest", "bob", code)

	_, err := s.EnterRoom("guest", "bob", "99999", "c2")
	require.ErrorIs(t, err, domain.ErrRoomNotFound)

	p, _ := s.Player("guest")
	require.Equal(t, code, p.RoomCode)
	require.Empty(t, p.ConnectionID)
	require.Len(t, s.PlayersList(code), 2)
}

func TestDisconnectConnection(t *testing.T) {
	s := newTestStore(t, Options{})
	code, _ := s.CreateRoom("host", "alice")
	_, _ = s.JoinRoom("guest", "bob", code)
	s.SetConnectionID("guest", "old")

	// Rebinding to a new connection makes the old one stale.
	s.SetConnectionID("guest", "new")
	_, ok := s.DisconnectConnection("old")
	require.False(t, ok)
	require.Len(t, s.PlayersList(code), 2)

	res, ok := s.DisconnectConnection("new")
	require.True(t, ok)
	require.True(t, res.Left)
	require.Equal(t, domain.PlayerID("guest"), res.PlayerID)
	require.Len(t, res.Players, 1)
	_, ok = s.Player("guest")
	require.False(t, ok)
	require.Equal(t, 1, s.PendingTimers())
	_, ok = s.DisconnectConnection("new")
	require.False(t, ok)
}
