package core

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	DefaultActivityTimeout = 30 * time.Second

	minRoomCode   = 10000
	roomCodeSpace = 90000
)

// Options tune a Store. Zero values select defaults.
type Options struct {
	ActivityTimeout time.Duration
	// MaxMessages caps each room's log; 0 keeps every message.
	MaxMessages int
	Now         func() time.Time
	// NextCode returns a candidate room code in [10000, 99999].
	NextCode func() int
}

// Store is the single owner of all room and player state. Every exported
// method holds mu for its whole duration, activity timer callbacks included,
// so no two mutations ever interleave.
type Store struct {
	mu      sync.Mutex
	rooms   map[domain.RoomCode]*domain.Room
	players map[domain.PlayerID]*domain.Player
	byConn  map[domain.ConnectionID]domain.PlayerID
	timers  map[domain.PlayerID]*activityTimer

	timeout     time.Duration
	maxMessages int
	now         func() time.Time
	nextCode    func() int
}

func NewStore(opts Options) *Store {
	s := &Store{
		rooms:       make(map[domain.RoomCode]*domain.Room),
		players:     make(map[domain.PlayerID]*domain.Player),
		byConn:      make(map[domain.ConnectionID]domain.PlayerID),
		timers:      make(map[domain.PlayerID]*activityTimer),
		timeout:     opts.ActivityTimeout,
		maxMessages: opts.MaxMessages,
		now:         opts.Now,
		nextCode:    opts.NextCode,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultActivityTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.nextCode == nil {
		s.nextCode = func() int { return minRoomCode + rand.IntN(roomCodeSpace) }
	}
	return s
}

// CreateRoom opens a new room hosted by playerID and returns its code.
// A player still in another room is detached from it first.
func (s *Store) CreateRoom(playerID domain.PlayerID, nickname string) (domain.RoomCode, error) {
	res, err := s.HostRoom(playerID, nickname, "")
	return res.Room.Code, err
}

// HostRoom is CreateRoom that also binds conn (when non-empty) and reports
// the room the player was detached from.
func (s *Store) HostRoom(playerID domain.PlayerID, nickname string, conn domain.ConnectionID) (EnterResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.rooms) >= roomCodeSpace {
		return EnterResult{}, domain.ErrRoomsExhausted
	}
	code := s.generateCodeLocked()
	now := s.now()

	detached := s.detachLocked(playerID, "")
	room := domain.NewRoom(code, playerID, now)
	s.rooms[code] = room
	s.registerLocked(playerID, nickname, code, now)
	s.bindLocked(playerID, conn)
	s.armLocked(playerID)

	log.Info().Str("module", "core.store").Str("room", string(code)).Str("player", string(playerID)).Msg("room created")
	return EnterResult{Room: s.snapshotLocked(room), Added: true, Detached: detached}, nil
}

// JoinRoom adds playerID to the room with the given code. Joining a room the
// player is already in refreshes its record without duplicating membership.
func (s *Store) JoinRoom(playerID domain.PlayerID, nickname string, code domain.RoomCode) (RoomSnapshot, error) {
	res, err := s.EnterRoom(playerID, nickname, code, "")
	return res.Room, err
}

// EnterRoom is JoinRoom that also binds conn (when non-empty) and reports the
// room the player was detached from. An unknown code changes nothing.
func (s *Store) EnterRoom(playerID domain.PlayerID, nickname string, code domain.RoomCode, conn domain.ConnectionID) (EnterResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return EnterResult{}, domain.ErrRoomNotFound
	}
	now := s.now()

	detached := s.detachLocked(playerID, code)
	added := room.AddMember(playerID)
	s.registerLocked(playerID, nickname, code, now)
	s.bindLocked(playerID, conn)
	s.armLocked(playerID)
	if added {
		room.Append(domain.JoinedMessage(nickname, now), s.maxMessages)
	}

	log.Info().Str("module", "core.store").Str("room", string(code)).Str("player", string(playerID)).Bool("added", added).Msg("player joined")
	return EnterResult{Room: s.snapshotLocked(room), Added: added, Detached: detached}, nil
}

// LeaveRoom removes playerID from its room. Host departure, or the last
// member leaving, destroys the room.
func (s *Store) LeaveRoom(playerID domain.PlayerID) LeaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaveLocked(playerID)
}

// CloseRoom destroys the room and returns the ids that were members at the
// time. Closing an unknown room reports false and changes nothing.
func (s *Store) CloseRoom(code domain.RoomCode) ([]domain.PlayerID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked(code)
}

// AddMessage appends a user message to the room's log.
func (s *Store) AddMessage(code domain.RoomCode, author, body string) (domain.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return domain.Message{}, false
	}
	m := domain.NewUserMessage(author, body, s.now())
	room.Append(m, s.maxMessages)
	return m, true
}

func (s *Store) AvailableRooms() []RoomInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RoomInfo, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, RoomInfo{
			Code:        r.Code,
			MemberCount: len(r.Members),
			HostID:      r.HostID,
			CreatedAt:   r.CreatedAt.UnixMilli(),
		})
	}
	slices.SortFunc(out, func(a, b RoomInfo) int {
		return cmp.Or(cmp.Compare(a.CreatedAt, b.CreatedAt), cmp.Compare(a.Code, b.Code))
	})
	return out
}

// PlayersList returns the room's members in join order. Ids without a player
// record are skipped.
func (s *Store) PlayersList(code domain.RoomCode) []PlayerView {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return []PlayerView{}
	}
	return s.playersLocked(room)
}

// RemovePlayer drops the player record and its activity timer. Room
// membership is left to LeaveRoom.
func (s *Store) RemovePlayer(playerID domain.PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(playerID)
}

// DisconnectConnection runs leave and remove for the player bound to conn, as
// one step. A player that has since rebound to another connection is left
// untouched and false is returned.
func (s *Store) DisconnectConnection(conn domain.ConnectionID) (LeaveResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byConn[conn]
	if !ok {
		return LeaveResult{}, false
	}
	if _, ok := s.players[id]; !ok {
		delete(s.byConn, conn)
		return LeaveResult{}, false
	}
	res := s.leaveLocked(id)
	s.removeLocked(id)
	return res, true
}

// SetConnectionID binds the transport connection to the player. A
// connection maps to at most one player.
func (s *Store) SetConnectionID(playerID domain.PlayerID, conn domain.ConnectionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[playerID]; !ok {
		return false
	}
	s.bindLocked(playerID, conn)
	return true
}

func (s *Store) FindPlayerByConnectionID(conn domain.ConnectionID) (domain.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byConn[conn]
	if !ok {
		return domain.Player{}, false
	}
	p, ok := s.players[id]
	if !ok {
		return domain.Player{}, false
	}
	return *p, true
}

func (s *Store) Player(playerID domain.PlayerID) (domain.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok {
		return domain.Player{}, false
	}
	return *p, true
}

func (s *Store) Room(code domain.RoomCode) (RoomSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return RoomSnapshot{}, false
	}
	return s.snapshotLocked(room), true
}

// Snapshots copies every room that still lists at least one player.
func (s *Store) Snapshots() []RoomSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]RoomSnapshot, 0, len(s.rooms))
	for _, room := range s.rooms {
		snap := s.snapshotLocked(room)
		if len(snap.Players) == 0 {
			continue
		}
		out = append(out, snap)
	}
	return out
}

// Connections resolves player ids to their bound connections, skipping
// players that are gone or not connected.
func (s *Store) Connections(ids []domain.PlayerID) []domain.ConnectionID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectionsLocked(ids)
}

func (s *Store) RoomConnections(code domain.RoomCode) []domain.ConnectionID {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[code]
	if !ok {
		return nil
	}
	return s.connectionsLocked(room.Members)
}

func (s *Store) Stats() (rooms, players int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms), len(s.players)
}

func (s *Store) generateCodeLocked() domain.RoomCode {
	for {
		code := domain.RoomCode(strconv.Itoa(s.nextCode()))
		if _, taken := s.rooms[code]; !taken {
			return code
		}
		log.Debug().Str("module", "core.store").Str("room", string(code)).Msg("room code collision, retrying")
	}
}

func (s *Store) registerLocked(id domain.PlayerID, nickname string, code domain.RoomCode, now time.Time) {
	p := domain.NewPlayer(id, nickname, code, now)
	if prev, ok := s.players[id]; ok {
		p.ConnectionID = prev.ConnectionID
	}
	s.players[id] = p
}

func (s *Store) bindLocked(id domain.PlayerID, conn domain.ConnectionID) {
	p, ok := s.players[id]
	if !ok || conn == "" {
		return
	}
	if prev, ok := s.byConn[conn]; ok && prev != id {
		if other, ok := s.players[prev]; ok {
			other.ConnectionID = ""
		}
	}
	if p.ConnectionID != "" && p.ConnectionID != conn {
		delete(s.byConn, p.ConnectionID)
	}
	p.ConnectionID = conn
	s.byConn[conn] = id
}

func (s *Store) removeLocked(id domain.PlayerID) {
	s.cancelLocked(id)
	p, ok := s.players[id]
	if !ok {
		return
	}
	if s.byConn[p.ConnectionID] == id {
		delete(s.byConn, p.ConnectionID)
	}
	delete(s.players, id)
	log.Info().Str("module", "core.store").Str("player", string(id)).Msg("player removed")
}

// detachLocked takes the player out of any room other than keep.
func (s *Store) detachLocked(id domain.PlayerID, keep domain.RoomCode) LeaveResult {
	p, ok := s.players[id]
	if !ok || p.RoomCode == "" || p.RoomCode == keep {
		return LeaveResult{}
	}
	res := s.leaveLocked(id)
	if res.Left {
		log.Info().Str("module", "core.store").Str("player", string(id)).Str("room", string(res.RoomCode)).Bool("closed", res.Closed).Msg("detached from previous room")
	}
	return res
}

func (s *Store) leaveLocked(id domain.PlayerID) LeaveResult {
	p, ok := s.players[id]
	if !ok {
		return LeaveResult{}
	}
	code := p.RoomCode
	room, ok := s.rooms[code]
	if !ok {
		p.RoomCode = ""
		return LeaveResult{}
	}

	room.RemoveMember(id)
	room.Append(domain.LeftMessage(p.Nickname, s.now()), s.maxMessages)
	p.RoomCode = ""

	res := LeaveResult{
		Left:      true,
		PlayerID:  id,
		Nickname:  p.Nickname,
		RoomCode:  code,
		WasHost:   room.HostID == id,
		Remaining: slices.Clone(room.Members),
	}
	if res.WasHost || len(room.Members) == 0 {
		s.cancelLocked(id)
		_, res.Closed = s.closeLocked(code)
	} else {
		res.Players = s.playersLocked(room)
	}

	log.Info().Str("module", "core.store").Str("room", string(code)).Str("player", string(id)).Bool("host", res.WasHost).Bool("closed", res.Closed).Msg("player left")
	return res
}

func (s *Store) closeLocked(code domain.RoomCode) ([]domain.PlayerID, bool) {
	room, ok := s.rooms[code]
	if !ok {
		return nil, false
	}
	room.Append(domain.ClosedMessage(s.now()), s.maxMessages)

	members := slices.Clone(room.Members)
	for _, id := range members {
		s.cancelLocked(id)
		if p, ok := s.players[id]; ok && p.RoomCode == code {
			p.RoomCode = ""
		}
	}
	room.IsActive = false
	delete(s.rooms, code)

	log.Info().Str("module", "core.store").Str("room", string(code)).Int("members", len(members)).Msg("room closed")
	return members, true
}

func (s *Store) playersLocked(room *domain.Room) []PlayerView {
	out := make([]PlayerView, 0, len(room.Members))
	for _, id := range room.Members {
		p, ok := s.players[id]
		if !ok {
			continue
		}
		out = append(out, PlayerView{
			ID:               p.ID,
			Nickname:         p.Nickname,
			IsActive:         p.IsActive,
			LastActivityTime: p.LastActivityTime.UnixMilli(),
		})
	}
	return out
}

func (s *Store) snapshotLocked(room *domain.Room) RoomSnapshot {
	return RoomSnapshot{
		Code:     room.Code,
		HostID:   room.HostID,
		Players:  s.playersLocked(room),
		Messages: append([]domain.Message{}, room.Messages...),
	}
}

func (s *Store) connectionsLocked(ids []domain.PlayerID) []domain.ConnectionID {
	out := make([]domain.ConnectionID, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.players[id]; ok && p.ConnectionID != "" {
			out = append(out, p.ConnectionID)
		}
	}
	return out
}
