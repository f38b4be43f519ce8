package store

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/minaorangina/cadena/room"
	"github.com/oklog/ulid/v2"
)

var (
	ErrUnknownRoomID      = errors.New("unknown room ID")
	ErrDuplicateRoomID    = errors.New("room ID already exists")
	ErrGameAlreadyStarted = errors.New("game has already started")
)

type RoomStore interface {
	FindRoom(roomID string) *room.Room
	FindPendingRoom(roomID string) *room.Room
	AddRoom(r *room.Room) error
	RemoveRoom(roomID string)
	Rooms() []*room.Room
}

// InMemoryRoomStore maps room id to room
type InMemoryRoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*room.Room
}

// NewInMemoryRoomStore constructs an InMemoryRoomStore
func NewInMemoryRoomStore() *InMemoryRoomStore {
	return &InMemoryRoomStore{
		rooms: map[string]*room.Room{},
	}
}

func (s *InMemoryRoomStore) FindRoom(roomID string) *room.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	return r
}

// FindPendingRoom only returns rooms that are still in the lobby
func (s *InMemoryRoomStore) FindPendingRoom(roomID string) *room.Room {
	r := s.FindRoom(roomID)
	if r == nil || r.Started() {
		return nil
	}
	return r
}

func (s *InMemoryRoomStore) AddRoom(r *room.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[r.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRoomID, r.ID)
	}
	s.rooms[r.ID] = r
	return nil
}

func (s *InMemoryRoomStore) RemoveRoom(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
}

// Rooms lists every room, oldest first
func (s *InMemoryRoomStore) Rooms() []*room.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]*room.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms
}

var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// NewRoomID returns a ULID, so ids sort by creation time
func NewRoomID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), idEntropy).String()
}
