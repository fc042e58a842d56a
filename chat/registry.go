package chat

import (
	"log/slog"
	"sync"
)

// Registry maps room names to rooms. Rooms are created lazily on first join
// and never removed; an empty room keeps its history.
type Registry struct {
	capacity     int
	historyLimit int
	rooms        sync.Map // name -> *Room
	log          *slog.Logger
}

func NewRegistry(capacity, historyLimit int, log *slog.Logger) *Registry {
	return &Registry{capacity: capacity, historyLimit: historyLimit, log: log}
}

// GetOrCreate returns the room for name, installing a fresh one when absent.
// Concurrent callers for the same name all observe the first installed room.
func (r *Registry) GetOrCreate(name string) (*Room, error) {
	if got, ok := r.rooms.Load(name); ok {
		return got.(*Room), nil
	}

	room, err := NewRoom(r.capacity, r.historyLimit, r.log)
	if err != nil {
		return nil, err
	}
	actual, loaded := r.rooms.LoadOrStore(name, room)
	if !loaded {
		r.log.Info("room created", "room", name, "capacity", r.capacity)
	}
	return actual.(*Room), nil
}

// Get looks a room up without creating it. Used by operations that must not
// create rooms as a side effect (leaving, listing users).
func (r *Registry) Get(name string) (*Room, bool) {
	got, ok := r.rooms.Load(name)
	if !ok {
		return nil, false
	}
	return got.(*Room), true
}
