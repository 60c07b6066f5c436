package app

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"wakeng/internal/domain"
)

// Registry owns every live room of a process.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create registers a room under a fresh random ID.
func (reg *Registry) Create(cfg domain.DeckConfig) (*Room, error) {
	return reg.CreateWithID(uuid.NewString(), cfg)
}

// CreateWithID registers a room under a caller chosen ID, such as a match ID.
func (reg *Registry) CreateWithID(id string, cfg domain.DeckConfig) (*Room, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.rooms[id]; ok {
		return nil, fmt.Errorf("%w: room %s already exists", domain.ErrState, id)
	}
	room := NewRoom(id, cfg)
	reg.rooms[id] = room
	return room, nil
}

// Get returns a room by ID.
func (reg *Registry) Get(id string) (*Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	return room, nil
}

// Delete removes a room and bumps its version so that in-flight bot work
// computed for it is discarded.
func (reg *Registry) Delete(id string) bool {
	reg.mu.Lock()
	room, ok := reg.rooms[id]
	delete(reg.rooms, id)
	reg.mu.Unlock()
	if !ok {
		return false
	}
	room.Mu.Lock()
	room.bump()
	room.Mu.Unlock()
	return true
}

// Len reports the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// IDs lists the live room IDs.
func (reg *Registry) IDs() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ids := make([]string, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	return ids
}
