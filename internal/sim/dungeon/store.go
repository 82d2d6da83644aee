package dungeon

// RoomStore holds every materialized room of the season. It is only touched
// from the engine loop goroutine, so create-if-absent is naturally
// first-writer-wins: once a room exists its generated layout is never
// recomputed, even if later visitors arrive through a different entrance.
type RoomStore struct {
	rooms map[Coord]*Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[Coord]*Room)}
}

func (s *RoomStore) Get(c Coord) *Room {
	return s.rooms[c]
}

// GetOrCreate returns the room at c, calling build only when the room does
// not exist yet. The second result reports whether build ran.
func (s *RoomStore) GetOrCreate(c Coord, build func() *Room) (*Room, bool) {
	if r, ok := s.rooms[c]; ok {
		return r, false
	}
	r := build()
	s.rooms[c] = r
	return r, true
}

func (s *RoomStore) Put(r *Room) {
	s.rooms[r.Coord] = r
}

func (s *RoomStore) Len() int { return len(s.rooms) }

// ForEach visits every room in unspecified order.
func (s *RoomStore) ForEach(fn func(*Room)) {
	for _, r := range s.rooms {
		fn(r)
	}
}
