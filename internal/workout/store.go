package workout

import (
	"encoding/json"
	"errors"
)

var ErrDuplicateID = errors.New("workout id already stored")

// Store keeps workouts in insertion order, unique by id.
type Store struct {
	workouts []Workout
}

func NewStore() *Store {
	return &Store{}
}

// Load rebuilds a store from a persisted snapshot. Absent or malformed data
// yields an empty store; derived fields are taken as persisted.
func Load(raw []byte) *Store {
	if len(raw) == 0 {
		return NewStore()
	}

	var items []Workout
	if err := json.Unmarshal(raw, &items); err != nil {
		return NewStore()
	}

	s := NewStore()
	for _, w := range items {
		if err := s.Append(w); err != nil {
			return NewStore()
		}
	}
	return s
}

func (s *Store) Append(w Workout) error {
	if _, ok := s.Find(w.ID); ok {
		return ErrDuplicateID
	}
	s.workouts = append(s.workouts, w.clone())
	return nil
}

// RemoveByID reports whether a workout was removed.
func (s *Store) RemoveByID(id string) bool {
	for i, w := range s.workouts {
		if w.ID == id {
			s.workouts = append(s.workouts[:i:i], s.workouts[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Store) Clear() {
	s.workouts = nil
}

func (s *Store) Find(id string) (Workout, bool) {
	for _, w := range s.workouts {
		if w.ID == id {
			return w.clone(), true
		}
	}
	return Workout{}, false
}

func (s *Store) Len() int {
	return len(s.workouts)
}

// All returns a copy of the workouts in insertion order.
func (s *Store) All() []Workout {
	out := make([]Workout, len(s.workouts))
	for i, w := range s.workouts {
		out[i] = w.clone()
	}
	return out
}

// Serialize encodes the full list as a JSON array.
func (s *Store) Serialize() ([]byte, error) {
	if s.workouts == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.workouts)
}
