package annotation

// Store keeps committed objects in commit order plus at most one pending
// object that is still being drawn. Committed objects are held by pointer and
// may be mutated in place during a transform; Touch marks the end of such a
// mutation.
type Store struct {
	objects  []Object
	pending  Object
	revision uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Begin holds o as the pending object, replacing any previous one.
func (s *Store) Begin(o Object) {
	s.pending = o
	s.revision++
}

// Pending returns the object being drawn, or nil.
func (s *Store) Pending() Object { return s.pending }

// Commit moves the pending object into the store and returns it.
func (s *Store) Commit() Object {
	o := s.pending
	if o == nil {
		return nil
	}
	s.pending = nil
	s.objects = append(s.objects, o)
	s.revision++
	return o
}

// Discard drops the pending object without committing it.
func (s *Store) Discard() {
	if s.pending == nil {
		return
	}
	s.pending = nil
	s.revision++
}

// Add commits o directly.
func (s *Store) Add(o Object) {
	s.objects = append(s.objects, o)
	s.revision++
}

// Undo removes the most recently committed object and returns it. It is a
// no-op returning nil on an empty store.
func (s *Store) Undo() Object {
	n := len(s.objects)
	if n == 0 {
		return nil
	}
	o := s.objects[n-1]
	s.objects[n-1] = nil
	s.objects = s.objects[:n-1]
	s.revision++
	return o
}

// Remove deletes the object with id and reports whether it was present.
func (s *Store) Remove(id string) bool {
	for i, o := range s.objects {
		if o.base().ID == id {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			s.revision++
			return true
		}
	}
	return false
}

// Clear removes every committed object and returns how many there were.
func (s *Store) Clear() int {
	n := len(s.objects)
	if n == 0 {
		return 0
	}
	s.objects = nil
	s.revision++
	return n
}

// Find returns the committed object with id, or nil.
func (s *Store) Find(id string) Object {
	if id == "" {
		return nil
	}
	for _, o := range s.objects {
		if o.base().ID == id {
			return o
		}
	}
	return nil
}

// Objects returns the committed objects bottom to top. The slice is a copy;
// the objects are not.
func (s *Store) Objects() []Object {
	return append([]Object(nil), s.objects...)
}

// Snapshot returns deep copies of the committed objects followed by the
// pending one, if any.
func (s *Store) Snapshot() []Object {
	out := make([]Object, 0, len(s.objects)+1)
	for _, o := range s.objects {
		out = append(out, o.Clone())
	}
	if s.pending != nil {
		out = append(out, s.pending.Clone())
	}
	return out
}

// Len reports the number of committed objects.
func (s *Store) Len() int { return len(s.objects) }

// Touch records an in-place mutation of a committed object.
func (s *Store) Touch() { s.revision++ }

// Revision increases on every change to the store.
func (s *Store) Revision() uint64 { return s.revision }
