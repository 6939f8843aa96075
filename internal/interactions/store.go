// Package interactions tracks the current user's likes and votes for
// one view's lifetime, applying changes optimistically and restoring
// them when the backing request fails.
package interactions

// LikeState is the liked flag and aggregate counter for one entity.
type LikeState struct {
	Liked bool
	Count int
}

// Store holds per-entity like state. It is owned by a single view and
// only touched from the update loop, so it needs no locking. A toggle
// stays "pending" until the view confirms or rolls it back; further
// toggles for that entity are refused in the meantime so two in-flight
// requests can never interleave.
type Store struct {
	states  map[int]LikeState
	pending map[int]LikeState // snapshot taken before the optimistic flip
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		states:  make(map[int]LikeState),
		pending: make(map[int]LikeState),
	}
}

// Seed loads server-provided aggregate counts. Liked state is not part
// of any fetch response, so every entity starts unliked each session;
// likedByMe exists for the day the backend grows such an endpoint.
func (s *Store) Seed(counts map[int]int, likedByMe []int) {
	for id, count := range counts {
		s.states[id] = LikeState{Count: count}
	}
	for _, id := range likedByMe {
		st := s.states[id]
		st.Liked = true
		s.states[id] = st
	}
}

// SeedOne loads a single entity's count, as the post views do with the
// per-post vote count.
func (s *Store) SeedOne(id, count int) {
	s.states[id] = LikeState{Count: count}
}

// Get returns the current state for id. Unknown ids read as
// {liked: false, count: 0}.
func (s *Store) Get(id int) LikeState {
	return s.states[id]
}

// Toggle optimistically flips the liked flag and adjusts the counter,
// returning the wire direction for the follow-up request (1 to like,
// 0 to unlike). It returns ok=false without changing anything when a
// toggle for id is already awaiting its response.
func (s *Store) Toggle(id int) (dir int, ok bool) {
	if _, inFlight := s.pending[id]; inFlight {
		return 0, false
	}

	before := s.states[id]
	s.pending[id] = before

	after := before
	if before.Liked {
		after.Liked = false
		after.Count--
		dir = 0
	} else {
		after.Liked = true
		after.Count++
		dir = 1
	}
	s.states[id] = after
	return dir, true
}

// Confirm settles a pending toggle. The optimistic value stands; the
// response body is not folded back into the counter.
func (s *Store) Confirm(id int) {
	delete(s.pending, id)
}

// Rollback restores the pre-toggle state after a failed request.
func (s *Store) Rollback(id int) {
	before, inFlight := s.pending[id]
	if !inFlight {
		return
	}
	s.states[id] = before
	delete(s.pending, id)
}

// Pending reports whether a toggle for id is awaiting its response.
// Views use this to disable the control.
func (s *Store) Pending(id int) bool {
	_, inFlight := s.pending[id]
	return inFlight
}

// Forget drops an entity, for lists that remove entries after a
// confirmed delete.
func (s *Store) Forget(id int) {
	delete(s.states, id)
	delete(s.pending, id)
}
