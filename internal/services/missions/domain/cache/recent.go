package cache

import (
	"time"

	"github.com/google/uuid"
)

// RecentPlace remembers recently placed blocks so breaking them again does
// not count.
type RecentPlace struct {
	cache *TTL[BlockPos, struct{}]
}

// NewRecentPlace creates a cache holding at most size positions for timeout.
func NewRecentPlace(size int, timeout time.Duration, opts ...Option) *RecentPlace {
	return &RecentPlace{cache: NewTTL[BlockPos, struct{}](size, timeout, opts...)}
}

// Add records a placement at pos.
func (r *RecentPlace) Add(pos BlockPos) {
	if r == nil {
		return
	}
	r.cache.Put(pos, struct{}{})
}

// Recent reports whether pos was placed recently. A nil cache never
// remembers anything.
func (r *RecentPlace) Recent(pos BlockPos) bool {
	if r == nil {
		return false
	}
	return r.cache.Contains(pos)
}

// Rebuild returns a cache with new parameters that keeps live placements.
func (r *RecentPlace) Rebuild(size int, timeout time.Duration) *RecentPlace {
	if r == nil {
		return NewRecentPlace(size, timeout)
	}
	return &RecentPlace{cache: r.cache.Rebuild(size, timeout)}
}

type stepState struct {
	ring   []BlockPos
	next   int
	walked int
}

// RecentStep tracks the positions each holder stepped on recently and
// batches their movement credit.
type RecentStep struct {
	ringSize int
	cache    *TTL[HolderKey, *stepState]
}

// NewRecentStep creates a tracker remembering ringSize positions per holder.
// A ringSize of zero or less disables the recent-position check but still
// batches credit. Idle holders are forgotten after timeout.
func NewRecentStep(ringSize int, timeout time.Duration, opts ...Option) *RecentStep {
	return &RecentStep{
		ringSize: max(0, ringSize),
		cache:    NewTTL[HolderKey, *stepState](0, timeout, opts...),
	}
}

// Step records holder moving onto pos. Steps onto a recently visited
// position are ignored. When the holder has accumulated threshold steps the
// accumulated credit is returned with ok set, and the counter resets.
func (r *RecentStep) Step(holder uuid.UUID, pos BlockPos, threshold int) (credit int, ok bool) {
	if r == nil {
		return 0, false
	}
	threshold = max(1, threshold)
	r.cache.Upsert(HolderKey(holder), func(state *stepState, present bool) *stepState {
		if !present || state == nil {
			state = &stepState{}
		}
		if r.ringSize > 0 {
			for _, seen := range state.ring {
				if seen == pos {
					return state
				}
			}
			if len(state.ring) < r.ringSize {
				state.ring = append(state.ring, pos)
			} else {
				state.ring[state.next] = pos
				state.next = (state.next + 1) % r.ringSize
			}
		}
		state.walked++
		if state.walked >= threshold {
			credit, ok = state.walked, true
			state.walked = 0
		}
		return state
	})
	return credit, ok
}

// Pending returns the uncredited steps for holder.
func (r *RecentStep) Pending(holder uuid.UUID) int {
	if r == nil {
		return 0
	}
	pending := 0
	r.cache.Update(HolderKey(holder), func(state *stepState) *stepState {
		if state != nil {
			pending = state.walked
		}
		return state
	})
	return pending
}

// Forget drops the state of holder, such as when it leaves.
func (r *RecentStep) Forget(holder uuid.UUID) {
	if r == nil {
		return
	}
	r.cache.Delete(HolderKey(holder))
}

// Rebuild returns a tracker with a new ring size and idle timeout that keeps
// each holder's pending credit and most recent positions.
func (r *RecentStep) Rebuild(ringSize int, timeout time.Duration) *RecentStep {
	if r == nil {
		return NewRecentStep(ringSize, timeout)
	}
	ringSize = max(0, ringSize)
	return &RecentStep{
		ringSize: ringSize,
		cache: r.cache.RebuildFunc(0, timeout, func(s *stepState) *stepState {
			return s.resize(ringSize)
		}),
	}
}

// resize copies s into a fresh state with at most ringSize positions, most
// recent last.
func (s *stepState) resize(ringSize int) *stepState {
	if s == nil {
		return nil
	}
	ordered := make([]BlockPos, 0, len(s.ring))
	if len(s.ring) > 0 {
		ordered = append(ordered, s.ring[s.next:]...)
		ordered = append(ordered, s.ring[:s.next]...)
	}
	if len(ordered) > ringSize {
		ordered = ordered[len(ordered)-ringSize:]
	}
	return &stepState{ring: ordered, walked: s.walked}
}

// Brewers associates brewing stands with the holder who last loaded them.
type Brewers struct {
	cache *TTL[BlockPos, uuid.UUID]
}

// NewBrewers creates an association cache expiring after timeout.
func NewBrewers(timeout time.Duration, opts ...Option) *Brewers {
	return &Brewers{cache: NewTTL[BlockPos, uuid.UUID](0, timeout, opts...)}
}

// Associate records holder as the brewer at pos.
func (b *Brewers) Associate(pos BlockPos, holder uuid.UUID) {
	if b == nil {
		return
	}
	b.cache.Put(pos, holder)
}

// Brewer returns the holder associated with pos.
func (b *Brewers) Brewer(pos BlockPos) (uuid.UUID, bool) {
	if b == nil {
		return uuid.Nil, false
	}
	return b.cache.Get(pos)
}

// Rebuild returns a cache with a new timeout that keeps live associations.
func (b *Brewers) Rebuild(timeout time.Duration) *Brewers {
	if b == nil {
		return NewBrewers(timeout)
	}
	return &Brewers{cache: b.cache.Rebuild(0, timeout)}
}
