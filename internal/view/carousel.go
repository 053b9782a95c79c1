package view

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownCard indicates no carousel exists for the requested card id.
	ErrUnknownCard = errors.New("carousel: unknown card")
	// ErrIndexOutOfRange indicates a dot selection outside the photo sequence.
	ErrIndexOutOfRange = errors.New("carousel: index out of range")
	// ErrInvalidDirection indicates an advance direction other than -1 or +1.
	ErrInvalidDirection = errors.New("carousel: direction must be -1 or +1")
)

// Transition describes the minimal presentation change produced by a carousel
// step: one photo and one dot hide, one photo and one dot show, and the blur
// layer rebinds to the newly active photo. Filter state is never touched.
type Transition struct {
	CardID    string `json:"card_id"`
	HideIndex int    `json:"hide_index"`
	ShowIndex int    `json:"show_index"`
	BlurRef   string `json:"blur_ref"`
}

type carouselState struct {
	refs   []string
	active int
}

// Registry tracks the active photo index for every multi-photo card of the
// current render pass. A fresh registry is built on every render, so carousel
// progress is deliberately reset when the tree is rebuilt.
type Registry struct {
	mu    sync.Mutex
	cards map[string]*carouselState
}

// NewRegistry constructs an empty carousel registry.
func NewRegistry() *Registry {
	return &Registry{cards: make(map[string]*carouselState)}
}

func (r *Registry) register(cardID string, refs []string) {
	if len(refs) < 2 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards[cardID] = &carouselState{refs: refs}
}

// Len reports how many cards carry carousel state.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cards)
}

// Active returns the active photo index for the given card.
func (r *Registry) Active(cardID string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.cards[cardID]
	if !ok {
		return 0, false
	}
	return state.active, true
}

// Advance moves the active index by direction (-1 or +1), wrapping at both
// ends: one past the last photo wraps to the first, one before the first
// wraps to the last.
func (r *Registry) Advance(cardID string, direction int) (Transition, error) {
	if direction != -1 && direction != 1 {
		return Transition{}, fmt.Errorf("%w: got %d", ErrInvalidDirection, direction)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.cards[cardID]
	if !ok {
		return Transition{}, fmt.Errorf("%w: %s", ErrUnknownCard, cardID)
	}

	n := len(state.refs)
	next := ((state.active+direction)%n + n) % n
	return r.transitionLocked(cardID, state, next), nil
}

// Select jumps directly to the given dot index. Selecting the already active
// index is a no-op: the returned bool is false and no transition is produced.
func (r *Registry) Select(cardID string, index int) (Transition, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.cards[cardID]
	if !ok {
		return Transition{}, false, fmt.Errorf("%w: %s", ErrUnknownCard, cardID)
	}
	if index < 0 || index >= len(state.refs) {
		return Transition{}, false, fmt.Errorf("%w: index %d of %d photos", ErrIndexOutOfRange, index, len(state.refs))
	}
	if index == state.active {
		return Transition{}, false, nil
	}
	return r.transitionLocked(cardID, state, index), true, nil
}

func (r *Registry) transitionLocked(cardID string, state *carouselState, next int) Transition {
	previous := state.active
	state.active = next
	return Transition{
		CardID:    cardID,
		HideIndex: previous,
		ShowIndex: next,
		BlurRef:   state.refs[next],
	}
}
