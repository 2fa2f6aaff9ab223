// Package cache holds the engine's small set of in-memory caches that sit
// in front of otherwise-repeated state computation, the way the host
// project's beacon-chain/cache package does.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
)

const skipSlotCacheSize = 8

// SkipSlotCache caches the state produced by advancing through empty slots
// (ProcessSlots with no accompanying block), so a later request for the same
// target slot against the same starting state root does not replay the same
// slot/epoch processing.
type SkipSlotCache struct {
	cache      *lru.Cache
	inProgress sync.Map
}

// NewSkipSlotCache returns a ready-to-use cache.
func NewSkipSlotCache() *SkipSlotCache {
	c, err := lru.New(skipSlotCacheSize)
	if err != nil {
		panic("cache.NewSkipSlotCache: lru.New with a positive size cannot fail")
	}
	return &SkipSlotCache{cache: c}
}

// Get returns the cached state for slot, or nil if absent.
func (c *SkipSlotCache) Get(slot primitives.Slot) *state.BeaconState {
	v, ok := c.cache.Get(slot)
	if !ok {
		return nil
	}
	return v.(*state.BeaconState)
}

// Put records st as the result of advancing to slot.
func (c *SkipSlotCache) Put(slot primitives.Slot, st *state.BeaconState) {
	c.cache.Add(slot, st)
}

// MarkInProgress records that slot is currently being computed by some
// caller, so a concurrent caller for the same slot can choose to wait
// instead of duplicating the work.
func (c *SkipSlotCache) MarkInProgress(slot primitives.Slot) {
	c.inProgress.Store(slot, struct{}{})
}

// MarkNotInProgress clears the in-progress marker for slot.
func (c *SkipSlotCache) MarkNotInProgress(slot primitives.Slot) {
	c.inProgress.Delete(slot)
}

// IsInProgress reports whether slot is currently being computed.
func (c *SkipSlotCache) IsInProgress(slot primitives.Slot) bool {
	_, ok := c.inProgress.Load(slot)
	return ok
}
