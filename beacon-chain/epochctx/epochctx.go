// Package epochctx precomputes the per-epoch shuffling, active-validator
// set, seed, and proposer schedule once, so committee and proposer lookups
// during block/attestation processing are O(1) slices into cached state
// rather than repeated shuffles. This is the engine's C4 component.
package epochctx

import (
	"github.com/pkg/errors"

	coretime "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/time"
	corevalidators "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/validators"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/shuffle"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state/stateutils"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/crypto/hash"
	"github.com/prysmaticlabs/beacon-engine/encoding/bytesutil"
)

// ShufflingEpoch is the fully materialized committee shuffling for one
// epoch: the active validator set, their seed-derived permutation, and the
// attester-domain seed it was shuffled with (proposer selection derives its
// own proposer-domain seed instead).
type ShufflingEpoch struct {
	Epoch          primitives.Epoch
	ActiveIndices  []primitives.ValidatorIndex
	Shuffling      []primitives.ValidatorIndex
	Seed           [32]byte
	CommitteeCount uint64
}

// newShufflingEpoch builds the shuffling for epoch from st's validator
// registry and randao history.
func newShufflingEpoch(st *state.BeaconState, epoch primitives.Epoch) (*ShufflingEpoch, error) {
	cfg := params.BeaconConfig()
	var active []primitives.ValidatorIndex
	it := st.ValidatorIterator()
	for {
		v, idx, ok := it.Next()
		if !ok {
			break
		}
		if corevalidators.IsActiveValidator(v, epoch) {
			active = append(active, idx)
		}
	}

	seed, err := Seed(st, epoch, cfg.DomainBeaconAttester)
	if err != nil {
		return nil, errors.Wrap(err, "could not compute seed")
	}

	shuffled := make([]primitives.ValidatorIndex, len(active))
	copy(shuffled, active)
	if _, err := shuffle.UnshuffleList(shuffled, seed); err != nil {
		return nil, errors.Wrap(err, "could not shuffle active indices")
	}

	count := committeeCountPerSlot(uint64(len(active)))
	return &ShufflingEpoch{
		Epoch:          epoch,
		ActiveIndices:  active,
		Shuffling:      shuffled,
		Seed:           seed,
		CommitteeCount: count * uint64(cfg.SlotsPerEpoch),
	}, nil
}

// Committee slices this shuffling epoch's precomputed permutation to return
// the committee at committeeIndex, a flat index over the whole epoch
// (slot_in_epoch*committees_per_slot + index), per fastspec.py's
// compute_committee applied to an already-shuffled array.
func (se *ShufflingEpoch) Committee(committeeIndex uint64) []primitives.ValidatorIndex {
	n := uint64(len(se.Shuffling))
	if se.CommitteeCount == 0 || n == 0 {
		return nil
	}
	start := (n * committeeIndex) / se.CommitteeCount
	end := (n * (committeeIndex + 1)) / se.CommitteeCount
	return se.Shuffling[start:end]
}

// committeeCountPerSlot mirrors compute_committee_count, clamped to
// [1, MAX_COMMITTEES_PER_SLOT].
func committeeCountPerSlot(activeValidatorCount uint64) uint64 {
	cfg := params.BeaconConfig()
	count := activeValidatorCount / uint64(cfg.SlotsPerEpoch) / cfg.TargetCommitteeSize
	if count > cfg.MaxCommitteesPerSlot {
		count = cfg.MaxCommitteesPerSlot
	}
	if count < 1 {
		count = 1
	}
	return count
}

// Seed derives the per-epoch, per-domain seed from the randao mix recorded
// MIN_SEED_LOOKAHEAD+1 epochs before the historical-vector wraps past epoch,
// using widened arithmetic so the lookback never underflows for small
// epoch numbers near genesis.
func Seed(st *state.BeaconState, epoch primitives.Epoch, domainType [4]byte) ([32]byte, error) {
	cfg := params.BeaconConfig()
	lookback := uint64(cfg.EpochsPerHistoricalVector) - uint64(cfg.MinSeedLookahead) - 1
	mixEpoch := uint64(epoch) + lookback
	mixIndex := mixEpoch % uint64(cfg.EpochsPerHistoricalVector)
	if mixIndex >= uint64(len(st.RandaoMixes)) {
		return [32]byte{}, errors.Errorf("randao mix index %d out of range %d", mixIndex, len(st.RandaoMixes))
	}
	mix := st.RandaoMixes[mixIndex]

	buf := make([]byte, 0, 4+8+32)
	buf = append(buf, domainType[:]...)
	buf = append(buf, bytesutil.Bytes8(uint64(epoch))...)
	buf = append(buf, mix[:]...)
	return hash.Hash(buf), nil
}

// Context holds the three adjacent epochs' shufflings (previous, current,
// next) plus the pubkey indexes and the current epoch's proposer schedule,
// refreshed wholesale by RotateEpochs at each epoch boundary.
type Context struct {
	PubkeyToIndex stateutils.PublicKeyToIndex

	Previous *ShufflingEpoch
	Current  *ShufflingEpoch
	Next     *ShufflingEpoch

	Proposers [32]primitives.ValidatorIndex
}

// New builds a fresh Context from st, computing all three shufflings and
// the proposer schedule for the current epoch.
func New(st *state.BeaconState) (*Context, error) {
	ctx := &Context{PubkeyToIndex: stateutils.BuildPublicKeyToIndex(st)}
	if err := ctx.RotateEpochs(st); err != nil {
		return nil, err
	}
	return ctx, nil
}

// RotateEpochs recomputes Previous/Current/Next and the proposer schedule
// against st's current slot, called once per epoch transition (C6) and
// once at construction.
func (c *Context) RotateEpochs(st *state.BeaconState) error {
	current := coretime.CurrentEpoch(st.Slot)
	previous := coretime.PrevEpoch(current)
	next := current + 1

	var err error
	c.Previous, err = newShufflingEpoch(st, previous)
	if err != nil {
		return errors.Wrap(err, "could not build previous shuffling epoch")
	}
	c.Current, err = newShufflingEpoch(st, current)
	if err != nil {
		return errors.Wrap(err, "could not build current shuffling epoch")
	}
	c.Next, err = newShufflingEpoch(st, next)
	if err != nil {
		return errors.Wrap(err, "could not build next shuffling epoch")
	}
	return c.computeProposers(st, current)
}

func (c *Context) computeProposers(st *state.BeaconState, epoch primitives.Epoch) error {
	cfg := params.BeaconConfig()
	seed, err := Seed(st, epoch, cfg.DomainBeaconProposer)
	if err != nil {
		return err
	}
	startSlot := coretime.StartSlot(epoch)
	for i := primitives.Slot(0); i < cfg.SlotsPerEpoch; i++ {
		slot := startSlot + i
		slotSeedBuf := append(append([]byte{}, seed[:]...), bytesutil.Bytes8(uint64(slot))...)
		slotSeed := hash.Hash(slotSeedBuf)
		idx, err := ComputeProposerIndex(st, c.Current.ActiveIndices, slotSeed)
		if err != nil {
			return errors.Wrapf(err, "could not compute proposer for slot %d", slot)
		}
		c.Proposers[i] = idx
	}
	return nil
}

// GetBeaconCommittee returns the attesting committee for slot/committeeIndex,
// resolved against whichever of Previous/Current/Next covers slot's epoch.
func (c *Context) GetBeaconCommittee(slot primitives.Slot, committeeIndex primitives.CommitteeIndex) ([]primitives.ValidatorIndex, error) {
	epoch := coretime.CurrentEpoch(slot)
	se, err := c.shufflingForEpoch(epoch)
	if err != nil {
		return nil, err
	}
	cfg := params.BeaconConfig()
	slotInEpoch := uint64(slot) % uint64(cfg.SlotsPerEpoch)
	perSlot := se.CommitteeCount / uint64(cfg.SlotsPerEpoch)
	return se.Committee(slotInEpoch*perSlot + uint64(committeeIndex)), nil
}

// GetBeaconProposer returns the proposer validator index for slot, which
// must fall within the current epoch's precomputed schedule.
func (c *Context) GetBeaconProposer(slot primitives.Slot) (primitives.ValidatorIndex, error) {
	cfg := params.BeaconConfig()
	if coretime.CurrentEpoch(slot) != c.Current.Epoch {
		return 0, errors.Errorf("slot %d is not within the cached current epoch %d", slot, c.Current.Epoch)
	}
	return c.Proposers[uint64(slot)%uint64(cfg.SlotsPerEpoch)], nil
}

func (c *Context) shufflingForEpoch(epoch primitives.Epoch) (*ShufflingEpoch, error) {
	switch epoch {
	case c.Previous.Epoch:
		return c.Previous, nil
	case c.Current.Epoch:
		return c.Current, nil
	case c.Next.Epoch:
		return c.Next, nil
	default:
		return nil, errors.Errorf("epoch %d is outside the cached previous/current/next window", epoch)
	}
}

// Copy returns a Context suitable for speculative use: the pubkey map is
// deep-copied since new deposits may extend it, while the shuffling
// snapshots are shared by reference since they are epoch-immutable once
// computed.
func (c *Context) Copy() *Context {
	cp := &Context{
		PubkeyToIndex: c.PubkeyToIndex.Copy(),
		Previous:      c.Previous,
		Current:       c.Current,
		Next:          c.Next,
		Proposers:     c.Proposers,
	}
	return cp
}

const maxRandomByte = 1<<8 - 1

// ComputeProposerIndex selects one proposer from indices, weighted by
// effective balance via rejection sampling against a random byte stream
// derived from seed, per fastspec.py's compute_proposer_index.
func ComputeProposerIndex(st *state.BeaconState, indices []primitives.ValidatorIndex, seed [32]byte) (primitives.ValidatorIndex, error) {
	if len(indices) == 0 {
		return 0, errors.New("empty active validator set")
	}
	cfg := params.BeaconConfig()
	total := uint64(len(indices))
	i := uint64(0)
	for {
		shuffledI, err := shuffle.ComputeShuffledIndex(i%total, total, seed, true)
		if err != nil {
			return 0, err
		}
		candidateIndex := indices[shuffledI]

		buf := append(append([]byte{}, seed[:]...), bytesutil.Bytes8(i/32)...)
		randomByte := hash.Hash(buf)[i%32]

		v, err := st.ValidatorAtIndex(candidateIndex)
		if err != nil {
			return 0, err
		}
		if uint64(v.EffectiveBalance)*maxRandomByte >= cfg.MaxEffectiveBalance*uint64(randomByte) {
			return candidateIndex, nil
		}
		i++
	}
}
