package types

import (
	"testing"

	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/testing/assert"
)

func TestCheckpoint_Equal(t *testing.T) {
	a := &Checkpoint{Epoch: 3, Root: [32]byte{1}}
	b := &Checkpoint{Epoch: 3, Root: [32]byte{1}}
	c := &Checkpoint{Epoch: 4, Root: [32]byte{1}}
	assert.True(t, a.Equal(b), "checkpoints with the same epoch and root must be equal")
	assert.True(t, !a.Equal(c), "checkpoints with different epochs must not be equal")
	assert.True(t, (*Checkpoint)(nil).Equal(nil), "two nil checkpoints must be equal")
	assert.True(t, !a.Equal(nil), "a non-nil checkpoint must not equal nil")
}

func TestCheckpoint_CopyIsIndependent(t *testing.T) {
	a := &Checkpoint{Epoch: 3, Root: [32]byte{1}}
	cp := a.Copy()
	cp.Epoch = 9
	assert.Equal(t, primitives.Epoch(3), a.Epoch, "mutating the copy must not affect the original")
}

func TestAttestationData_Equal(t *testing.T) {
	src := &Checkpoint{Epoch: 1}
	tgt := &Checkpoint{Epoch: 2}
	a := &AttestationData{Slot: 5, Index: 0, Source: src, Target: tgt}
	b := &AttestationData{Slot: 5, Index: 0, Source: src.Copy(), Target: tgt.Copy()}
	c := &AttestationData{Slot: 6, Index: 0, Source: src, Target: tgt}
	assert.True(t, a.Equal(b), "attestation data with matching votes must be equal")
	assert.True(t, !a.Equal(c), "attestation data with a different slot must not be equal")
}

func TestAttestationData_CopyDeepCopiesCheckpoints(t *testing.T) {
	a := &AttestationData{Source: &Checkpoint{Epoch: 1}, Target: &Checkpoint{Epoch: 2}}
	cp := a.Copy()
	cp.Source.Epoch = 99
	assert.Equal(t, primitives.Epoch(1), a.Source.Epoch, "mutating the copy's source checkpoint must not affect the original")
}

func TestEth1Data_Equal(t *testing.T) {
	a := &Eth1Data{DepositRoot: [32]byte{1}, DepositCount: 4, BlockHash: [32]byte{2}}
	b := &Eth1Data{DepositRoot: [32]byte{1}, DepositCount: 4, BlockHash: [32]byte{2}}
	c := &Eth1Data{DepositRoot: [32]byte{1}, DepositCount: 5, BlockHash: [32]byte{2}}
	assert.True(t, a.Equal(b), "eth1 data with identical fields must be equal")
	assert.True(t, !a.Equal(c), "eth1 data with a different deposit count must not be equal")
}

func TestFork_CopyIsIndependent(t *testing.T) {
	f := &Fork{PreviousVersion: [4]byte{1}, CurrentVersion: [4]byte{2}, Epoch: 3}
	cp := f.Copy()
	cp.Epoch = 7
	assert.Equal(t, primitives.Epoch(3), f.Epoch, "mutating the copy must not affect the original")
}

func TestValidator_CopyIsIndependent(t *testing.T) {
	v := &Validator{EffectiveBalance: 32_000_000_000, ExitEpoch: 10}
	cp := v.Copy()
	cp.ExitEpoch = 20
	assert.Equal(t, primitives.Epoch(10), v.ExitEpoch, "mutating the copy must not affect the original")
}

func TestDepositData_ToMessageStripsSignature(t *testing.T) {
	d := &DepositData{
		PublicKey:             [48]byte{1},
		WithdrawalCredentials: [32]byte{2},
		Amount:                32_000_000_000,
		Signature:             [96]byte{3},
	}
	msg := d.ToMessage()
	assert.Equal(t, d.PublicKey, msg.PublicKey)
	assert.Equal(t, d.WithdrawalCredentials, msg.WithdrawalCredentials)
	assert.Equal(t, d.Amount, msg.Amount)
}

func TestBeaconBlockHeader_CopyIsIndependent(t *testing.T) {
	h := &BeaconBlockHeader{Slot: 5, ProposerIndex: 1, BodyRoot: [32]byte{9}}
	cp := h.Copy()
	cp.Slot = 9
	assert.Equal(t, primitives.Slot(5), h.Slot, "mutating the copy must not affect the original")
}
