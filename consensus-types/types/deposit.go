package types

import (
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	ssz "github.com/prysmaticlabs/beacon-engine/encoding/ssz"
)

// DepositMessage is the signable portion of a deposit, excluding signature,
// used to validate a deposit's own BLS proof-of-possession.
type DepositMessage struct {
	PublicKey             [48]byte
	WithdrawalCredentials [32]byte
	Amount                primitives.Gwei
}

// HashTreeRoot returns the Merkle root of the deposit message container.
func (d *DepositMessage) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := d.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the deposit message's fields to an in-flight hasher.
func (d *DepositMessage) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutBytes(d.PublicKey[:])
	hh.PutBytes(d.WithdrawalCredentials[:])
	hh.PutUint64(uint64(d.Amount))
	return nil
}

// DepositData is what actually gets Merkleized into the deposit contract's
// tree: a DepositMessage plus its self-signature.
type DepositData struct {
	PublicKey             [48]byte
	WithdrawalCredentials [32]byte
	Amount                primitives.Gwei
	Signature             [96]byte
}

// ToMessage strips the signature, returning the portion the signature itself
// was computed over.
func (d *DepositData) ToMessage() *DepositMessage {
	return &DepositMessage{
		PublicKey:             d.PublicKey,
		WithdrawalCredentials: d.WithdrawalCredentials,
		Amount:                d.Amount,
	}
}

// HashTreeRoot returns the Merkle root of the deposit data container.
func (d *DepositData) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := d.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the deposit data's fields to an in-flight hasher.
func (d *DepositData) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutBytes(d.PublicKey[:])
	hh.PutBytes(d.WithdrawalCredentials[:])
	hh.PutUint64(uint64(d.Amount))
	hh.PutBytes(d.Signature[:])
	return nil
}

// DepositTreeDepth is the depth of the deposit contract's incremental Merkle
// tree.
const DepositTreeDepth = 32

// Deposit bundles one DepositData with its Merkle proof of inclusion in the
// deposit contract's tree, as observed via the Eth1Data root.
type Deposit struct {
	Proof [DepositTreeDepth + 1][32]byte
	Data  *DepositData
}

// HashTreeRoot returns the Merkle root of the deposit container.
func (d *Deposit) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := d.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the deposit's fields to an in-flight hasher.
func (d *Deposit) HashTreeRootWith(hh *ssz.Hasher) error {
	index := hh.Index()
	for _, p := range d.Proof {
		hh.Append(p[:])
	}
	hh.Merkleize(index)
	index = hh.Index()
	if err := d.Data.HashTreeRootWith(hh); err != nil {
		return err
	}
	hh.Merkleize(index)
	return nil
}
