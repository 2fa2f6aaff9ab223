package blocks

import "github.com/pkg/errors"

// Sentinel errors returned by the block-processing operations, distinct
// from the wrapped structural errors (state bounds, hashing failures) so
// callers can branch on what kind of validation failed.
var (
	// ErrInvalidBlockRoot is returned when a block's parent_root does not
	// match the state's latest_block_header root.
	ErrInvalidBlockRoot = errors.New("block parent root does not match state's latest block header")
	// ErrInvalidSignature is returned when a BLS signature fails
	// verification for any signed block-processing operation.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrInvalidDepositCount is returned when a block does not carry the
	// exact number of outstanding deposits it should.
	ErrInvalidDepositCount = errors.New("block does not process the expected number of deposits")
	// ErrInvalidMerkleBranch is returned when a deposit's Merkle inclusion
	// proof does not verify against the state's eth1 deposit root.
	ErrInvalidMerkleBranch = errors.New("deposit merkle branch does not verify against the eth1 deposit root")
)
