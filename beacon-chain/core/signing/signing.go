// Package signing derives the domain-separated roots every BLS-signed
// structure in the state transition is checked against.
package signing

import (
	"github.com/pkg/errors"

	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	ssz "github.com/prysmaticlabs/beacon-engine/encoding/ssz"
)

// ComputeDomain mixes a 4-byte domain type with a fork version and the
// genesis validators root, producing the 32-byte domain a signature is
// checked against.
func ComputeDomain(domainType [4]byte, forkVersion [4]byte, genesisValidatorsRoot [32]byte) ([32]byte, error) {
	fd := &types.ForkData{CurrentVersion: forkVersion, GenesisValidatorsRoot: genesisValidatorsRoot}
	forkDataRoot, err := fd.HashTreeRoot()
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not compute fork data root")
	}
	var domain [32]byte
	copy(domain[:4], domainType[:])
	copy(domain[4:], forkDataRoot[:28])
	return domain, nil
}

// ComputeSigningRoot binds an SSZ object's own root to the domain it is
// being signed/verified under, the value a BLS signature actually covers.
func ComputeSigningRoot(obj ssz.HashTreeRootable, domain [32]byte) ([32]byte, error) {
	objRoot, err := obj.HashTreeRoot()
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not compute object root")
	}
	sd := &types.SigningData{ObjectRoot: objRoot, Domain: domain}
	return sd.HashTreeRoot()
}

// Domain resolves the signature domain applicable to epoch under a state's
// fork schedule: the fork's previous_version before fork.epoch, the current
// version at or after it.
func Domain(fork *types.Fork, epoch primitives.Epoch, domainType [4]byte, genesisValidatorsRoot [32]byte) ([32]byte, error) {
	forkVersion := fork.CurrentVersion
	if epoch < fork.Epoch {
		forkVersion = fork.PreviousVersion
	}
	return ComputeDomain(domainType, forkVersion, genesisValidatorsRoot)
}
