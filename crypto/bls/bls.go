// Package bls wraps the three BLS operations the engine relies on:
// verify, fast_aggregate_verify, aggregate. The engine never manipulates
// curve points directly; every call site here names the oracle operation
// it needs, and the heavy lifting is delegated to blst, the production
// BLS12-381 backend the host project ships.
package bls

import (
	blst "github.com/supranational/blst/bindings/go"
)

// domainSeparationTag is the ciphersuite the eth2 BLS signing scheme pins
// signatures to; it never varies across forks for this engine's purposes.
const domainSeparationTag = "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_"

// PublicKey is an uncompressed BLS12-381 G1 point.
type PublicKey = blst.P1Affine

// Signature is an uncompressed BLS12-381 G2 point.
type Signature = blst.P2Affine

// Verify returns false (never panics) for malformed public keys or
// signatures.
func Verify(pubKey []byte, msg [32]byte, sig []byte) bool {
	pk := new(PublicKey).Uncompress(pubKey)
	if pk == nil || !pk.KeyValidate() {
		return false
	}
	s := new(Signature).Uncompress(sig)
	if s == nil || !s.SigValidate(true) {
		return false
	}
	return s.Verify(false, pk, false, msg[:], []byte(domainSeparationTag))
}

// FastAggregateVerify checks a single signature against the aggregate of
// pubKeys over a shared message, as used for IndexedAttestation signatures.
func FastAggregateVerify(pubKeys []([]byte), msg [32]byte, sig []byte) bool {
	if len(pubKeys) == 0 {
		return false
	}
	s := new(Signature).Uncompress(sig)
	if s == nil || !s.SigValidate(true) {
		return false
	}
	pks := make([]*PublicKey, len(pubKeys))
	for i, raw := range pubKeys {
		pk := new(PublicKey).Uncompress(raw)
		if pk == nil {
			return false
		}
		pks[i] = pk
	}
	return s.FastAggregateVerify(true, pks, msg[:], []byte(domainSeparationTag))
}

// Aggregate combines multiple signatures into one, used to build an
// IndexedAttestation's aggregate signature from per-validator shares.
func Aggregate(sigs [][]byte) ([]byte, bool) {
	if len(sigs) == 0 {
		return nil, false
	}
	parsed := make([]*Signature, len(sigs))
	for i, raw := range sigs {
		s := new(Signature).Uncompress(raw)
		if s == nil {
			return nil, false
		}
		parsed[i] = s
	}
	agg := new(blst.P2Aggregate)
	if !agg.Aggregate(parsed, true) {
		return nil, false
	}
	return agg.ToAffine().Compress(), true
}
