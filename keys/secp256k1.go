package keys

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"
)

// V4SignatureSize is the length of a "v4" scheme signature: r and s as
// 32-byte big-endian values, concatenated, with no recovery byte.
const V4SignatureSize = 64

// V4Scheme is the "v4" identity scheme: a compressed secp256k1 public key
// stored under "secp256k1", signatures over the Keccak-256 digest of the
// payload, and node addresses rendered as the uncompressed curve point with
// the format byte stripped.
type V4Scheme struct{}

func (V4Scheme) Tag() string      { return "v4" }
func (V4Scheme) KeyField() string { return "secp256k1" }

// Verify reports whether sig is a valid r‖s signature by pub over the
// Keccak-256 digest of payload. Malformed keys and signatures verify false.
func (V4Scheme) Verify(pub, payload, sig []byte) bool {
	if len(sig) != V4SignatureSize {
		return false
	}
	pk, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return false
	}
	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(sig[:32]) || s.SetByteSlice(sig[32:]) {
		// Overflowing the group order is never a valid signature half.
		return false
	}
	return secpecdsa.NewSignature(&r, &s).Verify(keccak256(payload), pk)
}

// NodeAddr returns the uncompressed x‖y point encoding of pub without the
// leading format byte.
func (V4Scheme) NodeAddr(pub []byte) ([]byte, error) {
	pk, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return nil, fmt.Errorf("keys: invalid secp256k1 public key: %w", err)
	}
	return pk.SerializeUncompressed()[1:], nil
}

// V4 is a secp256k1 signing key for the "v4" scheme.
type V4 struct {
	V4Scheme
	priv *secp256k1.PrivateKey
}

// GenerateV4 returns a fresh random v4 signing key.
func GenerateV4() (*V4, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("keys: generate secp256k1 key: %w", err)
	}
	return &V4{priv: priv}, nil
}

// NewV4FromSeed derives a v4 signing key from a 32-byte seed, reduced modulo
// the group order. Intended for tests and tooling that need determinism.
func NewV4FromSeed(seed []byte) (*V4, error) {
	if len(seed) != 32 {
		return nil, errors.New("keys: secp256k1 seed must be 32 bytes")
	}
	priv := secp256k1.PrivKeyFromBytes(seed)
	if priv.Key.IsZero() {
		return nil, errors.New("keys: seed reduces to the zero scalar")
	}
	return &V4{priv: priv}, nil
}

// PublicKey returns the 33-byte compressed point encoding.
func (k *V4) PublicKey() []byte {
	return k.priv.PubKey().SerializeCompressed()
}

// Sign returns the r‖s signature over the Keccak-256 digest of payload.
func (k *V4) Sign(payload []byte) ([]byte, error) {
	compact := secpecdsa.SignCompact(k.priv, keccak256(payload), false)
	// SignCompact prepends a recovery code; the record format carries r‖s only.
	return compact[1:], nil
}

func keccak256(b []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	return h.Sum(nil)
}
