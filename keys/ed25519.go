package keys

import (
	"errors"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/ed25519"
)

// Ed25519Scheme is the "ed25519" identity scheme: the raw 32-byte public key
// stored under "ed25519", R‖s signatures over the payload itself, and node
// addresses equal to the public key bytes (the encoding has no
// compressed/uncompressed distinction).
type Ed25519Scheme struct{}

func (Ed25519Scheme) Tag() string      { return "ed25519" }
func (Ed25519Scheme) KeyField() string { return "ed25519" }

func (Ed25519Scheme) Verify(pub, payload, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), payload, sig)
}

func (Ed25519Scheme) NodeAddr(pub []byte) ([]byte, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, errors.New("keys: invalid ed25519 public key length")
	}
	return pub, nil
}

// Ed25519 is an ed25519 signing key.
type Ed25519 struct {
	Ed25519Scheme
	priv ed25519.PrivateKey
}

// GenerateEd25519 returns a fresh ed25519 signing key read from rand.
func GenerateEd25519(rand io.Reader) (*Ed25519, error) {
	_, priv, err := ed25519.GenerateKey(rand)
	if err != nil {
		return nil, fmt.Errorf("keys: generate ed25519 key: %w", err)
	}
	return &Ed25519{priv: priv}, nil
}

// NewEd25519FromSeed derives an ed25519 signing key from a 32-byte seed.
func NewEd25519FromSeed(seed []byte) (*Ed25519, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.New("keys: ed25519 seed must be 32 bytes")
	}
	return &Ed25519{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// PublicKey returns the raw 32-byte public key.
func (k *Ed25519) PublicKey() []byte {
	pub := k.priv.Public().(ed25519.PublicKey)
	return append([]byte(nil), pub...)
}

// Sign returns the 64-byte R‖s signature over payload.
func (k *Ed25519) Sign(payload []byte) ([]byte, error) {
	return ed25519.Sign(k.priv, payload), nil
}
