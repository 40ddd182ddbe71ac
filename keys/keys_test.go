package keys

import (
	"bytes"
	"testing"
)

func testSeed(fill byte) []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = fill
	}
	return seed
}

func TestV4SignVerify(t *testing.T) {
	k, err := NewV4FromSeed(testSeed(0x5a))
	if err != nil {
		t.Fatalf("NewV4FromSeed: %v", err)
	}
	payload := []byte("payload under test")
	sig, err := k.Sign(payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if len(sig) != V4SignatureSize {
		t.Fatalf("signature length %d, want %d", len(sig), V4SignatureSize)
	}
	if !k.Verify(k.PublicKey(), payload, sig) {
		t.Fatalf("signature did not verify")
	}
	if k.Verify(k.PublicKey(), []byte("other payload"), sig) {
		t.Fatalf("signature verified for the wrong payload")
	}

	tampered := append([]byte(nil), sig...)
	tampered[10] ^= 0x01
	if k.Verify(k.PublicKey(), payload, tampered) {
		t.Fatalf("tampered signature verified")
	}
}

func TestV4DeterministicFromSeed(t *testing.T) {
	a, err := NewV4FromSeed(testSeed(0x11))
	if err != nil {
		t.Fatalf("NewV4FromSeed: %v", err)
	}
	b, err := NewV4FromSeed(testSeed(0x11))
	if err != nil {
		t.Fatalf("NewV4FromSeed: %v", err)
	}
	if !bytes.Equal(a.PublicKey(), b.PublicKey()) {
		t.Fatalf("same seed produced different public keys")
	}
	if len(a.PublicKey()) != 33 {
		t.Fatalf("compressed public key length %d, want 33", len(a.PublicKey()))
	}
}

func TestV4NodeAddr(t *testing.T) {
	k, err := NewV4FromSeed(testSeed(0x22))
	if err != nil {
		t.Fatalf("NewV4FromSeed: %v", err)
	}
	addr, err := V4Scheme{}.NodeAddr(k.PublicKey())
	if err != nil {
		t.Fatalf("NodeAddr: %v", err)
	}
	if len(addr) != 64 {
		t.Fatalf("node address length %d, want 64 (x||y without format byte)", len(addr))
	}
	if _, err := (V4Scheme{}).NodeAddr([]byte{0x02, 0x01}); err == nil {
		t.Fatalf("expected error for a malformed public key")
	}
}

func TestV4VerifyMalformedInputs(t *testing.T) {
	k, err := NewV4FromSeed(testSeed(0x33))
	if err != nil {
		t.Fatalf("NewV4FromSeed: %v", err)
	}
	payload := []byte("payload")
	sig, err := k.Sign(payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	s := V4Scheme{}
	if s.Verify([]byte{0x01, 0x02}, payload, sig) {
		t.Fatalf("verified against a malformed public key")
	}
	if s.Verify(k.PublicKey(), payload, sig[:63]) {
		t.Fatalf("verified a short signature")
	}
	if s.Verify(k.PublicKey(), payload, bytes.Repeat([]byte{0xff}, 64)) {
		t.Fatalf("verified an overflowing signature")
	}
}

func TestEd25519SignVerify(t *testing.T) {
	k, err := NewEd25519FromSeed(testSeed(0x44))
	if err != nil {
		t.Fatalf("NewEd25519FromSeed: %v", err)
	}
	payload := []byte("payload under test")
	sig, err := k.Sign(payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if len(sig) != 64 {
		t.Fatalf("signature length %d, want 64", len(sig))
	}
	if !k.Verify(k.PublicKey(), payload, sig) {
		t.Fatalf("signature did not verify")
	}
	sig[0] ^= 0x01
	if k.Verify(k.PublicKey(), payload, sig) {
		t.Fatalf("tampered signature verified")
	}

	addr, err := Ed25519Scheme{}.NodeAddr(k.PublicKey())
	if err != nil {
		t.Fatalf("NodeAddr: %v", err)
	}
	if !bytes.Equal(addr, k.PublicKey()) {
		t.Fatalf("ed25519 node address should be the raw public key")
	}
	if _, err := (Ed25519Scheme{}).NodeAddr(make([]byte, 31)); err == nil {
		t.Fatalf("expected error for a short public key")
	}
}

func TestCombinedSchemesDispatch(t *testing.T) {
	set := DefaultSchemes
	s, ok := set.SchemeFor("v4")
	if !ok || s.KeyField() != "secp256k1" {
		t.Fatalf("SchemeFor(v4) = %v, %v", s, ok)
	}
	s, ok = set.SchemeFor("ed25519")
	if !ok || s.KeyField() != "ed25519" {
		t.Fatalf("SchemeFor(ed25519) = %v, %v", s, ok)
	}
	if _, ok := set.SchemeFor("v5"); ok {
		t.Fatalf("SchemeFor(v5) should not resolve")
	}
}

func TestCombinedKeyDelegates(t *testing.T) {
	v4, err := NewV4FromSeed(testSeed(0x55))
	if err != nil {
		t.Fatalf("NewV4FromSeed: %v", err)
	}
	ck := CombineV4(v4)
	if ck.Tag() != "v4" || ck.KeyField() != "secp256k1" {
		t.Fatalf("wrapped v4 key reports %s/%s", ck.Tag(), ck.KeyField())
	}
	payload := []byte("payload")
	sig, err := ck.Sign(payload)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !(V4Scheme{}).Verify(ck.PublicKey(), payload, sig) {
		t.Fatalf("combined v4 signature did not verify under the plain scheme")
	}

	ed, err := NewEd25519FromSeed(testSeed(0x66))
	if err != nil {
		t.Fatalf("NewEd25519FromSeed: %v", err)
	}
	cke := CombineEd25519(ed)
	if cke.Tag() != "ed25519" {
		t.Fatalf("wrapped ed25519 key reports %s", cke.Tag())
	}
}

func TestOnly(t *testing.T) {
	set := Only{Scheme: V4Scheme{}}
	if _, ok := set.SchemeFor("ed25519"); ok {
		t.Fatalf("Only{v4} resolved ed25519")
	}
	if _, ok := set.SchemeFor("v4"); !ok {
		t.Fatalf("Only{v4} did not resolve v4")
	}
}
