package nodeid

import (
	"strings"
	"testing"

	"xdao.co/enr/keys"
)

func v4Key(t *testing.T, fill byte) *keys.V4 {
	t.Helper()
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = fill
	}
	k, err := keys.NewV4FromSeed(seed)
	if err != nil {
		t.Fatalf("NewV4FromSeed: %v", err)
	}
	return k
}

func TestFromPublicKeyDeterministic(t *testing.T) {
	k := v4Key(t, 0x5a)
	a, err := FromPublicKey(keys.V4Scheme{}, k.PublicKey())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	b, err := FromPublicKey(keys.V4Scheme{}, k.PublicKey())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	if a != b {
		t.Fatalf("identical keys derived different identifiers")
	}

	other, err := FromPublicKey(keys.V4Scheme{}, v4Key(t, 0x11).PublicKey())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}
	if a == other {
		t.Fatalf("distinct keys derived the same identifier")
	}
}

func TestFromPublicKeyRejectsMalformedKey(t *testing.T) {
	if _, err := FromPublicKey(keys.V4Scheme{}, []byte{0x02}); err == nil {
		t.Fatalf("expected error for malformed public key")
	}
}

func TestTextForms(t *testing.T) {
	k := v4Key(t, 0x77)
	id, err := FromPublicKey(keys.V4Scheme{}, k.PublicKey())
	if err != nil {
		t.Fatalf("FromPublicKey: %v", err)
	}

	hexForm := id.String()
	if len(hexForm) != 64 || strings.ToLower(hexForm) != hexForm {
		t.Fatalf("hex form %q is not 64 lowercase chars", hexForm)
	}
	back, err := FromHex(hexForm)
	if err != nil {
		t.Fatalf("FromHex: %v", err)
	}
	if back != id {
		t.Fatalf("hex round trip changed the identifier")
	}

	b58, err := FromBase58(id.Base58())
	if err != nil {
		t.Fatalf("FromBase58: %v", err)
	}
	if b58 != id {
		t.Fatalf("base58 round trip changed the identifier")
	}

	if _, err := FromHex("abcd"); err == nil {
		t.Fatalf("expected error for a short hex identifier")
	}
	if _, err := FromBase58("!!!"); err == nil {
		t.Fatalf("expected error for invalid base58")
	}
}

func TestRecordCID(t *testing.T) {
	a, err := RecordCID([]byte("canonical bytes"))
	if err != nil {
		t.Fatalf("RecordCID: %v", err)
	}
	b, err := RecordCID([]byte("canonical bytes"))
	if err != nil {
		t.Fatalf("RecordCID: %v", err)
	}
	if !a.Equals(b) {
		t.Fatalf("identical bytes produced different CIDs")
	}
	c, err := RecordCID([]byte("other bytes"))
	if err != nil {
		t.Fatalf("RecordCID: %v", err)
	}
	if a.Equals(c) {
		t.Fatalf("distinct bytes produced the same CID")
	}
	if !strings.HasPrefix(a.String(), "b") {
		t.Fatalf("CIDv1 string %q does not look base32-multibase encoded", a.String())
	}
}
