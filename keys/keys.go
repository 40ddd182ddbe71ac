// Package keys defines the identity-scheme capability behind node identity
// records and the concrete schemes this module supports.
//
// A Scheme names the record tag and public-key field for one signature
// algorithm and knows how to verify signatures and render a public key to the
// raw bytes a node identifier is derived from. A SigningKey adds the private
// half. The two concrete schemes are "v4" (secp256k1) and "ed25519"; the
// Combined types let one record surface carry either.
package keys

// Scheme is the verification side of an identity scheme.
//
// Implementations must never panic on malformed public keys or signatures;
// Verify returns false and NodeAddr returns an error instead.
type Scheme interface {
	// Tag is the scheme identifier stored under the record's "id" key.
	Tag() string
	// KeyField is the record key holding the scheme's public key encoding.
	KeyField() string
	// Verify reports whether sig is a valid signature by pub over payload.
	Verify(pub, payload, sig []byte) bool
	// NodeAddr renders pub to the raw bytes hashed into a node identifier.
	NodeAddr(pub []byte) ([]byte, error)
}

// SigningKey is a Scheme together with a private key that can produce
// signatures and its own public key encoding.
type SigningKey interface {
	Scheme
	// PublicKey returns the encoding stored under KeyField.
	PublicKey() []byte
	// Sign produces a signature over payload in the scheme's fixed format.
	Sign(payload []byte) ([]byte, error)
}

// SchemeSet resolves an identity scheme from the tag found in a record.
type SchemeSet interface {
	// SchemeFor returns the scheme for tag, or false if the set does not
	// hold it.
	SchemeFor(tag string) (Scheme, bool)
}

// CombinedSchemes dispatches between exactly two schemes by tag. It is the
// decode-side counterpart of CombinedKey: a decoder holding one can accept
// records signed under either wrapped scheme and nothing else.
type CombinedSchemes struct {
	A, B Scheme
}

// SchemeFor returns whichever wrapped scheme carries tag.
func (c CombinedSchemes) SchemeFor(tag string) (Scheme, bool) {
	if c.A != nil && c.A.Tag() == tag {
		return c.A, true
	}
	if c.B != nil && c.B.Tag() == tag {
		return c.B, true
	}
	return nil, false
}

// DefaultSchemes accepts both schemes this module defines.
var DefaultSchemes = CombinedSchemes{A: V4Scheme{}, B: Ed25519Scheme{}}

// Only is a SchemeSet holding a single scheme.
type Only struct {
	Scheme Scheme
}

func (o Only) SchemeFor(tag string) (Scheme, bool) {
	if o.Scheme != nil && o.Scheme.Tag() == tag {
		return o.Scheme, true
	}
	return nil, false
}
