package keys

// CombinedKey is a signing key of either supported scheme, as a closed sum:
// it holds exactly one of a v4 or an ed25519 key and delegates the SigningKey
// surface to it. Callers that sign with a CombinedKey and decode with
// DefaultSchemes handle both algorithms through one pair of types.
type CombinedKey struct {
	key SigningKey
}

// CombineV4 wraps a v4 signing key.
func CombineV4(k *V4) *CombinedKey {
	return &CombinedKey{key: k}
}

// CombineEd25519 wraps an ed25519 signing key.
func CombineEd25519(k *Ed25519) *CombinedKey {
	return &CombinedKey{key: k}
}

func (c *CombinedKey) Tag() string      { return c.key.Tag() }
func (c *CombinedKey) KeyField() string { return c.key.KeyField() }
func (c *CombinedKey) PublicKey() []byte {
	return c.key.PublicKey()
}

func (c *CombinedKey) Sign(payload []byte) ([]byte, error) {
	return c.key.Sign(payload)
}

// Verify routes on the wrapped key's own scheme. Verification of a record
// whose tag belongs to the other scheme goes through DefaultSchemes, not
// through a CombinedKey.
func (c *CombinedKey) Verify(pub, payload, sig []byte) bool {
	return c.key.Verify(pub, payload, sig)
}

func (c *CombinedKey) NodeAddr(pub []byte) ([]byte, error) {
	return c.key.NodeAddr(pub)
}
