package enr

import (
	"net"

	"xdao.co/enr/keys"
	"xdao.co/enr/nodeid"
)

// Builder accumulates key-value content for a record before its first
// signature. It is single-use: Build consumes it.
//
// Setters chain; the first invalid call sticks and is reported by Build. The
// "id" and public-key fields are populated by Build itself and cannot be set.
type Builder struct {
	tag      string
	keyField string
	pairs    map[string][]byte
	err      error
	built    bool
}

// NewBuilder returns a builder for a record under the given identity scheme
// tag, e.g. "v4".
func NewBuilder(tag string) *Builder {
	b := &Builder{tag: tag, pairs: make(map[string][]byte)}
	if s, ok := keys.DefaultSchemes.SchemeFor(tag); ok {
		b.keyField = s.KeyField()
	}
	return b
}

// Set stores value under an arbitrary key.
func (b *Builder) Set(key string, value []byte) *Builder {
	if key == KeyID || (b.keyField != "" && key == b.keyField) {
		return b.fail(newError(KindBuild, RuleReservedKey, "key "+key+" is reserved and populated by Build"))
	}
	b.pairs[key] = append([]byte(nil), value...)
	return b
}

// IP stores an IPv4 address under "ip".
func (b *Builder) IP(ip net.IP) *Builder {
	v := ip.To4()
	if v == nil {
		return b.fail(newError(KindBuild, RuleInvalidValue, "not an IPv4 address"))
	}
	b.pairs[KeyIP] = append([]byte(nil), v...)
	return b
}

// IP6 stores an IPv6 address under "ip6".
func (b *Builder) IP6(ip net.IP) *Builder {
	v := ip.To16()
	if v == nil {
		return b.fail(newError(KindBuild, RuleInvalidValue, "not an IP address"))
	}
	b.pairs[KeyIP6] = append([]byte(nil), v...)
	return b
}

// TCP stores the IPv4 TCP port.
func (b *Builder) TCP(port uint16) *Builder {
	b.pairs[KeyTCP] = portBytes(port)
	return b
}

// UDP stores the IPv4 UDP port.
func (b *Builder) UDP(port uint16) *Builder {
	b.pairs[KeyUDP] = portBytes(port)
	return b
}

// TCP6 stores the IPv6 TCP port.
func (b *Builder) TCP6(port uint16) *Builder {
	b.pairs[KeyTCP6] = portBytes(port)
	return b
}

// UDP6 stores the IPv6 UDP port.
func (b *Builder) UDP6(port uint16) *Builder {
	b.pairs[KeyUDP6] = portBytes(port)
	return b
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Build assembles the full pair set, signs it with k at sequence number 1,
// and returns the finished record. The key's scheme must match the tag the
// builder was created with.
func (b *Builder) Build(k keys.SigningKey) (*Record, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.built {
		return nil, newError(KindInternal, "ENR-INT-001", "builder already consumed")
	}
	if k == nil || k.Tag() != b.tag {
		return nil, newError(KindBuild, RuleSchemeMismatch, "signing key scheme does not match builder tag "+b.tag)
	}
	b.built = true

	pairs := make(map[string][]byte, len(b.pairs)+2)
	for key, v := range b.pairs {
		pairs[key] = v
	}
	pairs[KeyID] = []byte(b.tag)
	pairs[k.KeyField()] = k.PublicKey()

	const seq = 1
	sig, err := k.Sign(encodeContent(seq, pairs))
	if err != nil {
		return nil, wrapError(KindBuild, RuleSchemeMismatch, "signing failed", err)
	}
	raw := encodeRecord(sig, seq, pairs)
	if len(raw) > MaxEncodedSize {
		return nil, newError(KindBuild, RuleExceedsMaximumSize, "assembled record exceeds 300 bytes")
	}
	node, err := nodeid.FromPublicKey(k, k.PublicKey())
	if err != nil {
		return nil, wrapError(KindInternal, "ENR-INT-002", "node identifier derivation failed for own key", err)
	}

	return &Record{
		scheme: schemeOf(k),
		seq:    seq,
		sig:    sig,
		pairs:  pairs,
		raw:    raw,
		node:   node,
	}, nil
}

// schemeOf strips a signing key down to its verification scheme so the
// record never retains private key material.
func schemeOf(k keys.SigningKey) keys.Scheme {
	if s, ok := keys.DefaultSchemes.SchemeFor(k.Tag()); ok {
		return s
	}
	return k
}
