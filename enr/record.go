// Package enr implements signed, versioned, key-value node identity records.
//
// A record binds a node's reachability metadata to a signature under a
// declared identity scheme and derives a 32-byte node identifier from the
// public key. The canonical binary form is an RLP-style list
// [signature, seq, k, v, ...] with keys in ascending byte order and a hard
// 300-byte ceiling; two records are equal exactly when their canonical
// encodings are equal.
//
// Records are built with a Builder or decoded with Decode. Every mutator
// takes the signing key, bumps the sequence number, and re-signs atomically;
// an observable record always verifies against its own content.
//
// Concurrency: a Record has no internal locking. Concurrent readers may share
// one; mutation requires exclusive access.
package enr

import (
	"bytes"
	"net"

	"xdao.co/enr/keys"
	"xdao.co/enr/nodeid"
)

// MaxEncodedSize is the hard ceiling on a record's canonical encoding,
// enforced at build, mutation, and decode time.
const MaxEncodedSize = 300

// Reserved and well-known pair keys.
const (
	KeyID   = "id"
	KeyIP   = "ip"
	KeyTCP  = "tcp"
	KeyUDP  = "udp"
	KeyIP6  = "ip6"
	KeyTCP6 = "tcp6"
	KeyUDP6 = "udp6"
)

// Record is a signed node identity record. The zero value is not usable;
// obtain one from Builder.Build, Decode, or ParseText.
type Record struct {
	scheme keys.Scheme
	seq    uint64
	sig    []byte
	pairs  map[string][]byte
	raw    []byte // canonical encoding, kept in lockstep with the fields
	node   nodeid.ID
}

// ID returns the identity scheme tag.
func (r *Record) ID() string { return r.scheme.Tag() }

// Seq returns the sequence number.
func (r *Record) Seq() uint64 { return r.seq }

// Signature returns a copy of the signature bytes.
func (r *Record) Signature() []byte {
	return append([]byte(nil), r.sig...)
}

// NodeID returns the derived node identifier.
func (r *Record) NodeID() nodeid.ID { return r.node }

// PublicKey returns a copy of the scheme's public key encoding.
func (r *Record) PublicKey() []byte {
	return append([]byte(nil), r.pairs[r.scheme.KeyField()]...)
}

// Keys returns every pair key in ascending byte order, including the
// reserved "id" and public-key fields.
func (r *Record) Keys() []string {
	return sortedKeys(r.pairs)
}

// Get returns a copy of the raw value stored under key.
func (r *Record) Get(key string) ([]byte, bool) {
	v, ok := r.pairs[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v...), true
}

// IP returns the IPv4 address, if present and well-formed.
func (r *Record) IP() (net.IP, bool) {
	v, ok := r.pairs[KeyIP]
	if !ok || len(v) != net.IPv4len {
		return nil, false
	}
	return net.IPv4(v[0], v[1], v[2], v[3]).To4(), true
}

// IP6 returns the IPv6 address, if present and well-formed.
func (r *Record) IP6() (net.IP, bool) {
	v, ok := r.pairs[KeyIP6]
	if !ok || len(v) != net.IPv6len {
		return nil, false
	}
	return append(net.IP(nil), v...), true
}

// TCP returns the IPv4 TCP port, if present and well-formed.
func (r *Record) TCP() (uint16, bool) { return r.port(KeyTCP) }

// UDP returns the IPv4 UDP port, if present and well-formed.
func (r *Record) UDP() (uint16, bool) { return r.port(KeyUDP) }

// TCP6 returns the IPv6 TCP port, if present and well-formed.
func (r *Record) TCP6() (uint16, bool) { return r.port(KeyTCP6) }

// UDP6 returns the IPv6 UDP port, if present and well-formed.
func (r *Record) UDP6() (uint16, bool) { return r.port(KeyUDP6) }

func (r *Record) port(key string) (uint16, bool) {
	v, ok := r.pairs[key]
	if !ok {
		return 0, false
	}
	return parsePort(v)
}

// Encode returns a copy of the canonical encoding.
func (r *Record) Encode() []byte {
	return append([]byte(nil), r.raw...)
}

// Equal reports whether r and o have identical canonical encodings.
func (r *Record) Equal(o *Record) bool {
	return bytes.Equal(r.raw, o.raw)
}

// Compare orders records by sequence number, then by node identifier, for
// latest-wins replacement policies. It returns -1, 0, or 1.
func (r *Record) Compare(o *Record) int {
	switch {
	case r.seq < o.seq:
		return -1
	case r.seq > o.seq:
		return 1
	}
	return bytes.Compare(r.node[:], o.node[:])
}

// Set stores value under key, bumps the sequence number, and re-signs with k.
// The reserved keys "id" and the scheme's public-key field cannot be set.
func (r *Record) Set(key string, value []byte, k keys.SigningKey) error {
	if key == KeyID || key == r.scheme.KeyField() {
		return newError(KindMutate, RuleReservedKey, "key "+key+" is reserved and maintained by the record itself")
	}
	v := append([]byte(nil), value...)
	return r.commit(k, func(pairs map[string][]byte) {
		pairs[key] = v
	})
}

// Remove deletes key, bumps the sequence number, and re-signs with k.
// Removing an absent key is a no-op and leaves the record untouched.
func (r *Record) Remove(key string, k keys.SigningKey) error {
	if key == KeyID || key == r.scheme.KeyField() {
		return newError(KindMutate, RuleReservedKey, "key "+key+" is reserved and maintained by the record itself")
	}
	if _, ok := r.pairs[key]; !ok {
		return nil
	}
	return r.commit(k, func(pairs map[string][]byte) {
		delete(pairs, key)
	})
}

// SetIP stores an IPv4 address under "ip".
func (r *Record) SetIP(ip net.IP, k keys.SigningKey) error {
	v := ip.To4()
	if v == nil {
		return newError(KindMutate, RuleInvalidValue, "not an IPv4 address")
	}
	return r.setRaw(KeyIP, v, k)
}

// SetIP6 stores an IPv6 address under "ip6".
func (r *Record) SetIP6(ip net.IP, k keys.SigningKey) error {
	v := ip.To16()
	if v == nil {
		return newError(KindMutate, RuleInvalidValue, "not an IP address")
	}
	return r.setRaw(KeyIP6, v, k)
}

// SetTCP stores the IPv4 TCP port.
func (r *Record) SetTCP(port uint16, k keys.SigningKey) error {
	return r.setRaw(KeyTCP, portBytes(port), k)
}

// SetUDP stores the IPv4 UDP port.
func (r *Record) SetUDP(port uint16, k keys.SigningKey) error {
	return r.setRaw(KeyUDP, portBytes(port), k)
}

// SetTCP6 stores the IPv6 TCP port.
func (r *Record) SetTCP6(port uint16, k keys.SigningKey) error {
	return r.setRaw(KeyTCP6, portBytes(port), k)
}

// SetUDP6 stores the IPv6 UDP port.
func (r *Record) SetUDP6(port uint16, k keys.SigningKey) error {
	return r.setRaw(KeyUDP6, portBytes(port), k)
}

func (r *Record) setRaw(key string, value []byte, k keys.SigningKey) error {
	v := append([]byte(nil), value...)
	return r.commit(k, func(pairs map[string][]byte) {
		pairs[key] = v
	})
}

// commit applies mutate to a draft of the pair set, signs the draft, and only
// then replaces the record's state. A failure at any step leaves the record
// exactly as it was.
func (r *Record) commit(k keys.SigningKey, mutate func(pairs map[string][]byte)) error {
	if err := r.checkSigner(k); err != nil {
		return err
	}
	draft := make(map[string][]byte, len(r.pairs)+1)
	for key, v := range r.pairs {
		draft[key] = v
	}
	mutate(draft)

	seq := r.seq + 1
	sig, err := k.Sign(encodeContent(seq, draft))
	if err != nil {
		return wrapError(KindMutate, RuleSigningKeyMismatch, "re-signing failed", err)
	}
	raw := encodeRecord(sig, seq, draft)
	if len(raw) > MaxEncodedSize {
		return newError(KindMutate, RuleMutationTooLarge, "mutation would push the encoded record over 300 bytes")
	}

	r.pairs = draft
	r.seq = seq
	r.sig = sig
	r.raw = raw
	return nil
}

func (r *Record) checkSigner(k keys.SigningKey) error {
	if k == nil || k.Tag() != r.scheme.Tag() || !bytes.Equal(k.PublicKey(), r.pairs[r.scheme.KeyField()]) {
		return newError(KindMutate, RuleSigningKeyMismatch, "signing key does not match the record's scheme and public key")
	}
	return nil
}

// portBytes renders a port as its minimal big-endian byte string, matching
// the canonical integer encoding. Zero is the empty string.
func portBytes(p uint16) []byte {
	switch {
	case p == 0:
		return nil
	case p < 0x100:
		return []byte{byte(p)}
	default:
		return []byte{byte(p >> 8), byte(p)}
	}
}

// parsePort accepts only the minimal big-endian form of a 16-bit value.
func parsePort(v []byte) (uint16, bool) {
	switch len(v) {
	case 0:
		return 0, true
	case 1:
		if v[0] == 0 {
			return 0, false
		}
		return uint16(v[0]), true
	case 2:
		if v[0] == 0 {
			return 0, false
		}
		return uint16(v[0])<<8 | uint16(v[1]), true
	default:
		return 0, false
	}
}
