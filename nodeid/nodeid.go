// Package nodeid derives and renders the 32-byte node identifier that
// content-addresses a node identity record.
//
// The identifier is the Keccak-256 hash of the identity scheme's raw
// public-key rendering. The scheme tag is not hashed; it only selects how the
// public key is rendered to raw bytes first.
package nodeid

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/mr-tron/base58/base58"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/sha3"

	"xdao.co/enr/keys"
)

// Size is the length of a node identifier in bytes.
const Size = 32

// ID is a node identifier.
type ID [Size]byte

// FromPublicKey derives the identifier for a public key under the given
// scheme: Keccak-256 of the scheme's raw rendering of pub.
func FromPublicKey(s keys.Scheme, pub []byte) (ID, error) {
	addr, err := s.NodeAddr(pub)
	if err != nil {
		return ID{}, err
	}
	h := sha3.NewLegacyKeccak256()
	h.Write(addr)
	var id ID
	copy(id[:], h.Sum(nil))
	return id, nil
}

// Bytes returns a copy of the identifier.
func (id ID) Bytes() []byte {
	return append([]byte(nil), id[:]...)
}

// String returns the lowercase hex form.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// Base58 returns the legacy base58 text form.
func (id ID) Base58() string {
	return base58.Encode(id[:])
}

// FromHex parses the 64-character hex form.
func FromHex(s string) (ID, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ID{}, fmt.Errorf("nodeid: invalid hex: %w", err)
	}
	return fromBytes(b)
}

// FromBase58 parses the legacy base58 text form.
func FromBase58(s string) (ID, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return ID{}, fmt.Errorf("nodeid: invalid base58: %w", err)
	}
	return fromBytes(b)
}

func fromBytes(b []byte) (ID, error) {
	if len(b) != Size {
		return ID{}, errors.New("nodeid: identifier must be 32 bytes")
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

// RecordCID returns an IPFS-compatible CIDv1 (raw + sha2-256) content address
// for canonical record bytes. This addresses the full signed encoding, unlike
// the node identifier, which addresses the public key alone.
func RecordCID(raw []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(raw, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}
