package enr

import (
	"bytes"
	"sort"

	"xdao.co/enr/keys"
	"xdao.co/enr/nodeid"
	"xdao.co/enr/rlp"
)

// Encode returns the canonical encoding of r: the list
// [signature, seq, k, v, ...] with keys in ascending byte order. It never
// fails for a Record, which satisfies the size invariant by construction.
func Encode(r *Record) []byte {
	return r.Encode()
}

// Decode parses and verifies a canonical record encoding, accepting both
// identity schemes this module defines.
func Decode(data []byte) (*Record, error) {
	return DecodeWith(data, keys.DefaultSchemes)
}

// DecodeWith parses and verifies a canonical record encoding against the
// given scheme set. Non-canonical, oversized, or unverifiable input is
// rejected; a Record is only ever produced whole.
func DecodeWith(data []byte, set keys.SchemeSet) (*Record, error) {
	if len(data) > MaxEncodedSize {
		return nil, newError(KindDecode, RuleTooLarge, "encoded record exceeds 300 bytes")
	}

	payload, rest, err := rlp.SplitList(data)
	if err != nil {
		return nil, wrapError(KindDecode, RuleMalformed, "record is not a well-formed list", err)
	}
	if len(rest) != 0 {
		return nil, newError(KindDecode, RuleMalformed, "trailing bytes after record")
	}

	sig, payload, err := rlp.SplitString(payload)
	if err != nil {
		return nil, wrapError(KindDecode, RuleMalformed, "invalid signature item", err)
	}
	seq, payload, err := rlp.SplitUint(payload)
	if err != nil {
		return nil, wrapError(KindDecode, RuleMalformed, "invalid sequence number", err)
	}

	pairs := make(map[string][]byte)
	var prev []byte
	for len(payload) > 0 {
		var kb, vb []byte
		kb, payload, err = rlp.SplitString(payload)
		if err != nil {
			return nil, wrapError(KindDecode, RuleMalformed, "invalid pair key", err)
		}
		if len(pairs) > 0 {
			switch c := bytes.Compare(kb, prev); {
			case c == 0:
				return nil, newError(KindDecode, RuleDuplicateKey, "key "+string(kb)+" appears more than once")
			case c < 0:
				return nil, newError(KindDecode, RuleInvalidOrdering, "keys are not in ascending byte order")
			}
		}
		vb, payload, err = rlp.SplitString(payload)
		if err != nil {
			return nil, wrapError(KindDecode, RuleMalformed, "key without value", err)
		}
		pairs[string(kb)] = append([]byte(nil), vb...)
		prev = kb
	}

	tag, ok := pairs[KeyID]
	if !ok {
		return nil, newError(KindDecode, RuleUnsupportedScheme, "record declares no identity scheme")
	}
	scheme, ok := set.SchemeFor(string(tag))
	if !ok {
		return nil, newError(KindDecode, RuleUnsupportedScheme, "unsupported identity scheme "+string(tag))
	}
	pub, ok := pairs[scheme.KeyField()]
	if !ok {
		return nil, newError(KindDecode, RuleMissingPublicKey, "record carries no "+scheme.KeyField()+" public key")
	}

	if !scheme.Verify(pub, encodeContent(seq, pairs), sig) {
		return nil, newError(KindDecode, RuleInvalidSignature, "signature does not verify")
	}
	node, err := nodeid.FromPublicKey(scheme, pub)
	if err != nil {
		// Verify vouched for the key, so this is unreachable for the
		// supported schemes; fail closed regardless.
		return nil, wrapError(KindDecode, RuleInvalidSignature, "node identifier derivation failed", err)
	}

	return &Record{
		scheme: scheme,
		seq:    seq,
		sig:    append([]byte(nil), sig...),
		pairs:  pairs,
		raw:    append([]byte(nil), data...),
		node:   node,
	}, nil
}

// encodeContent encodes the signing payload: the list [seq, k, v, ...]
// without the signature item.
func encodeContent(seq uint64, pairs map[string][]byte) []byte {
	var body []byte
	body = rlp.AppendUint(body, seq)
	body = appendPairs(body, pairs)
	return rlp.AppendList(nil, body)
}

// encodeRecord encodes the full record list [sig, seq, k, v, ...].
func encodeRecord(sig []byte, seq uint64, pairs map[string][]byte) []byte {
	var body []byte
	body = rlp.AppendString(body, sig)
	body = rlp.AppendUint(body, seq)
	body = appendPairs(body, pairs)
	return rlp.AppendList(nil, body)
}

func appendPairs(dst []byte, pairs map[string][]byte) []byte {
	for _, k := range sortedKeys(pairs) {
		dst = rlp.AppendString(dst, []byte(k))
		dst = rlp.AppendString(dst, pairs[k])
	}
	return dst
}

func sortedKeys(pairs map[string][]byte) []string {
	out := make([]string, 0, len(pairs))
	for k := range pairs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
