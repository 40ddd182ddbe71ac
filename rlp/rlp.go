// Package rlp implements the length-prefixed nested-list encoding used as the
// canonical binary form for node identity records.
//
// The encoding has exactly one valid representation per value. Byte strings up
// to 55 bytes carry a one-byte length prefix; longer strings carry a
// length-of-length prefix. A single byte below 0x80 is its own encoding.
// Unsigned integers are the minimal big-endian byte string with no leading
// zero byte; zero is the empty string. Lists wrap their concatenated payload
// the same way strings wrap their content.
//
// The reader rejects every non-canonical form: padded lengths, long forms
// where a short form fits, and integers with leading zeros. Canonicality is
// enforced here, at the boundary, not repaired.
package rlp

import (
	"encoding/binary"
	"errors"
	"math/bits"
)

const (
	strShortTag  = 0x80
	strLongTag   = 0xb7
	listShortTag = 0xc0
	listLongTag  = 0xf7
	shortLenMax  = 55
)

var (
	// ErrTruncated reports input that ends inside a header or payload.
	ErrTruncated = errors.New("rlp: truncated input")
	// ErrNonCanonical reports a value that has a shorter valid encoding.
	ErrNonCanonical = errors.New("rlp: non-canonical encoding")
	// ErrExpectedString reports a list item where a byte string was required.
	ErrExpectedString = errors.New("rlp: expected a byte string")
	// ErrExpectedList reports a byte string where a list was required.
	ErrExpectedList = errors.New("rlp: expected a list")
	// ErrUintOverflow reports an integer wider than 64 bits.
	ErrUintOverflow = errors.New("rlp: integer overflows uint64")
)

// AppendString appends the encoding of the byte string s to dst.
func AppendString(dst, s []byte) []byte {
	if len(s) == 1 && s[0] < strShortTag {
		return append(dst, s[0])
	}
	dst = appendHeader(dst, strShortTag, strLongTag, len(s))
	return append(dst, s...)
}

// AppendUint appends the encoding of v to dst: the minimal big-endian byte
// string, empty for zero.
func AppendUint(dst []byte, v uint64) []byte {
	if v == 0 {
		return append(dst, strShortTag)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return AppendString(dst, buf[8-uintLen(v):])
}

// AppendList appends a list header for payload followed by the payload
// itself. The payload must already be a concatenation of encoded items.
func AppendList(dst, payload []byte) []byte {
	dst = appendHeader(dst, listShortTag, listLongTag, len(payload))
	return append(dst, payload...)
}

func appendHeader(dst []byte, shortTag, longTag byte, size int) []byte {
	if size <= shortLenMax {
		return append(dst, shortTag+byte(size))
	}
	n := uintLen(uint64(size))
	dst = append(dst, longTag+byte(n))
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(size))
	return append(dst, buf[8-n:]...)
}

func uintLen(v uint64) int {
	return (bits.Len64(v) + 7) / 8
}

// SplitString splits the first item of b, which must be a byte string, from
// the remainder.
func SplitString(b []byte) (content, rest []byte, err error) {
	isList, content, rest, err := split(b)
	if err != nil {
		return nil, nil, err
	}
	if isList {
		return nil, nil, ErrExpectedString
	}
	return content, rest, nil
}

// SplitList splits the first item of b, which must be a list, into its
// payload and the remainder.
func SplitList(b []byte) (payload, rest []byte, err error) {
	isList, payload, rest, err := split(b)
	if err != nil {
		return nil, nil, err
	}
	if !isList {
		return nil, nil, ErrExpectedList
	}
	return payload, rest, nil
}

// SplitUint splits the first item of b, which must be a canonically encoded
// unsigned integer, from the remainder.
func SplitUint(b []byte) (v uint64, rest []byte, err error) {
	content, rest, err := SplitString(b)
	if err != nil {
		return 0, nil, err
	}
	if len(content) > 8 {
		return 0, nil, ErrUintOverflow
	}
	if len(content) > 0 && content[0] == 0 {
		return 0, nil, ErrNonCanonical
	}
	for _, c := range content {
		v = v<<8 | uint64(c)
	}
	return v, rest, nil
}

// split decodes the header of the first item in b and returns whether it is a
// list, its content or payload, and the remaining bytes.
func split(b []byte) (isList bool, content, rest []byte, err error) {
	if len(b) == 0 {
		return false, nil, nil, ErrTruncated
	}
	tag := b[0]
	switch {
	case tag < strShortTag:
		return false, b[:1], b[1:], nil
	case tag <= strLongTag:
		size := int(tag - strShortTag)
		content, rest, err = cut(b[1:], size)
		if err != nil {
			return false, nil, nil, err
		}
		if size == 1 && content[0] < strShortTag {
			// A single byte below 0x80 encodes as itself.
			return false, nil, nil, ErrNonCanonical
		}
		return false, content, rest, nil
	case tag < listShortTag:
		size, tail, err := longSize(b[1:], int(tag-strLongTag))
		if err != nil {
			return false, nil, nil, err
		}
		content, rest, err = cut(tail, size)
		if err != nil {
			return false, nil, nil, err
		}
		return false, content, rest, nil
	case tag <= listLongTag:
		size := int(tag - listShortTag)
		content, rest, err = cut(b[1:], size)
		if err != nil {
			return false, nil, nil, err
		}
		return true, content, rest, nil
	default:
		size, tail, err := longSize(b[1:], int(tag-listLongTag))
		if err != nil {
			return false, nil, nil, err
		}
		content, rest, err = cut(tail, size)
		if err != nil {
			return false, nil, nil, err
		}
		return true, content, rest, nil
	}
}

// longSize reads an n-byte big-endian size field and enforces that the long
// form was necessary: no leading zero byte, and a size above 55.
func longSize(b []byte, n int) (size int, rest []byte, err error) {
	if len(b) < n {
		return 0, nil, ErrTruncated
	}
	if n > 8 || b[0] == 0 {
		return 0, nil, ErrNonCanonical
	}
	var s uint64
	for _, c := range b[:n] {
		s = s<<8 | uint64(c)
	}
	if s <= shortLenMax {
		return 0, nil, ErrNonCanonical
	}
	if s > uint64(int(^uint(0)>>1)) {
		return 0, nil, ErrTruncated
	}
	return int(s), b[n:], nil
}

func cut(b []byte, size int) (content, rest []byte, err error) {
	if len(b) < size {
		return nil, nil, ErrTruncated
	}
	return b[:size], b[size:], nil
}
