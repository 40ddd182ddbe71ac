package enr

import (
	"encoding/base64"
	"strings"

	"xdao.co/enr/keys"
)

// TextPrefix introduces the canonical text form of a record.
const TextPrefix = "enr:"

// Text returns the canonical text form: "enr:" followed by the unpadded
// base64url encoding of the canonical binary form.
func (r *Record) Text() string {
	return TextPrefix + base64.RawURLEncoding.EncodeToString(r.raw)
}

// ParseText parses the text form, accepting both identity schemes this
// module defines. The "enr:" prefix is optional and matched
// case-insensitively.
func ParseText(s string) (*Record, error) {
	return ParseTextWith(s, keys.DefaultSchemes)
}

// ParseTextWith parses the text form against the given scheme set.
func ParseTextWith(s string, set keys.SchemeSet) (*Record, error) {
	if len(s) >= len(TextPrefix) && strings.EqualFold(s[:len(TextPrefix)], TextPrefix) {
		s = s[len(TextPrefix):]
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, wrapError(KindDecode, RuleMalformed, "invalid base64url record text", err)
	}
	return DecodeWith(raw, set)
}
