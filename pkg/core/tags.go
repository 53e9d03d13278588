package core

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTagLength is the maximum length of a tag, in runes.
const MaxTagLength = 32

// tagMetaChars are reserved for tag pattern queries.
const tagMetaChars = `*?[]{}\,`

// NormalizeTag trims surrounding whitespace, strips every leading '#'
// and lowercases the result. It does not validate. NormalizeTag is
// idempotent.
func NormalizeTag(s string) string {
	s = strings.TrimLeftFunc(s, func(r rune) bool { return r == '#' || unicode.IsSpace(r) })
	return strings.ToLower(strings.TrimRightFunc(s, unicode.IsSpace))
}

// ValidateTag normalizes s and checks it against the tag rules.
// Tags containing whitespace are rejected, never rewritten.
func ValidateTag(s string) (string, error) {
	tag := NormalizeTag(s)
	if tag == "" {
		return "", &ValidationError{Field: "tag", Value: s, Reason: "tag cannot be empty"}
	}
	if strings.IndexFunc(tag, unicode.IsSpace) >= 0 {
		return "", &ValidationError{Field: "tag", Value: s, Reason: "tag cannot contain spaces"}
	}
	if strings.ContainsAny(tag, tagMetaChars) {
		return "", &ValidationError{Field: "tag", Value: s, Reason: "tag contains reserved characters"}
	}
	if utf8.RuneCountInString(tag) > MaxTagLength {
		return "", &ValidationError{Field: "tag", Value: s, Reason: "tag is too long"}
	}
	return tag, nil
}

// NormalizeTags validates every entry and returns the sorted set of
// normalized tags. Entries that normalize to the same tag collapse.
func NormalizeTags(tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		tag, err := ValidateTag(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
