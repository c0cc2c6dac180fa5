// Package orcid extracts and canonicalizes ORCID iDs from the free-text
// metadata of ontology graph nodes. Upstream ontologies encode the same
// identifier in dozens of inconsistent ways (bare, prefixed, URL-style,
// double-prefixed, quoted with a trailing name), so canonicalization is
// deliberately forgiving about schemes and strict about the payload.
package orcid

import (
	"regexp"
	"strings"
)

// ID is a canonical ORCID identifier: four hyphen-separated groups of
// four digits, where the final character may be an X checksum letter.
type ID string

// pattern is the structural form of a canonical identifier.
var pattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// String returns the identifier as a plain string.
func (id ID) String() string {
	return string(id)
}

// URL returns the canonical https URL form of the identifier.
func (id ID) URL() string {
	return "https://orcid.org/" + string(id)
}

// Valid reports whether the identifier matches the structural pattern.
func (id ID) Valid() bool {
	return pattern.MatchString(string(id))
}

// ChecksumOK reports whether the final character is the correct
// ISO 7064 mod 11-2 check digit for the leading fifteen digits.
// Valid must hold before calling ChecksumOK.
func (id ID) ChecksumOK() bool {
	digits := strings.ReplaceAll(string(id), "-", "")
	if len(digits) != 16 {
		return false
	}

	total := 0
	for _, r := range digits[:15] {
		total = (total + int(r-'0')) * 2
	}
	remainder := total % 11
	result := (12 - remainder) % 11

	var check byte
	if result == 10 {
		check = 'X'
	} else {
		check = byte('0' + result)
	}
	return digits[15] == check
}

// prefixes are the recognized scheme forms, in priority order. The first
// two cover a double-prefixing bug that shipped in upstream ontology data.
var prefixes = []string{
	"https://orcid.org/orcid.org/",
	"orcid:orcid.org/",
	"orcid:",
	"http://orcid.org/",
	"https://orcid.org/",
	"orcid.org/",
}

// Normalize canonicalizes a raw string fragment into an ID. The second
// return value is false when the fragment is not an identifier: no
// recognized scheme, or a payload that does not fit the structural
// pattern. Bare hyphenated strings without a scheme are intentionally
// rejected to avoid false positives from arbitrary text.
//
// Normalization is idempotent over the payload: re-normalizing the
// canonical value with any recognized scheme re-attached yields the
// same value.
func Normalize(raw string) (ID, bool) {
	s := strings.ToLower(raw)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// Some ontologies concatenate a quoted name after the identifier,
	// e.g. `0000-0002-7245-3450"laurenm.wishnie"`.
	if i := strings.IndexByte(s, '"'); i >= 0 {
		s = s[:i]
	}

	if s == "" {
		return "", false
	}

	matched := false
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}

	s = strings.TrimRight(s, "/")
	s = strings.TrimSpace(s)
	id := ID(strings.ToUpper(s))
	if !id.Valid() {
		return "", false
	}
	return id, true
}
