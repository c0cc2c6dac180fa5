package orcid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrefixVariants(t *testing.T) {
	// All documented scheme variants of the same identifier must
	// collapse to the identical canonical value.
	variants := []string{
		"orcid.org/0000-0001-2345-6789",
		"http://orcid.org/0000-0001-2345-6789",
		"https://orcid.org/0000-0001-2345-6789",
		"orcid:0000-0001-2345-6789",
		"orcid:orcid.org/0000-0001-2345-6789",
		"https://orcid.org/orcid.org/0000-0001-2345-6789",
	}
	for _, raw := range variants {
		id, ok := Normalize(raw)
		require.True(t, ok, "variant %q should normalize", raw)
		assert.Equal(t, ID("0000-0001-2345-6789"), id, "variant %q", raw)
	}
}

func TestNormalizeMessyInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ID
		ok   bool
	}{
		{
			name: "embedded quoted name",
			raw:  `https://orcid.org/0000-0002-7245-3450"laurenm.wishnie"`,
			want: "0000-0002-7245-3450",
			ok:   true,
		},
		{
			name: "internal spaces and commas",
			raw:  "https://orcid.org/ 0000-0001-2345-6789,",
			want: "0000-0001-2345-6789",
			ok:   true,
		},
		{
			name: "trailing slash",
			raw:  "http://orcid.org/0000-0001-2345-6789/",
			want: "0000-0001-2345-6789",
			ok:   true,
		},
		{
			name: "uppercase scheme",
			raw:  "HTTPS://ORCID.ORG/0000-0001-2345-6789",
			want: "0000-0001-2345-6789",
			ok:   true,
		},
		{
			name: "lowercase checksum letter uppercased",
			raw:  "orcid:0000-0002-9079-593x",
			want: "0000-0002-9079-593X",
			ok:   true,
		},
		{name: "plain text", raw: "hello world", ok: false},
		{name: "empty", raw: "", ok: false},
		{name: "only quote", raw: `"laurenm.wishnie"`, ok: false},
		{name: "bare identifier without scheme", raw: "0000-0001-2345-6789", ok: false},
		{name: "scheme with garbage payload", raw: "orcid:not-an-id", ok: false},
		{name: "scheme only", raw: "https://orcid.org/", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Normalize(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, id)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	// Re-normalizing a canonical value with any scheme re-attached
	// yields the same value.
	id, ok := Normalize("https://orcid.org/0000-0001-2345-6789")
	require.True(t, ok)

	again, ok := Normalize("orcid.org/" + id.String())
	require.True(t, ok)
	assert.Equal(t, id, again)
}

func TestIDValid(t *testing.T) {
	assert.True(t, ID("0000-0001-2345-6789").Valid())
	assert.True(t, ID("0000-0002-9079-593X").Valid())
	assert.False(t, ID("0000-0002-9079-593x").Valid(), "checksum letter must be uppercase")
	assert.False(t, ID("0000-0001-2345-678").Valid())
	assert.False(t, ID("0000000123456789").Valid())
	assert.False(t, ID("").Valid())
}

func TestIDChecksum(t *testing.T) {
	assert.True(t, ID("0000-0002-1825-0097").ChecksumOK())
	assert.True(t, ID("0000-0002-9079-593X").ChecksumOK())
	// 9 is the correct check digit over 000000012345678.
	assert.True(t, ID("0000-0001-2345-6789").ChecksumOK())
	assert.False(t, ID("0000-0002-1825-0098").ChecksumOK())
	assert.False(t, ID("0000-0001-2345-6780").ChecksumOK())
}

func TestIDURL(t *testing.T) {
	assert.Equal(t, "https://orcid.org/0000-0002-1825-0097", ID("0000-0002-1825-0097").URL())
}
