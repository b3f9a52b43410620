package media

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeText_RoundTrip(t *testing.T) {
	tests := []string{
		"plain text",
		`colon: and more`,
		`back\slash`,
		`double "quote"`,
		`100% sure`,
		`it's, a; mix: of \ every "special" % char [here]`,
		`ellipsis… and unicode – fine`,
		`a=b`,
	}
	for _, text := range tests {
		escaped, err := EscapeText(text)
		require.NoError(t, err, "text %q", text)
		assert.Equal(t, text, UnescapeText(escaped), "round trip of %q", text)
	}
}

func TestEscapeText_EscapesEverySpecial(t *testing.T) {
	escaped, err := EscapeText(`a:b\c"d%e'f`)
	require.NoError(t, err)
	assert.Equal(t, `a\:b\\c\"d\%e\'f`, escaped)
}

func TestEscapeText_RejectsControlCharacters(t *testing.T) {
	for _, text := range []string{"line\nbreak", "carriage\rreturn", "nul\x00byte", "tab\there"} {
		_, err := EscapeText(text)
		assert.Error(t, err, "text %q", text)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		d    string
		want string
	}{
		{"0s", "00:00:00.000"},
		{"1.5s", "00:00:01.500"},
		{"2m16.612s", "00:02:16.612"},
		{"1h2m3.004s", "01:02:03.004"},
	}
	for _, tt := range tests {
		d, err := time.ParseDuration(tt.d)
		require.NoError(t, err)
		assert.Equal(t, tt.want, FormatTimestamp(d))
	}
}
