package confirm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"yes", "yes\n", true},
		{"y", "y\n", true},
		{"upper case", "YES\n", true},
		{"padded", "  y  \n", true},
		{"no", "n\n", false},
		{"empty line", "\n", false},
		{"eof", "", false},
		{"no newline", "y", true},
		{"other", "sure\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			assert.Equal(t, tt.expected, p.Confirm("Delete product #1?"))
			assert.Equal(t, "Delete product #1? [y/N]: ", out.String())
		})
	}
}

func TestAsk(t *testing.T) {
	assert.NoError(t, Ask(Always, "ok?"))
	assert.ErrorIs(t, Ask(Never, "ok?"), ErrNotConfirmed)
	assert.ErrorIs(t, Ask(nil, "ok?"), ErrNotConfirmed)

	var asked string
	_ = Ask(Func(func(p string) bool { asked = p; return true }), "Delete order #3?")
	assert.Equal(t, "Delete order #3?", asked)
}
