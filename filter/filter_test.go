package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tapline/tapline/filter"
)

func TestTrimFilter(t *testing.T) {
	r := filter.NewRegistry()
	fn, ok := r.Lookup("trim")
	if assert.True(t, ok) {
		assert.Equal(t, "20", fn(" 20 ", nil))
	}
}

func TestKnownRecognisesSkipWithoutRegistration(t *testing.T) {
	r := filter.NewRegistry()
	assert.True(t, r.Known("skip"))
	assert.False(t, r.Known("uppercase"))
}

func TestRegisterCustomFilter(t *testing.T) {
	r := filter.NewRegistry()
	r.Register("upper", func(value string, _ []string) string {
		out := make([]byte, len(value))
		for i := 0; i < len(value); i++ {
			c := value[i]
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			out[i] = c
		}
		return string(out)
	})
	fn, ok := r.Lookup("upper")
	if assert.True(t, ok) {
		assert.Equal(t, "ABC", fn("abc", nil))
	}
}

func TestUnknownFilterError(t *testing.T) {
	err := &filter.UnknownFilterError{Name: "bogus"}
	assert.Contains(t, err.Error(), "bogus")
}
