package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidPhone(t *testing.T) {
	cases := []struct {
		phone string
		valid bool
	}{
		{"09171234567", true},
		{"0917-123-4567", true},
		{"0917 123 4567", true},
		{"(0917) 123.4567", true},
		{"9171234567", false},  // 10 digits, no leading 0
		{"091712345678", false}, // 12 digits
		{"08171234567", false},  // wrong prefix
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, IsValidPhone(tc.phone), "phone %q", tc.phone)
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "09171234567", NormalizePhone("0917-123-4567"))
	assert.Equal(t, "639171234567", NormalizePhone("+63 917 123 4567"))
	assert.Equal(t, "", NormalizePhone("abc"))
}
