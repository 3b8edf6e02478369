package services

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"241000000":         "+233241000000",
		"0241000000":        "+233241000000",
		"024 100 0000":      "+233241000000",
		"(024)-100-0000":    "+233241000000",
		"+233241000000":     "+233241000000",
		" +233 24 100 0000": "+233241000000",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := NormalizePhone(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestNormalizePhoneRejects(t *testing.T) {
	for _, in := range []string{"", "24100", "02410000001234", "+44241000000", "233241000000"} {
		t.Run(in, func(t *testing.T) {
			_, err := NormalizePhone(in)
			var pfe *PhoneFormatError
			require.ErrorAs(t, err, &pfe)
			assert.Contains(t, err.Error(), "Expected 13 characters")
		})
	}

	_, err := NormalizePhone("24100")
	assert.EqualError(t, err, fmt.Sprintf(msgPhoneFormat, 9))
}

func TestNormalizePhoneProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		digits := make([]byte, 9)
		for j := range digits {
			digits[j] = byte('0' + rng.Intn(10))
		}
		local := string(digits)
		if i%2 == 0 {
			local = "0" + local
		}

		got, err := NormalizePhone(local)
		require.NoError(t, err, local)
		assert.Len(t, got, 13)
		assert.True(t, strings.HasPrefix(got, "+233"))

		again, err := NormalizePhone(got)
		require.NoError(t, err)
		assert.Equal(t, got, again, "normalization must be idempotent")
	}
}

func TestLocalPhone(t *testing.T) {
	assert.Equal(t, "241000000", LocalPhone("+233241000000"))
	assert.Equal(t, "241000000", LocalPhone("0241000000"))
	assert.Equal(t, "241000000", LocalPhone("241000000"))
	assert.Empty(t, LocalPhone(""))
}
