package utils

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodes(t *testing.T) {
	tests := []struct {
		name     string
		generate func() string
		prefix   string
	}{
		{"booking", GenerateBookingCode, "BK"},
		{"rental", GenerateRentalCode, "RN"},
		{"payment", GeneratePaymentCode, "PAY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := tt.generate()

			require.True(t, strings.HasPrefix(code, tt.prefix))
			rest := strings.TrimPrefix(code, tt.prefix)
			require.Len(t, rest, 18)

			// prefix + UTC timestamp + 4 random digits
			stamp, err := time.Parse("20060102150405", rest[:14])
			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().UTC(), stamp, time.Minute)

			suffix, err := strconv.Atoi(rest[14:])
			require.NoError(t, err)
			assert.GreaterOrEqual(t, suffix, 1000)
			assert.LessOrEqual(t, suffix, 9999)
		})
	}
}
