package domain_test

import (
	"testing"

	"github.com/ledgerpos/credit-terminal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Run("parses whole unit amounts into cents", func(t *testing.T) {
		cents, err := domain.ParseAmount("1234")
		require.NoError(t, err)
		assert.Equal(t, int64(123400), cents)
	})

	t.Run("strips grouping separators", func(t *testing.T) {
		cents, err := domain.ParseAmount("1,234")
		require.NoError(t, err)
		assert.Equal(t, int64(123400), cents)

		cents, err = domain.ParseAmount(" 12 500 ")
		require.NoError(t, err)
		assert.Equal(t, int64(1250000), cents)
	})

	t.Run("parses zero", func(t *testing.T) {
		cents, err := domain.ParseAmount("0")
		require.NoError(t, err)
		assert.Equal(t, int64(0), cents)
	})

	t.Run("rejects fractional input including .00", func(t *testing.T) {
		_, err := domain.ParseAmount("1,234.00")
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidAmountInput))

		_, err = domain.ParseAmount("10.5")
		assert.Error(t, err)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := domain.ParseAmount("-5")
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidAmountInput))
	})

	t.Run("rejects non-numeric input", func(t *testing.T) {
		for _, input := range []string{"", "   ", "abc", "12a4", "1e3", "+10", ","} {
			_, err := domain.ParseAmount(input)
			assert.Error(t, err, "input %q", input)
		}
	})

	t.Run("rejects absurdly large amounts", func(t *testing.T) {
		_, err := domain.ParseAmount("99999999999999999999")
		assert.Error(t, err)
	})
}

func TestFormatCents(t *testing.T) {
	t.Run("groups thousands", func(t *testing.T) {
		assert.Equal(t, "1,234", domain.FormatCents(123400, "RWF", false))
		assert.Equal(t, "1,234,567", domain.FormatCents(123456700, "RWF", false))
	})

	t.Run("shows cent remainder only when nonzero", func(t *testing.T) {
		assert.Equal(t, "12", domain.FormatCents(1200, "RWF", false))
		assert.Equal(t, "12.34", domain.FormatCents(1234, "RWF", false))
		assert.Equal(t, "0.05", domain.FormatCents(5, "RWF", false))
	})

	t.Run("prefixes currency when requested", func(t *testing.T) {
		assert.Equal(t, "RWF 1,234", domain.FormatCents(123400, "RWF", true))
	})

	t.Run("formats negative amounts", func(t *testing.T) {
		assert.Equal(t, "-1,234", domain.FormatCents(-123400, "RWF", false))
	})
}

func TestNewMoney(t *testing.T) {
	t.Run("creates money successfully", func(t *testing.T) {
		m, err := domain.NewMoney(5000, "RWF")
		require.NoError(t, err)
		assert.Equal(t, int64(5000), m.Cents)
		assert.Equal(t, "RWF", m.Currency)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := domain.NewMoney(-1, "RWF")
		assert.Error(t, err)
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := domain.NewMoney(100, "")
		assert.Error(t, err)
	})
}

func TestCentsArithmetic(t *testing.T) {
	assert.Equal(t, int64(300), domain.AddCents(100, 200))
	assert.Equal(t, int64(-100), domain.SubtractCents(100, 200))
	assert.Equal(t, int64(0), domain.ClampNonNegative(-100))
	assert.Equal(t, int64(42), domain.ClampNonNegative(42))
}
