package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleFixedOrder(t *testing.T) {
	// Field map order must not influence the assembled string.
	fields := map[Capability]string{
		ViewReports:    "view-reports",
		AddCurrency:    "add-currency",
		ViewCurrencies: "view-currencies",
		AddRate:        "add-rate",
	}

	first := Assemble(fields).String()
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Assemble(fields).String())
	}
	assert.Equal(t, "add-currency view-currencies add-rate view-reports", first)
}

func TestAssembleSkipsEmptyAndUnrecognized(t *testing.T) {
	fields := map[Capability]string{
		AddCurrency:           "add-currency",
		ViewCurrencies:        "   ",
		Capability("be-root"): "be-root",
	}

	s := Assemble(fields)
	require.Equal(t, 1, s.Len())
	assert.True(t, s.Has(AddCurrency))
	assert.False(t, s.Has(ViewCurrencies))
	assert.False(t, s.Has(Capability("be-root")))
}

func TestParseRoundTrip(t *testing.T) {
	stored := "add-currency view-currencies add-rate"
	s := Parse(stored)

	assert.Equal(t, stored, s.String())
	assert.True(t, s.Has(AddRate))
	assert.False(t, s.Has(UpdateRate))
}

func TestParseDropsUnknownTokens(t *testing.T) {
	s := Parse("add-currency launch-missiles view-rates")
	assert.Equal(t, "add-currency view-rates", s.String())
}

func TestHasRequiresExactToken(t *testing.T) {
	// "view-currencies" must not satisfy a check for "view-currency"-like
	// prefixes; membership is exact, not substring.
	s := Parse("view-currencies")
	assert.False(t, s.Has(Capability("view-currenc")))
	assert.False(t, s.Has(Capability("currencies")))
	assert.True(t, s.Has(ViewCurrencies))
}

func TestNewSetDeduplicates(t *testing.T) {
	s := NewSet(AddRate, AddRate, ViewRates)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "add-rate view-rates", s.String())
}

func TestWorkerDefault(t *testing.T) {
	s := WorkerDefault()
	assert.True(t, s.Has(UpdateBureau))
	assert.False(t, s.Has(AddAdmin))
	assert.False(t, s.Has(ViewReports))
}
