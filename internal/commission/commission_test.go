package commission_test

import (
	"testing"

	"github.com/BruksfildServices01/home-services-api/internal/commission"
	"github.com/BruksfildServices01/home-services-api/internal/httperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name       string
		priceCents int64
		rateBps    int64
		wantFee    int64
		wantNet    int64
	}{
		{"R$200 com 15%", 20000, 1500, 3000, 17000},
		{"taxa zero", 20000, 0, 0, 20000},
		{"arredonda half-up pra cima", 333, 1500, 50, 283},   // 49.95 -> 50
		{"arredonda half-up exato", 10, 1500, 2, 8},          // 1.5 -> 2
		{"arredonda pra baixo", 9, 1500, 1, 8},               // 1.35 -> 1
		{"um centavo", 1, 1500, 0, 1},                        // 0.15 -> 0
		{"valor alto sem overflow de float", 999999999, 1500, 150000000, 849999999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split, err := commission.Calculate(tt.priceCents, tt.rateBps)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFee, split.PlatformFeeCents)
			assert.Equal(t, tt.wantNet, split.VendorNetCents)
		})
	}
}

func TestCalculateAlwaysReconstitutesPrice(t *testing.T) {
	prices := []int64{1, 2, 3, 7, 99, 100, 101, 333, 12345, 20000, 987654321}
	rates := []int64{0, 1, 333, 500, 1000, 1500, 2500, 5000, 9999}

	for _, p := range prices {
		for _, r := range rates {
			split, err := commission.Calculate(p, r)
			require.NoError(t, err)
			assert.Equal(t, p, split.PlatformFeeCents+split.VendorNetCents,
				"price=%d rate=%d", p, r)
			assert.GreaterOrEqual(t, split.PlatformFeeCents, int64(0))
		}
	}
}

func TestCalculateRejectsInvalidInput(t *testing.T) {
	_, err := commission.Calculate(0, 1500)
	assert.True(t, httperr.IsBusiness(err, "invalid_price"))

	_, err = commission.Calculate(-100, 1500)
	assert.True(t, httperr.IsBusiness(err, "invalid_price"))

	_, err = commission.Calculate(100, -1)
	assert.True(t, httperr.IsBusiness(err, "invalid_commission_rate"))

	_, err = commission.Calculate(100, 10000)
	assert.True(t, httperr.IsBusiness(err, "invalid_commission_rate"))
}

func TestRateFromDecimal(t *testing.T) {
	bps, err := commission.RateFromDecimal(0.15)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), bps)

	bps, err = commission.RateFromDecimal(0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bps)

	_, err = commission.RateFromDecimal(1)
	assert.Error(t, err)

	_, err = commission.RateFromDecimal(-0.1)
	assert.Error(t, err)
}
