package commission

import "github.com/BruksfildServices01/home-services-api/internal/httperr"

// ===============================
// Comissão da plataforma
// ===============================

// Valores sempre em centavos e taxa em basis points (1500 = 15%),
// para a divisão fechar exata sem ponto flutuante.

const (
	// DefaultRateBps é o fallback quando o admin nunca configurou a taxa.
	DefaultRateBps int64 = 1500

	maxRateBps int64 = 10000
)

type Split struct {
	PlatformFeeCents int64 `json:"platform_fee_cents"`
	VendorNetCents   int64 `json:"vendor_net_cents"`
}

// RateFromDecimal converte uma fração decimal (0.15) para basis points,
// arredondando half-up no quarto dígito.
func RateFromDecimal(rate float64) (int64, error) {
	if rate < 0 || rate >= 1 {
		return 0, httperr.ErrBusiness("invalid_commission_rate")
	}
	return int64(rate*float64(maxRateBps) + 0.5), nil
}

// Calculate reparte o preço bruto entre plataforma e prestador.
// Invariante: PlatformFeeCents + VendorNetCents == priceCents, sempre.
func Calculate(priceCents int64, rateBps int64) (Split, error) {
	if priceCents <= 0 {
		return Split{}, httperr.ErrBusiness("invalid_price")
	}
	if rateBps < 0 || rateBps >= maxRateBps {
		return Split{}, httperr.ErrBusiness("invalid_commission_rate")
	}

	// half-up na divisão inteira por 10000
	fee := (priceCents*rateBps + maxRateBps/2) / maxRateBps

	return Split{
		PlatformFeeCents: fee,
		VendorNetCents:   priceCents - fee,
	}, nil
}
