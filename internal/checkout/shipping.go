package checkout

import "github.com/snackshack/storefront-backend/pkg/config"

// ShippingQuote is the flat-rate shipping decision for a cart.
type ShippingQuote struct {
	Cents int  `json:"cents"`
	Free  bool `json:"free"`
}

// QuoteShipping applies the flat-rate policy: orders at or above the free
// threshold ship free, everything below pays the flat rate. Free-shipping
// discount codes zero the quote regardless of subtotal.
func QuoteShipping(cfg config.ShippingConfig, subtotalCents int, freeShipping bool) ShippingQuote {
	if freeShipping || subtotalCents >= cfg.FreeThresholdCents {
		return ShippingQuote{Cents: 0, Free: true}
	}
	return ShippingQuote{Cents: cfg.FlatRateCents}
}
