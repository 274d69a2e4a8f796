package enums

// DiscountType describes how a discount code adjusts an order.
type DiscountType string

const (
	DiscountTypePercentage   DiscountType = "PERCENTAGE"
	DiscountTypeFixed        DiscountType = "FIXED"
	DiscountTypeFreeShipping DiscountType = "FREE_SHIPPING"
)

func (t DiscountType) Valid() bool {
	switch t {
	case DiscountTypePercentage, DiscountTypeFixed, DiscountTypeFreeShipping:
		return true
	}
	return false
}
