package enums

import "fmt"

// DiscountType describes how a coupon value is applied to a subtotal.
type DiscountType string

const (
	// DiscountTypePercent scales the subtotal by value/100.
	DiscountTypePercent DiscountType = "percent"
	// DiscountTypeAmount subtracts the value flat, not scaled by subtotal.
	DiscountTypeAmount DiscountType = "amount"
)

var validDiscountTypes = []DiscountType{
	DiscountTypePercent,
	DiscountTypeAmount,
}

// String implements fmt.Stringer.
func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the discount type is recognized.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts a raw string into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}
