package cart

// ClampQuantity coerces a purchase quantity into [1, stock]. A stock of zero
// means out of stock and always clamps to zero, which callers treat as
// unpurchasable.
func ClampQuantity(value, stock int) int {
	if stock <= 0 {
		return 0
	}
	if value < 1 {
		return 1
	}
	if value > stock {
		return stock
	}
	return value
}

// Increment steps the quantity up by one, never above stock. Out-of-stock
// lines are a no-op.
func Increment(value, stock int) int {
	if stock <= 0 {
		return 0
	}
	return ClampQuantity(value+1, stock)
}

// Decrement steps the quantity down by one, never below one.
func Decrement(value, stock int) int {
	if stock <= 0 {
		return 0
	}
	return ClampQuantity(value-1, stock)
}
