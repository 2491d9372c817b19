package types

// VariantAxis is a named product attribute with its selectable option values.
// Axis order is significant: variant values join one option per axis in this
// order.
type VariantAxis struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// VariantAxes is the ordered axis configuration stored on a product.
type VariantAxes []VariantAxis

// Names returns the axis names in configured order.
func (a VariantAxes) Names() []string {
	names := make([]string, 0, len(a))
	for _, axis := range a {
		names = append(names, axis.Name)
	}
	return names
}
