package products

import (
	"fmt"
	"strings"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
	"github.com/thanhngvn/foodcourt-backend/pkg/types"
)

// ValueSeparator joins one option per axis, in axis order, into a variant value.
const ValueSeparator = " / "

// DefaultAxisName marks a product without real attributes: a sole axis named
// "default" with the single option "default" is pre-resolved on load.
const DefaultAxisName = "default"

// Selections maps axis name to the chosen option value. An empty string means
// the axis has not been selected yet.
type Selections map[string]string

// ValidateAxes enforces the axis configuration invariants: at least one axis,
// case-insensitively unique axis names, and case-insensitively unique options
// within each axis.
func ValidateAxes(axes types.VariantAxes) error {
	if len(axes) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one variant axis is required")
	}

	seenNames := map[string]struct{}{}
	for _, axis := range axes {
		name := strings.TrimSpace(axis.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "axis name is required")
		}
		lower := strings.ToLower(name)
		if _, dup := seenNames[lower]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate axis name %q", name)).
				WithDetails(map[string]string{"axes": fmt.Sprintf("axis name %q is not unique", name)})
		}
		seenNames[lower] = struct{}{}

		if len(axis.Options) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("axis %q needs at least one option", name))
		}
		seenOptions := map[string]struct{}{}
		for _, option := range axis.Options {
			value := strings.TrimSpace(option)
			if value == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("axis %q has an empty option", name))
			}
			lowerOpt := strings.ToLower(value)
			if _, dup := seenOptions[lowerOpt]; dup {
				return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate option %q on axis %q", value, name)).
					WithDetails(map[string]string{"axes": fmt.Sprintf("option %q is not unique on axis %q", value, name)})
			}
			seenOptions[lowerOpt] = struct{}{}
		}
	}
	return nil
}

// ValidateVariantValue checks that a variant value decomposes into exactly one
// configured option per axis, in axis order.
func ValidateVariantValue(axes types.VariantAxes, value string) error {
	parts := strings.Split(value, ValueSeparator)
	if len(parts) != len(axes) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("variant value %q must carry one option per axis (%d expected)", value, len(axes)))
	}
	for i, axis := range axes {
		if !containsOption(axis.Options, parts[i]) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("variant value %q: %q is not an option of axis %q", value, parts[i], axis.Name))
		}
	}
	return nil
}

// IsVariantless reports whether the product's sole axis is the default axis,
// meaning selection and quantity are pre-resolved on load.
func IsVariantless(axes types.VariantAxes) bool {
	return len(axes) == 1 && strings.EqualFold(strings.TrimSpace(axes[0].Name), DefaultAxisName)
}

// DefaultSelections seeds every axis with the empty selection, except the
// default axis which auto-selects its sole option.
func DefaultSelections(axes types.VariantAxes) Selections {
	selections := make(Selections, len(axes))
	for _, axis := range axes {
		if strings.EqualFold(strings.TrimSpace(axis.Name), DefaultAxisName) {
			selections[axis.Name] = DefaultAxisName
			continue
		}
		selections[axis.Name] = ""
	}
	return selections
}

// ToggleOption applies a click on an axis option: re-clicking the current
// selection clears the axis, any other option replaces it. Returns a new map;
// the input is not mutated.
func ToggleOption(selections Selections, axis, option string) Selections {
	next := make(Selections, len(selections))
	for k, v := range selections {
		next[k] = v
	}
	if next[axis] == option {
		next[axis] = ""
	} else {
		next[axis] = option
	}
	return next
}

// MissingAxes lists axes without a selection, in configured order.
func MissingAxes(axes types.VariantAxes, selections Selections) []string {
	var missing []string
	for _, axis := range axes {
		if strings.TrimSpace(selections[axis.Name]) == "" {
			missing = append(missing, axis.Name)
		}
	}
	return missing
}

// Resolve matches a complete selection to the variant whose value equals the
// axis-ordered join. It returns nil with no error when the selection is
// complete but no variant carries that combination; incomplete selections
// return a validation error naming the unselected axes. No partial or fuzzy
// matching.
func Resolve(axes types.VariantAxes, selections Selections, variants []models.ProductVariant) (*models.ProductVariant, error) {
	if missing := MissingAxes(axes, selections); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "please select all product attributes").
			WithDetails(map[string]any{"missing_axes": missing})
	}

	parts := make([]string, 0, len(axes))
	for _, axis := range axes {
		option := selections[axis.Name]
		if !containsOption(axis.Options, option) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("%q is not an option of axis %q", option, axis.Name))
		}
		parts = append(parts, option)
	}
	value := strings.Join(parts, ValueSeparator)

	for i := range variants {
		if variants[i].Value == value {
			return &variants[i], nil
		}
	}
	return nil, nil
}

func containsOption(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}
