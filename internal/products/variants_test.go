package products

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/thanhngvn/foodcourt-backend/pkg/db/models"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
	"github.com/thanhngvn/foodcourt-backend/pkg/types"
)

func sampleAxes() types.VariantAxes {
	return types.VariantAxes{
		{Name: "Size", Options: []string{"S", "M", "L"}},
		{Name: "Ice", Options: []string{"Less", "Normal"}},
	}
}

func sampleVariants() []models.ProductVariant {
	return []models.ProductVariant{
		{ID: uuid.New(), Value: "S / Less", Price: 45000, Stock: 10},
		{ID: uuid.New(), Value: "M / Normal", Price: 55000, Stock: 3},
		{ID: uuid.New(), Value: "L / Normal", Price: 65000, Stock: 0},
	}
}

func TestValidateAxes(t *testing.T) {
	require.NoError(t, ValidateAxes(sampleAxes()))

	err := ValidateAxes(types.VariantAxes{
		{Name: "Size", Options: []string{"S"}},
		{Name: "size", Options: []string{"Big"}},
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	err = ValidateAxes(types.VariantAxes{
		{Name: "Size", Options: []string{"S", "s"}},
	})
	require.Error(t, err)

	require.Error(t, ValidateAxes(nil))
	require.Error(t, ValidateAxes(types.VariantAxes{{Name: "Size"}}))
	require.Error(t, ValidateAxes(types.VariantAxes{{Name: " ", Options: []string{"S"}}}))
}

func TestValidateVariantValue(t *testing.T) {
	axes := sampleAxes()

	require.NoError(t, ValidateVariantValue(axes, "M / Normal"))
	require.Error(t, ValidateVariantValue(axes, "M"))
	require.Error(t, ValidateVariantValue(axes, "M / Normal / Extra"))
	require.Error(t, ValidateVariantValue(axes, "XL / Normal"))
}

func TestDefaultSelections(t *testing.T) {
	selections := DefaultSelections(sampleAxes())
	require.Equal(t, Selections{"Size": "", "Ice": ""}, selections)

	variantless := types.VariantAxes{{Name: "default", Options: []string{"default"}}}
	require.True(t, IsVariantless(variantless))
	require.Equal(t, Selections{"default": "default"}, DefaultSelections(variantless))
	require.False(t, IsVariantless(sampleAxes()))
}

func TestToggleOption(t *testing.T) {
	selections := DefaultSelections(sampleAxes())

	selections = ToggleOption(selections, "Size", "M")
	require.Equal(t, "M", selections["Size"])

	// Re-clicking the current option clears the axis.
	selections = ToggleOption(selections, "Size", "M")
	require.Equal(t, "", selections["Size"])

	selections = ToggleOption(selections, "Size", "M")
	selections = ToggleOption(selections, "Size", "L")
	require.Equal(t, "L", selections["Size"])
}

func TestResolveIncompleteSelection(t *testing.T) {
	axes := sampleAxes()
	selections := Selections{"Size": "M", "Ice": ""}

	_, err := Resolve(axes, selections, sampleVariants())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, []string{"Ice"}, details["missing_axes"])
}

func TestResolveMatchesAxisOrderedJoin(t *testing.T) {
	axes := sampleAxes()
	variants := sampleVariants()

	resolved, err := Resolve(axes, Selections{"Size": "M", "Ice": "Normal"}, variants)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.Equal(t, int64(55000), resolved.Price)

	// Complete selection with no matching variant resolves to nil, not an error.
	resolved, err = Resolve(axes, Selections{"Size": "S", "Ice": "Normal"}, variants)
	require.NoError(t, err)
	require.Nil(t, resolved)
}

func TestResolveRejectsUnknownOption(t *testing.T) {
	_, err := Resolve(sampleAxes(), Selections{"Size": "XL", "Ice": "Normal"}, sampleVariants())
	require.Error(t, err)
}
