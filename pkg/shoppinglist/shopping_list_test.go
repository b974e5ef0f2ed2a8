package shoppinglist

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidate_SumsAcrossRecipes(t *testing.T) {
	items := []Item{
		{RecipeID: 1, IngredientID: 10, Name: "Flour", MeasurementUnit: "g", Amount: 200},
		{RecipeID: 2, IngredientID: 10, Name: "Flour", MeasurementUnit: "g", Amount: 300},
		{RecipeID: 2, IngredientID: 11, Name: "Sugar", MeasurementUnit: "g", Amount: 50},
	}

	lines := Consolidate(items)

	assert.ElementsMatch(t, []Line{
		{IngredientID: 10, Name: "Flour", MeasurementUnit: "g", TotalAmount: 500},
		{IngredientID: 11, Name: "Sugar", MeasurementUnit: "g", TotalAmount: 50},
	}, lines)
}

func TestConsolidate_GroupsByIdentityNotName(t *testing.T) {
	items := []Item{
		{RecipeID: 1, IngredientID: 1, Name: "Salt", MeasurementUnit: "g", Amount: 5},
		{RecipeID: 2, IngredientID: 2, Name: "Salt", MeasurementUnit: "pinch", Amount: 1},
		{RecipeID: 3, IngredientID: 1, Name: "Salt", MeasurementUnit: "g", Amount: 10},
	}

	lines := Consolidate(items)

	require.Len(t, lines, 2)
	assert.Equal(t, Line{IngredientID: 1, Name: "Salt", MeasurementUnit: "g", TotalAmount: 15}, lines[0])
	assert.Equal(t, Line{IngredientID: 2, Name: "Salt", MeasurementUnit: "pinch", TotalAmount: 1}, lines[1])
}

func TestConsolidate_SortedByName(t *testing.T) {
	items := []Item{
		{IngredientID: 3, Name: "Milk", MeasurementUnit: "ml", Amount: 100},
		{IngredientID: 1, Name: "Eggs", MeasurementUnit: "pcs", Amount: 2},
		{IngredientID: 2, Name: "Butter", MeasurementUnit: "g", Amount: 30},
	}

	lines := Consolidate(items)

	names := make([]string, 0, len(lines))
	for _, l := range lines {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"Butter", "Eggs", "Milk"}, names)
}

func TestConsolidate_Empty(t *testing.T) {
	assert.Empty(t, Consolidate(nil))
}

func TestRenderText(t *testing.T) {
	lines := []Line{
		{IngredientID: 10, Name: "Flour", MeasurementUnit: "g", TotalAmount: 500},
		{IngredientID: 11, Name: "Sugar", MeasurementUnit: "g", TotalAmount: 50},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, "Ivan Petrov", lines))

	assert.Equal(t, "Shopping list for: Ivan Petrov\n\nFlour (g) — 500\nSugar (g) — 50\n", buf.String())
}

func TestRenderCSV_MatchesTextSums(t *testing.T) {
	lines := Consolidate([]Item{
		{IngredientID: 10, Name: "Flour", MeasurementUnit: "g", Amount: 200},
		{IngredientID: 10, Name: "Flour", MeasurementUnit: "g", Amount: 300},
		{IngredientID: 12, Name: "Pepper, black", MeasurementUnit: "g", Amount: 3},
	})

	var buf bytes.Buffer
	require.NoError(t, RenderCSV(&buf, lines))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"name", "measurement_unit", "amount"},
		{"Flour", "g", "500"},
		{"Pepper, black", "g", "3"},
	}, records)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"txt", FormatText, false},
		{"TEXT", FormatText, false},
		{"csv", FormatCSV, false},
		{"json", FormatJSON, false},
		{"pdf", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "chef_shopping_list.txt", Filename("chef", FormatText))
	assert.Equal(t, "chef_shopping_list.csv", Filename("chef", FormatCSV))
	assert.Equal(t, "foodgram_shopping_list.txt", Filename("", FormatText))
}
