// Package shoppinglist consolidates the ingredient rows of every recipe in a
// shopping cart into one line per ingredient and renders the result.
package shoppinglist

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Item is one recipe ingredient row of a recipe in the cart.
type Item struct {
	RecipeID        uint
	IngredientID    uint
	Name            string
	MeasurementUnit string
	Amount          int
}

type Line struct {
	IngredientID    uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

// Consolidate groups items by ingredient id and sums their amounts. Two
// ingredients sharing a name but not an id stay on separate lines. Lines are
// ordered by name, then by id.
func Consolidate(items []Item) []Line {
	positions := make(map[uint]int, len(items))
	lines := make([]Line, 0, len(items))

	for _, item := range items {
		if pos, ok := positions[item.IngredientID]; ok {
			lines[pos].TotalAmount += item.Amount
			continue
		}
		positions[item.IngredientID] = len(lines)
		lines = append(lines, Line{
			IngredientID:    item.IngredientID,
			Name:            item.Name,
			MeasurementUnit: item.MeasurementUnit,
			TotalAmount:     item.Amount,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].IngredientID < lines[j].IngredientID
	})
	return lines
}

func FormatLine(line Line) string {
	return fmt.Sprintf("%s (%s) — %d", line.Name, line.MeasurementUnit, line.TotalAmount)
}

// RenderText writes the plain text export: a title naming the owner followed
// by one FormatLine per ingredient.
func RenderText(w io.Writer, owner string, lines []Line) error {
	var b strings.Builder
	b.WriteString("Shopping list for: ")
	b.WriteString(owner)
	b.WriteString("\n\n")
	for _, line := range lines {
		b.WriteString(FormatLine(line))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func RenderCSV(w io.Writer, lines []Line) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "measurement_unit", "amount"}); err != nil {
		return err
	}
	for _, line := range lines {
		record := []string{line.Name, line.MeasurementUnit, strconv.Itoa(line.TotalAmount)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
