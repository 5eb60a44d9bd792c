// Package composer holds the pure order-composition logic: toggling catalog
// items in and out of a line set, quantity normalization, derived totals and
// fallback code generation. All functions return new slices and never mutate
// their inputs, so callers can treat line sets as immutable state.
package composer

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zyrnwastaken/mini-crm/internal/domain"
)

// ToggleLine flips an item's membership in the line set. If a line already
// references the item it is removed; otherwise a new line is appended with
// quantity 1 and the item's current price as the snapshot.
func ToggleLine(lines []domain.OrderLine, item domain.Item) []domain.OrderLine {
	out := make([]domain.OrderLine, 0, len(lines)+1)
	removed := false
	for _, line := range lines {
		if line.ItemID == item.ID {
			removed = true
			continue
		}
		out = append(out, line)
	}
	if removed {
		return out
	}
	return append(out, domain.OrderLine{
		ItemID:   item.ID,
		Quantity: 1,
		Price:    item.Price,
	})
}

// NormalizeQuantity parses raw as an integer quantity. Anything that does not
// parse to a positive integer falls back to 1. This is the single fallback
// rule for operator-typed quantities; it never rejects input.
func NormalizeQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// SetQuantity returns a new line set with the matching line's quantity
// replaced by the normalized value of raw. Non-matching lines pass through
// unchanged.
func SetQuantity(lines []domain.OrderLine, itemID uuid.UUID, raw string) []domain.OrderLine {
	quantity := NormalizeQuantity(raw)
	out := make([]domain.OrderLine, len(lines))
	for i, line := range lines {
		if line.ItemID == itemID {
			line.Quantity = quantity
		}
		out[i] = line
	}
	return out
}

// NormalizeLines applies the quantity fallback to every line and drops
// duplicate item references, keeping the first occurrence. An order's line
// set references each item at most once.
func NormalizeLines(lines []domain.OrderLine) []domain.OrderLine {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	out := make([]domain.OrderLine, 0, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.ItemID]; dup {
			continue
		}
		seen[line.ItemID] = struct{}{}
		line.Quantity = effectiveQuantity(line)
		out = append(out, line)
	}
	return out
}

type Totals struct {
	TotalQuantity int
	TotalPrice    decimal.Decimal
}

// DisplayPrice renders the total with exactly two decimal places ("25.50").
func (t Totals) DisplayPrice() string {
	return t.TotalPrice.StringFixed(2)
}

// ComputeTotals sums quantities and quantity*price over the line set. A line
// with no quantity still counts as one unit; a line with no price contributes
// zero. The price total is rounded to two decimal places.
func ComputeTotals(lines []domain.OrderLine) Totals {
	totalQuantity := 0
	totalPrice := decimal.Zero
	for _, line := range lines {
		quantity := effectiveQuantity(line)
		totalQuantity += quantity
		totalPrice = totalPrice.Add(line.Price.Mul(decimal.NewFromInt(int64(quantity))))
	}
	return Totals{
		TotalQuantity: totalQuantity,
		TotalPrice:    totalPrice.Round(2),
	}
}

func effectiveQuantity(line domain.OrderLine) int {
	if line.Quantity <= 0 {
		return 1
	}
	return line.Quantity
}

// GenerateCode produces prefix + current unix milliseconds as a fallback code
// when the operator leaves the code field blank. Two calls within the same
// millisecond collide; that is acceptable for a display convenience, codes
// are not primary keys.
func GenerateCode(prefix string) string {
	return prefix + strconv.FormatInt(time.Now().UnixMilli(), 10)
}
