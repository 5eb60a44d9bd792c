package composer

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyrnwastaken/mini-crm/internal/domain"
)

func newTestItem(price string) domain.Item {
	return domain.Item{
		ID:    uuid.New(),
		Code:  "ITM_TEST",
		Name:  "Test Item",
		Price: decimal.RequireFromString(price),
	}
}

func TestToggleLine_AddsNewLine(t *testing.T) {
	item := newTestItem("12.50")

	lines := ToggleLine(nil, item)

	require.Len(t, lines, 1)
	assert.Equal(t, item.ID, lines[0].ItemID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.True(t, lines[0].Price.Equal(item.Price))
}

func TestToggleLine_RemovesExistingLine(t *testing.T) {
	item := newTestItem("12.50")
	other := newTestItem("3.00")

	lines := ToggleLine(nil, item)
	lines = ToggleLine(lines, other)
	lines = ToggleLine(lines, item)

	require.Len(t, lines, 1)
	assert.Equal(t, other.ID, lines[0].ItemID)
}

func TestToggleLine_TwiceIsIdentity(t *testing.T) {
	first := newTestItem("5.00")
	second := newTestItem("7.25")
	original := ToggleLine(ToggleLine(nil, first), second)

	// Toggling a fresh item on and back off returns the original set.
	item := newTestItem("99.99")
	result := ToggleLine(ToggleLine(original, item), item)
	assert.Equal(t, original, result)
}

func TestToggleLine_DoesNotMutateInput(t *testing.T) {
	item := newTestItem("5.00")
	original := ToggleLine(nil, item)
	snapshot := make([]domain.OrderLine, len(original))
	copy(snapshot, original)

	ToggleLine(original, newTestItem("1.00"))
	ToggleLine(original, item)

	assert.Equal(t, snapshot, original)
}

func TestSetQuantity_ReplacesMatchingLine(t *testing.T) {
	item := newTestItem("10.00")
	other := newTestItem("2.00")
	lines := ToggleLine(ToggleLine(nil, item), other)

	updated := SetQuantity(lines, item.ID, "7")

	require.Len(t, updated, 2)
	assert.Equal(t, 7, updated[0].Quantity)
	assert.Equal(t, 1, updated[1].Quantity)
	// input untouched
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestSetQuantity_NormalizesBadInput(t *testing.T) {
	item := newTestItem("10.00")
	lines := SetQuantity(ToggleLine(nil, item), item.ID, "5")

	for _, raw := range []string{"abc", "0", "-3", "", "  "} {
		updated := SetQuantity(lines, item.ID, raw)
		assert.Equal(t, 1, updated[0].Quantity, "raw=%q", raw)
	}
}

func TestNormalizeQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{" 42 ", 42},
		{"abc", 1},
		{"0", 1},
		{"-1", 1},
		{"", 1},
		{"2.5", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeQuantity(tt.raw), "raw=%q", tt.raw)
	}
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil)

	assert.Equal(t, 0, totals.TotalQuantity)
	assert.Equal(t, "0.00", totals.DisplayPrice())
}

func TestComputeTotals_SumsLines(t *testing.T) {
	lines := []domain.OrderLine{
		{ItemID: uuid.New(), Quantity: 2, Price: decimal.RequireFromString("10")},
		{ItemID: uuid.New(), Quantity: 1, Price: decimal.RequireFromString("5.5")},
	}

	totals := ComputeTotals(lines)

	assert.Equal(t, 3, totals.TotalQuantity)
	assert.Equal(t, "25.50", totals.DisplayPrice())
}

func TestComputeTotals_MissingQuantityCountsAsOne(t *testing.T) {
	lines := []domain.OrderLine{
		{ItemID: uuid.New(), Quantity: 0, Price: decimal.RequireFromString("4.00")},
		{ItemID: uuid.New(), Quantity: 2}, // zero price
	}

	totals := ComputeTotals(lines)

	assert.Equal(t, 3, totals.TotalQuantity)
	assert.Equal(t, "4.00", totals.DisplayPrice())
}

func TestNormalizeLines_DropsDuplicateItemRefs(t *testing.T) {
	itemID := uuid.New()
	lines := []domain.OrderLine{
		{ItemID: itemID, Quantity: 2, Price: decimal.RequireFromString("1.00")},
		{ItemID: uuid.New(), Quantity: 0},
		{ItemID: itemID, Quantity: 5, Price: decimal.RequireFromString("9.00")},
	}

	normalized := NormalizeLines(lines)

	require.Len(t, normalized, 2)
	assert.Equal(t, itemID, normalized[0].ItemID)
	assert.Equal(t, 2, normalized[0].Quantity)
	assert.Equal(t, 1, normalized[1].Quantity)
}

func TestGenerateCode(t *testing.T) {
	code := GenerateCode("ORD_")

	assert.NotEmpty(t, code)
	assert.True(t, strings.HasPrefix(code, "ORD_"))
	assert.Greater(t, len(code), len("ORD_"))
}
