package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults pass through", 1, 20, 1, 20, 0},
		{"zero page clamps to one", 0, 20, 1, 20, 0},
		{"negative page clamps to one", -5, 20, 1, 20, 0},
		{"zero limit falls back to default", 3, 0, 3, 20, 40},
		{"excessive limit clamps to max", 2, 1000, 2, 100, 100},
		{"limit at max untouched", 1, 100, 1, 100, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Clamp(tc.page, tc.limit)
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantLimit, p.Limit)
			assert.Equal(t, tc.wantOffset, p.Offset)
		})
	}
}

func TestParseSort(t *testing.T) {
	allowed := map[string]string{
		"date":  "sales.sale_date",
		"total": "sales.total_amount",
	}

	s := ParseSort("date", "desc", allowed)
	assert.Equal(t, Sort{Field: "sales.sale_date", Desc: true}, s)
	assert.Equal(t, "sales.sale_date DESC", s.OrderClause())

	s = ParseSort("total", "ASC", allowed)
	assert.False(t, s.Desc)
	assert.Equal(t, "sales.total_amount ASC", s.OrderClause())

	// Unknown fields are dropped entirely, never interpolated into SQL.
	s = ParseSort("1; DROP TABLE sales", "desc", allowed)
	assert.Equal(t, Sort{}, s)
	assert.Empty(t, s.OrderClause())
}

func TestParseSortEmptyField(t *testing.T) {
	s := ParseSort("", "desc", map[string]string{"date": "sale_date"})
	assert.Empty(t, s.OrderClause())
}
