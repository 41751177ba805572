package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse extracts and validates page/limit from query parameters.
// Page 0 or negative is clamped to 1; limit above MaxLimit is clamped to MaxLimit.
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	return Clamp(page, limit)
}

// Clamp normalizes raw page/limit values into valid Params.
func Clamp(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Sort holds a validated sort column and direction.
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort validates a caller-specified sort field against the allowed set.
// An unrecognized field yields an empty Sort (no ordering) rather than an error.
func ParseSort(field, order string, allowed map[string]string) Sort {
	column, ok := allowed[field]
	if !ok {
		return Sort{}
	}
	return Sort{
		Field: column,
		Desc:  strings.EqualFold(order, "desc"),
	}
}

// OrderClause renders the sort as an SQL ORDER BY fragment, or "" when unset.
func (s Sort) OrderClause() string {
	if s.Field == "" {
		return ""
	}
	if s.Desc {
		return s.Field + " DESC"
	}
	return s.Field + " ASC"
}
