package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"retailpos/pkg/apperr"
	"retailpos/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("customer 9: %w", apperr.ErrReferenceNotFound), http.StatusNotFound},
		{fmt.Errorf("barcode taken: %w", apperr.ErrDuplicateKey), http.StatusConflict},
		{fmt.Errorf("already cancelled: %w", apperr.ErrInvalidState), http.StatusConflict},
		{fmt.Errorf("2 left: %w", apperr.ErrInsufficientStock), http.StatusUnprocessableEntity},
		{fmt.Errorf("too big: %w", apperr.ErrInvalidDiscount), http.StatusUnprocessableEntity},
		{fmt.Errorf("bad decimal: %w", apperr.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("bad password: %w", apperr.ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(http.StatusText(tc.want), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tc.err)

			assert.Equal(t, tc.want, w.Code)

			var body response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tc.want, body.StatusCode)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestPathID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		raw    string
		wantID uint
		wantOK bool
	}{
		{"17", 17, true},
		{"0", 0, false},
		{"abc", 0, false},
		{"-1", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: tc.raw}}

			id, ok := pathID(c)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantID, id)
			if !tc.wantOK {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestQueryDateRangeDefaultsToCurrentMonth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/reports/sales", nil)

	from, to := queryDateRange(c)
	now := time.Now()
	assert.Equal(t, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), from)
	assert.Equal(t, from.AddDate(0, 1, 0), to)
}

func TestQueryDateRangeInclusiveEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/reports/sales?from=2026-08-01&to=2026-08-15", nil)

	from, to := queryDateRange(c)
	assert.Equal(t, "2026-08-01", from.Format("2006-01-02"))
	// The end date itself is included, so the boundary moves one day out.
	assert.Equal(t, "2026-08-16", to.Format("2006-01-02"))
}
