package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"ACCOUNT_LOCKED", http.StatusLocked},
		{"INVALID_EMAIL", http.StatusBadRequest},
		{"CUSTOMER_REQUIRED", http.StatusBadRequest},
		{"ALREADY_ACTIVE", http.StatusConflict},
		{"OVERPAYMENT", http.StatusUnprocessableEntity},
		{"UNBALANCED_ENTRY", http.StatusUnprocessableEntity},
		{"ERR_SOMETHING_NEW", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
		{"oops", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetHTTPStatus(tt.code), tt.code)
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode("NOT_FOUND"))
	assert.Equal(t, ErrCodeConcurrencyConflict, NormalizeErrorCode("CONCURRENCY_CONFLICT"))
	assert.Equal(t, ErrCodeTokenExpired, NormalizeErrorCode("TOKEN_EXPIRED"))
	assert.Equal(t, "INVALID_CURRENCY", NormalizeErrorCode("INVALID_CURRENCY"))
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 21, 3, 10)
	assert.True(t, resp.Success)
	assert.Equal(t, &Meta{Total: 21, Page: 3, PageSize: 10, TotalPages: 3}, resp.Meta)

	empty := NewSuccessResponseWithMeta([]int{}, 0, 1, 10)
	assert.Equal(t, 0, empty.Meta.TotalPages)

	all := NewSuccessResponseWithMeta([]int{1}, 5, 1, 0)
	assert.Equal(t, 1, all.Meta.TotalPages)
}

func TestListRequest_Normalize(t *testing.T) {
	var r ListRequest
	r.Normalize()
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, DefaultPageSize, r.PageSize)

	r = ListRequest{Page: 4, PageSize: 50}
	r.Normalize()
	assert.Equal(t, 4, r.Page)
	assert.Equal(t, 50, r.PageSize)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{{Field: "email", Message: "Invalid email format"}})
	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}
