package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageSizeLenientParsing(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/api/customers", 0},
		{"/api/customers?per_page=50", 50},
		{"/api/customers?per_page=abc", 0},
		{"/api/customers?per_page=", 0},
		{"/api/customers?per_page=-5", -5},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("GET", tt.url, nil)
		assert.Equal(t, tt.want, pageSize(r), tt.url)
	}
}
