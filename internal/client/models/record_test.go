package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResource(t *testing.T) {
	r, err := ParseResource("Invoices")
	require.NoError(t, err)
	assert.Equal(t, ResourceInvoices, r)

	_, err = ParseResource("orders")
	require.Error(t, err)
}

func TestRecord_IDAndKeys(t *testing.T) {
	r := Record{"total": 10.5, "id": float64(7), "customer": "Acme"}

	assert.Equal(t, "7", r.ID())
	assert.Equal(t, []string{"id", "customer", "total"}, r.Keys())

	assert.Equal(t, "", Record{"name": "x"}.ID())
	assert.Equal(t, []string{"name"}, Record{"name": "x"}.Keys())
}

func TestFilter(t *testing.T) {
	records := []Record{
		{"id": "1", "customer": "Acme Plásticos"},
		{"id": "2", "customer": "Globex", "status": "PAID"},
		{"id": "3", "customer": nil},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query keeps all", query: "", want: []string{"1", "2", "3"}},
		{name: "whitespace query keeps all", query: "  ", want: []string{"1", "2", "3"}},
		{name: "case insensitive", query: "acme", want: []string{"1"}},
		{name: "matches any field", query: "paid", want: []string{"2"}},
		{name: "matches id", query: "3", want: []string{"3"}},
		{name: "no match", query: "initech", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(records, tt.query)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID())
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
