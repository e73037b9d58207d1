package models

import (
	"fmt"
	"sort"
	"strings"
)

// Resource names a list endpoint of the API.
type Resource string

const (
	ResourceInvoices    Resource = "invoices"
	ResourceProducts    Resource = "products"
	ResourceUsers       Resource = "users"
	ResourceCollections Resource = "collections"
	ResourceReports     Resource = "reports"
)

// Resources lists every resource the console can browse.
var Resources = []Resource{
	ResourceInvoices, ResourceProducts, ResourceUsers, ResourceCollections, ResourceReports,
}

// ParseResource maps a user-typed name to a Resource.
func ParseResource(s string) (Resource, error) {
	for _, r := range Resources {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown resource %q", s)
}

// Record is one row of a list endpoint. The console does not interpret
// resource fields; it only prints and filters them.
type Record map[string]any

// ID returns the record's "id" field rendered as a string.
func (r Record) ID() string {
	v, ok := r["id"]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Keys returns the record's field names sorted, with "id" first.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		if k != "id" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := r["id"]; ok {
		keys = append([]string{"id"}, keys...)
	}
	return keys
}

// Matches reports whether any field value contains query, ignoring case.
// An empty query matches everything.
func (r Record) Matches(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, v := range r {
		if v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), q) {
			return true
		}
	}
	return false
}

// Filter returns the records matching query, preserving order.
func Filter(records []Record, query string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Matches(query) {
			out = append(out, r)
		}
	}
	return out
}
