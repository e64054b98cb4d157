package endpoint

import (
	"net/url"
	"strings"
)

// Query is an ordered set of query parameters. Insertion order is preserved
// so the same logical request always encodes to the same string.
type Query struct {
	keys   []string
	values []string
}

// Set adds key=value. If key is already present its value is replaced in
// place, leaving every other parameter and the order untouched.
func (q *Query) Set(key, value string) {
	for i, k := range q.keys {
		if k == key {
			q.values[i] = value
			return
		}
	}
	q.keys = append(q.keys, key)
	q.values = append(q.values, value)
}

// Get returns the raw value for key
func (q *Query) Get(key string) (string, bool) {
	for i, k := range q.keys {
		if k == key {
			return q.values[i], true
		}
	}
	return "", false
}

// Len returns the number of parameters
func (q *Query) Len() int {
	return len(q.keys)
}

// Encode renders the parameters joined with "&", without a leading "?".
func (q *Query) Encode() string {
	if q == nil || len(q.keys) == 0 {
		return ""
	}
	parts := make([]string, len(q.keys))
	for i, k := range q.keys {
		parts[i] = url.QueryEscape(k) + "=" + url.QueryEscape(q.values[i])
	}
	return strings.Join(parts, "&")
}
