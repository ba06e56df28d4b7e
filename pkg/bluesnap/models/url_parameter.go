package models

import (
	"fmt"
	"net/url"
	"sort"
)

// URLParameter is a single key/value pair sent to, or read from, the hosted
// checkout page.
type URLParameter struct {
	Key   string
	Value string
}

// URLParameterBag is an ordered list of URL parameters. Repeated keys are
// kept.
type URLParameterBag struct {
	params []URLParameter
}

// NewURLParameterBag normalises the supported input shapes into a bag:
//
//   - []URLParameter or []*URLParameter
//   - []map[string]string, each map holding "key" and "value"
//   - map[string]string or url.Values (keys sorted, Go maps are unordered)
//   - *URLParameterBag (copied)
//   - nil (empty bag)
func NewURLParameterBag(src any) (*URLParameterBag, error) {
	bag := &URLParameterBag{}
	switch v := src.(type) {
	case nil:
	case []URLParameter:
		bag.params = append(bag.params, v...)
	case []*URLParameter:
		for _, p := range v {
			if p != nil {
				bag.params = append(bag.params, *p)
			}
		}
	case []map[string]string:
		for i, m := range v {
			key, ok := m["key"]
			if !ok {
				return nil, fmt.Errorf("url parameter %d: missing key", i)
			}
			bag.Add(key, m["value"])
		}
	case map[string]string:
		for _, k := range sortedKeys(v) {
			bag.Add(k, v[k])
		}
	case url.Values:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, val := range v[k] {
				bag.Add(k, val)
			}
		}
	case *URLParameterBag:
		if v != nil {
			bag.params = append(bag.params, v.params...)
		}
	default:
		return nil, fmt.Errorf("unsupported url parameter source %T", src)
	}
	return bag, nil
}

// Add appends a parameter.
func (b *URLParameterBag) Add(key, value string) {
	b.params = append(b.params, URLParameter{Key: key, Value: value})
}

// All returns the parameters in insertion order.
func (b *URLParameterBag) All() []URLParameter {
	if b == nil {
		return nil
	}
	out := make([]URLParameter, len(b.params))
	copy(out, b.params)
	return out
}

// Get returns the first value stored under key.
func (b *URLParameterBag) Get(key string) (string, bool) {
	if b == nil {
		return "", false
	}
	for _, p := range b.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Len returns the number of parameters.
func (b *URLParameterBag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.params)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
