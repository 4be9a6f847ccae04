package shopify

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownStore is returned when an order number's prefix matches no configured store
var ErrUnknownStore = errors.New("no shopify store configured for order prefix")

// Store holds the credentials of one Shopify storefront
type Store struct {
	Prefix string
	URL    string
	Token  string
}

// StoreTable maps order-number prefixes to stores. It is built once and
// never mutated afterwards.
type StoreTable struct {
	stores map[string]Store
}

// NewStoreTable validates and indexes the configured stores by upper-cased prefix
func NewStoreTable(stores []Store) (*StoreTable, error) {
	t := &StoreTable{stores: make(map[string]Store, len(stores))}
	for _, s := range stores {
		prefix := strings.ToUpper(strings.TrimSpace(s.Prefix))
		if prefix == "" || strings.IndexFunc(prefix, func(r rune) bool { return !isLetter(r) }) >= 0 {
			return nil, fmt.Errorf("invalid shopify store prefix %q", s.Prefix)
		}
		if s.URL == "" || s.Token == "" {
			return nil, fmt.Errorf("shopify store %s: url and token are required", prefix)
		}
		if _, dup := t.stores[prefix]; dup {
			return nil, fmt.Errorf("duplicate shopify store prefix %s", prefix)
		}
		s.Prefix = prefix
		s.URL = strings.TrimRight(s.URL, "/")
		t.stores[prefix] = s
	}
	return t, nil
}

// Resolve returns the store owning orderNumber, matched on its leading letters
func (t *StoreTable) Resolve(orderNumber string) (Store, error) {
	prefix := strings.ToUpper(leadingPrefix(orderNumber))
	if s, ok := t.stores[prefix]; ok && prefix != "" {
		return s, nil
	}
	return Store{}, fmt.Errorf("%w: %q", ErrUnknownStore, orderNumber)
}

// Stores returns the configured stores ordered by prefix
func (t *StoreTable) Stores() []Store {
	out := make([]Store, 0, len(t.stores))
	for _, s := range t.stores {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

func leadingPrefix(orderNumber string) string {
	s := strings.TrimPrefix(strings.TrimSpace(orderNumber), "#")
	end := 0
	for end < len(s) && isLetter(rune(s[end])) {
		end++
	}
	return s[:end]
}

func isLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}
