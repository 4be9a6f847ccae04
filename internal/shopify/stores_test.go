package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *StoreTable {
	t.Helper()
	table, err := NewStoreTable([]Store{
		{Prefix: "EJC", URL: "https://ejc.example.com/", Token: "t-ejc"},
		{Prefix: "mh", URL: "https://mh.example.com", Token: "t-mh"},
	})
	require.NoError(t, err)
	return table
}

func TestStoreTable_Resolve(t *testing.T) {
	table := testTable(t)

	tests := []struct {
		name        string
		orderNumber string
		wantPrefix  string
		wantErr     bool
	}{
		{name: "exact prefix", orderNumber: "EJC4821", wantPrefix: "EJC"},
		{name: "lower-case order number", orderNumber: "ejc4821", wantPrefix: "EJC"},
		{name: "lower-case configured prefix", orderNumber: "MH100", wantPrefix: "MH"},
		{name: "hash prefixed name", orderNumber: "#EJC4821", wantPrefix: "EJC"},
		{name: "unknown prefix", orderNumber: "XX12", wantErr: true},
		{name: "longer prefix is not a match", orderNumber: "EJCX12", wantErr: true},
		{name: "digits only", orderNumber: "123456789", wantErr: true},
		{name: "empty", orderNumber: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := table.Resolve(tt.orderNumber)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStore)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrefix, store.Prefix)
		})
	}
}

func TestStoreTable_NormalizesURL(t *testing.T) {
	table := testTable(t)

	store, err := table.Resolve("EJC1")
	require.NoError(t, err)
	assert.Equal(t, "https://ejc.example.com", store.URL)
	assert.Equal(t, "t-ejc", store.Token)
}

func TestNewStoreTable_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		stores []Store
	}{
		{"empty prefix", []Store{{Prefix: "", URL: "u", Token: "t"}}},
		{"non-letter prefix", []Store{{Prefix: "E1", URL: "u", Token: "t"}}},
		{"missing url", []Store{{Prefix: "EJC", Token: "t"}}},
		{"missing token", []Store{{Prefix: "EJC", URL: "u"}}},
		{"duplicate prefix", []Store{{Prefix: "EJC", URL: "u", Token: "t"}, {Prefix: "ejc", URL: "u2", Token: "t2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewStoreTable(tt.stores)
			assert.Error(t, err)
			assert.Nil(t, table)
		})
	}
}

func TestStoreTable_StoresSorted(t *testing.T) {
	stores := testTable(t).Stores()

	require.Len(t, stores, 2)
	assert.Equal(t, "EJC", stores[0].Prefix)
	assert.Equal(t, "MH", stores[1].Prefix)
}
