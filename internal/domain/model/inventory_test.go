package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInventorySnapshot(t *testing.T) {
	tests := []struct {
		name    string
		listed  int64
		ordered int64
		sold    int64
		want    InventorySnapshot
		status  ListingStatus
	}{
		{"no orders", 5, 0, 0, InventorySnapshot{ProductID: 1, Listed: 5, Available: 5}, ListingAvailable},
		{"in flight", 5, 2, 0, InventorySnapshot{ProductID: 1, Listed: 5, Available: 3, Reserved: 2}, ListingAvailable},
		{"partly sold", 5, 2, 2, InventorySnapshot{ProductID: 1, Listed: 5, Available: 3, Sold: 2}, ListingAvailable},
		{"all reserved", 2, 2, 0, InventorySnapshot{ProductID: 1, Listed: 2, Reserved: 2}, ListingReserved},
		{"all sold", 2, 2, 2, InventorySnapshot{ProductID: 1, Listed: 2, Sold: 2}, ListingSold},
		{"oversold clamps", 1, 3, 0, InventorySnapshot{ProductID: 1, Listed: 1, Reserved: 1}, ListingReserved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewInventorySnapshot(1, tt.listed, tt.ordered, tt.sold)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.status, got.ListingStatus())
		})
	}
}
