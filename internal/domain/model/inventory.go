package model

// 在庫の集計結果（保存しない）
type InventorySnapshot struct {
	ProductID int64 `json:"product_id"`
	Listed    int64 `json:"listed"`
	Available int64 `json:"available"`
	Sold      int64 `json:"sold"`
	Reserved  int64 `json:"reserved"`
}

// ordered: キャンセル・削除以外の注文数量の合計
// sold: 両者確認済みの注文数量の合計
func NewInventorySnapshot(productID, listed, ordered, sold int64) InventorySnapshot {
	available := AvailableQuantity(listed, ordered)

	reserved := listed - available - sold
	if reserved < 0 {
		reserved = 0
	}

	return InventorySnapshot{
		ProductID: productID,
		Listed:    listed,
		Available: available,
		Sold:      sold,
		Reserved:  reserved,
	}
}

// 売り越しでもマイナスにはしない
func AvailableQuantity(listed, ordered int64) int64 {
	available := listed - ordered
	if available < 0 {
		return 0
	}
	return available
}

func (s InventorySnapshot) ListingStatus() ListingStatus {
	if s.Available > 0 {
		return ListingAvailable
	}
	if s.Sold >= s.Listed {
		return ListingSold
	}
	return ListingReserved
}
