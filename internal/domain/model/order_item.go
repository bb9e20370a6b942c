package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。注文時点の商品のスナップショットで、作成後は変更しない。
// 商品が編集・削除されてもここは変わらない。
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;index" json:"order_id"`
	ProductID int64           `gorm:"not null;index" json:"product_id"`
	SellerID  int64           `gorm:"not null;index" json:"seller_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Image     string          `gorm:"type:varchar(1024)" json:"image"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`

	//元の出品が削除済みか（保存しない。注文詳細で埋める）
	ProductDeleted bool `gorm:"-" json:"product_deleted"`
}

func (it OrderItem) MarshalJSON() ([]byte, error) {
	type plain OrderItem
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(it), FormatMoney(it.Price)})
}

// 商品からスナップショットを作る
func NewLineItem(p Product, quantity int64, now time.Time) OrderItem {
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	return OrderItem{
		ProductID: p.ID,
		SellerID:  p.SellerID,
		Name:      p.Title,
		Price:     p.Price.Truncate(2),
		Quantity:  quantity,
		Image:     image,
		CreatedAt: now,
	}
}

func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(it.Quantity)).Truncate(2)
}
