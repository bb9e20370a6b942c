package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductCondition string

const (
	ConditionNew     ProductCondition = "New"
	ConditionLikeNew ProductCondition = "Like New"
	ConditionGood    ProductCondition = "Good"
	ConditionFair    ProductCondition = "Fair"
	ConditionPoor    ProductCondition = "Poor"
)

func (c ProductCondition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingSold      ListingStatus = "sold"
	ListingReserved  ListingStatus = "reserved"
)

// 出品。出品者情報は作成時点のスナップショット。
// 削除は論理削除のみ（過去の注文明細から参照されるため）
type Product struct {
	ID          int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID    int64            `gorm:"not null;index" json:"seller_id"`
	SellerName  string           `gorm:"type:varchar(255)" json:"seller_name"`
	SellerEmail string           `gorm:"type:varchar(255)" json:"seller_email"`
	Title       string           `gorm:"type:varchar(255);not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Price       decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"price"`
	Category    string           `gorm:"type:varchar(100);index" json:"category"`
	Condition   ProductCondition `gorm:"type:varchar(20);not null" json:"condition"`
	Images      []string         `gorm:"type:text;serializer:json" json:"images"`
	Status      ListingStatus    `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	Campus      string           `gorm:"type:varchar(100);index" json:"campus"`

	//タイトル+説明をSearchKeyで正規化したもの
	SearchText string `gorm:"type:text" json:"-"`

	//出品時の数量（在庫の残りは注文から都度計算する）
	Quantity int64 `gorm:"not null;default:1" json:"quantity"`

	DeletedBy *int64         `json:"-"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain(p), FormatMoney(p.Price)})
}
