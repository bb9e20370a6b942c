package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusWaitingToMeet   OrderStatus = "waiting_to_meet"
	OrderStatusMetAndExchanged OrderStatus = "met_and_exchanged"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusWaitingToMeet, OrderStatusMetAndExchanged, OrderStatusCancelled:
		return true
	}
	return false
}

// 完了・キャンセルは終端
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusMetAndExchanged || s == OrderStatusCancelled
}

// 注文に対する当事者の立場
type PartyRole string

const (
	PartyBuyer  PartyRole = "buyer"
	PartySeller PartyRole = "seller"
	PartyAdmin  PartyRole = "admin"
)

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCard       PaymentMethod = "card"
	PaymentCampusCard PaymentMethod = "campus_card"
	PaymentMobile     PaymentMethod = "mobile"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentCampusCard, PaymentMobile:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusNone    PaymentStatus = ""
	PaymentStatusPending PaymentStatus = "pending"
)

const DefaultOrderNumberPrefix = "ORD"

type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64       `gorm:"not null;index" json:"user_id"`
	OrderNumber string      `gorm:"type:varchar(64);not null;uniqueIndex" json:"order_number"`
	Items       []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Status      OrderStatus     `gorm:"type:varchar(32);not null;index" json:"status"`

	//買い手・売り手それぞれの受け渡し確認
	BuyerConfirmed  bool `gorm:"not null;default:false" json:"buyer_confirmed"`
	SellerConfirmed bool `gorm:"not null;default:false" json:"seller_confirmed"`

	DisputeID *int64 `gorm:"index" json:"dispute_id,omitempty"`

	//待ち合わせ・支払い（リセット時に消す）
	MeetupLocation string        `gorm:"type:varchar(255)" json:"meetup_location"`
	MeetupTime     *time.Time    `json:"meetup_time,omitempty"`
	PaymentMethod  PaymentMethod `gorm:"type:varchar(20)" json:"payment_method"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20)" json:"payment_status"`

	DeletedBy *int64         `json:"-"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 金額は常に小数2桁の文字列で返す
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		TotalAmount string `json:"total_amount"`
	}{plain(o), FormatMoney(o.TotalAmount)})
}

// 注文番号: prefix-UTC時刻-ランダム
func NewOrderNumber(prefix string, now time.Time, suffix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultOrderNumberPrefix
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.UTC().Format("20060102150405"), strings.ToUpper(suffix))
}

// 新規注文。状態はwaiting_to_meet、確認フラグは両方false。
func NewOrder(userID int64, orderNumber string, items []OrderItem, now time.Time) Order {
	return Order{
		UserID:          userID,
		OrderNumber:     orderNumber,
		Items:           items,
		TotalAmount:     TotalOf(items),
		Status:          OrderStatusWaitingToMeet,
		BuyerConfirmed:  false,
		SellerConfirmed: false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TotalOf(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total.Truncate(2)
}

func (o Order) IsBuyer(userID int64) bool {
	return userID > 0 && o.UserID == userID
}

// 明細のどれかの出品者なら売り手
func (o Order) IsSeller(userID int64) bool {
	if userID <= 0 {
		return false
	}
	for _, it := range o.Items {
		if it.SellerID == userID {
			return true
		}
	}
	return false
}

func (o Order) PartyRole(userID int64) (PartyRole, bool) {
	if o.IsBuyer(userID) {
		return PartyBuyer, true
	}
	if o.IsSeller(userID) {
		return PartySeller, true
	}
	return "", false
}

// 代表の売り手（紛争の相手方などに使う）
func (o Order) PrimarySellerID() int64 {
	if len(o.Items) == 0 {
		return 0
	}
	return o.Items[0].SellerID
}

func (o Order) BothConfirmed() bool {
	return o.BuyerConfirmed && o.SellerConfirmed
}
