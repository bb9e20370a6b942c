package model

import (
	"time"

	"gorm.io/gorm"
)

type DisputeStatus string

const (
	DisputeOpen        DisputeStatus = "open"
	DisputeUnderReview DisputeStatus = "under_review"
	DisputeResolved    DisputeStatus = "resolved"
	DisputeClosed      DisputeStatus = "closed"
)

func (s DisputeStatus) Valid() bool {
	switch s {
	case DisputeOpen, DisputeUnderReview, DisputeResolved, DisputeClosed:
		return true
	}
	return false
}

// open / under_review の間は注文の確認を止める
func (s DisputeStatus) IsActive() bool {
	return s == DisputeOpen || s == DisputeUnderReview
}

func (s DisputeStatus) IsTerminal() bool {
	return s == DisputeResolved || s == DisputeClosed
}

// open → under_review → resolved / closed
func (s DisputeStatus) CanTransitionTo(next DisputeStatus) bool {
	switch s {
	case DisputeOpen:
		return next == DisputeUnderReview || next == DisputeResolved || next == DisputeClosed
	case DisputeUnderReview:
		return next == DisputeResolved || next == DisputeClosed
	}
	return false
}

// 有効な紛争のステータス（SQLの条件用）
func ActiveDisputeStatuses() []string {
	return []string{string(DisputeOpen), string(DisputeUnderReview)}
}

type Dispute struct {
	ID         int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    int64            `gorm:"not null;index" json:"order_id"`
	BuyerID    int64            `gorm:"not null;index" json:"buyer_id"`
	SellerID   int64            `gorm:"not null;index" json:"seller_id"`
	OpenedBy   int64            `gorm:"not null" json:"opened_by"`
	ProductIDs []int64          `gorm:"type:text;serializer:json" json:"product_ids"`
	Reason     string           `gorm:"type:text;not null" json:"reason"`
	Status     DisputeStatus    `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Messages   []DisputeMessage `gorm:"foreignKey:DisputeID" json:"messages"`

	Resolution string     `gorm:"type:text" json:"resolution,omitempty"`
	ResolvedBy *int64     `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	DeletedBy *int64         `json:"-"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// メッセージは追記のみ
type DisputeMessage struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	DisputeID  int64     `gorm:"not null;index" json:"dispute_id"`
	SenderID   int64     `gorm:"not null" json:"sender_id"`
	SenderRole PartyRole `gorm:"type:varchar(20);not null" json:"sender_role"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

// 注文から紛争を作る。理由は最初のメッセージにもなる。
func NewDispute(o Order, openedBy int64, role PartyRole, reason string, now time.Time) Dispute {
	sellerID := o.PrimarySellerID()
	if role == PartySeller {
		sellerID = openedBy
	}

	productIDs := make([]int64, 0, len(o.Items))
	seen := make(map[int64]bool, len(o.Items))
	for _, it := range o.Items {
		if seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		productIDs = append(productIDs, it.ProductID)
	}

	return Dispute{
		OrderID:    o.ID,
		BuyerID:    o.UserID,
		SellerID:   sellerID,
		OpenedBy:   openedBy,
		ProductIDs: productIDs,
		Reason:     reason,
		Status:     DisputeOpen,
		Messages: []DisputeMessage{{
			SenderID:   openedBy,
			SenderRole: role,
			Text:       reason,
			CreatedAt:  now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// 紛争に対する立場（管理者は当事者でなくても参加できる）
func (d Dispute) PartyRole(userID int64, isAdmin bool) (PartyRole, bool) {
	switch {
	case userID > 0 && userID == d.BuyerID:
		return PartyBuyer, true
	case userID > 0 && userID == d.SellerID:
		return PartySeller, true
	case isAdmin:
		return PartyAdmin, true
	}
	return "", false
}
