package model

import "time"

// 管理者操作の種類
type AuditAction string

const (
	AuditActionResetOrder          AuditAction = "RESET_ORDER"
	AuditActionDeleteOrder         AuditAction = "DELETE_ORDER"
	AuditActionUpdateDisputeStatus AuditAction = "UPDATE_DISPUTE_STATUS"
	AuditActionDeleteDispute       AuditAction = "DELETE_DISPUTE"
	AuditActionDeleteProduct       AuditAction = "DELETE_PRODUCT"
	AuditActionForceLogout         AuditAction = "FORCE_LOGOUT"
	AuditActionPromoteAdmin        AuditAction = "PROMOTE_ADMIN"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionResetOrder, AuditActionDeleteOrder,
		AuditActionUpdateDisputeStatus, AuditActionDeleteDispute,
		AuditActionDeleteProduct, AuditActionForceLogout, AuditActionPromoteAdmin:
		return true
	}
	return false
}

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct AuditResourceType = "product"
	AuditResourceOrder   AuditResourceType = "order"
	AuditResourceDispute AuditResourceType = "dispute"
	AuditResourceUser    AuditResourceType = "user"
)

func (r AuditResourceType) Valid() bool {
	switch r {
	case AuditResourceProduct, AuditResourceOrder, AuditResourceDispute, AuditResourceUser:
		return true
	}
	return false
}

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザー（主に管理者）のID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`

	ResourceID int64 `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
