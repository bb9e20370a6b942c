package repository

import (
	"context"
	"time"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
)

// 監査ログの絞り込み。スライスは空なら条件なし、複数ならOR。
// 例: 注文まわりだけ見る → ResourceTypes: order, dispute
type AuditLogFilter struct {
	ActorUserID   *int64
	Actions       []model.AuditAction
	ResourceTypes []model.AuditResourceType
	ResourceID    *int64
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	Limit         int
	Offset        int
}

// 管理者操作の記録。書いたら変更しない。
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error

	// 新しい順
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
