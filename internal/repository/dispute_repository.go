package repository

import (
	"context"
	"time"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
)

type DisputeListFilter struct {
	Page   int
	Limit  int
	Status string
}

type DisputeStatusChange struct {
	From       model.DisputeStatus
	To         model.DisputeStatus
	Resolution string
	ResolvedBy *int64
	At         time.Time
}

type DisputeRepository interface {
	// 最初のメッセージも一緒に作成
	Create(ctx context.Context, d *model.Dispute) error

	// メッセージを古い順でpreload
	FindByID(ctx context.Context, disputeID int64) (model.Dispute, error)

	ListByParticipant(ctx context.Context, userID int64) ([]model.Dispute, error)
	ListAdmin(ctx context.Context, f DisputeListFilter) ([]model.Dispute, int64, error)

	AppendMessage(ctx context.Context, msg *model.DisputeMessage) error

	// 現在のステータスが change.From のときだけ更新
	UpdateStatus(ctx context.Context, disputeID int64, change DisputeStatusChange) (bool, error)

	SoftDelete(ctx context.Context, disputeID int64, deletedBy int64) error
}
