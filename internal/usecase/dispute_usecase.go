package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"
)

const (
	maxDisputeReason  = 2000
	maxDisputeMessage = 2000
)

type DisputeUsecase struct {
	tx       repo.TransactionManager
	disputes repo.DisputeRepository
	clock    Clock
}

func NewDisputeUsecase(tx repo.TransactionManager, disputes repo.DisputeRepository, clock Clock) *DisputeUsecase {
	return &DisputeUsecase{tx: tx, disputes: disputes, clock: clock}
}

type DisputeListOutput struct {
	Items []model.Dispute `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// 注文の買い手か売り手が開く。紛争作成と注文への紐付けは同じトランザクション。
func (u *DisputeUsecase) Open(ctx context.Context, actor Actor, orderID int64, reason string) (model.Dispute, error) {
	if actor.UserID <= 0 {
		return model.Dispute{}, errUnauthorized()
	}
	if orderID <= 0 {
		return model.Dispute{}, errInvalid("invalid id")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" || len(reason) > maxDisputeReason {
		return model.Dispute{}, errInvalid("invalid reason")
	}

	var out model.Dispute
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return errDB()
		}
		role, ok := o.PartyRole(actor.UserID)
		if !ok {
			return errNotFound()
		}

		if o.DisputeID != nil {
			cur, err := r.Disputes().FindByID(ctx, *o.DisputeID)
			if err != nil && !errors.Is(err, repo.ErrNotFound) {
				return errDB()
			}
			if err == nil && cur.Status.IsActive() {
				return errConflict("order already has an active dispute")
			}
		}

		d := model.NewDispute(o, actor.UserID, role, reason, u.clock.Now())
		if err := r.Disputes().Create(ctx, &d); err != nil {
			return errDB()
		}
		if err := r.Orders().SetDispute(ctx, o.ID, d.ID); err != nil {
			return errDB()
		}
		out = d
		return nil
	})
	if err != nil {
		return model.Dispute{}, err
	}
	return out, nil
}

// 当事者と管理者以外には見せない
func (u *DisputeUsecase) Get(ctx context.Context, actor Actor, disputeID int64) (model.Dispute, error) {
	d, err := u.load(ctx, actor, disputeID)
	if err != nil {
		return model.Dispute{}, err
	}
	if _, ok := d.PartyRole(actor.UserID, actor.IsAdmin()); !ok {
		return model.Dispute{}, errNotFound()
	}
	return d, nil
}

func (u *DisputeUsecase) ListMine(ctx context.Context, userID int64) ([]model.Dispute, error) {
	if userID <= 0 {
		return []model.Dispute{}, errUnauthorized()
	}
	items, err := u.disputes.ListByParticipant(ctx, userID)
	if err != nil {
		return []model.Dispute{}, errDB()
	}
	return items, nil
}

// メッセージは追記のみ。解決・クローズ後は受け付けない。
func (u *DisputeUsecase) AddMessage(ctx context.Context, actor Actor, disputeID int64, text string) (model.Dispute, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxDisputeMessage {
		return model.Dispute{}, errInvalid("invalid text")
	}

	d, err := u.load(ctx, actor, disputeID)
	if err != nil {
		return model.Dispute{}, err
	}
	role, ok := d.PartyRole(actor.UserID, actor.IsAdmin())
	if !ok {
		return model.Dispute{}, errNotFound()
	}
	if d.Status.IsTerminal() {
		return model.Dispute{}, errConflict(fmt.Sprintf("dispute is %s", d.Status))
	}

	msg := &model.DisputeMessage{
		DisputeID:  d.ID,
		SenderID:   actor.UserID,
		SenderRole: role,
		Text:       text,
		CreatedAt:  u.clock.Now(),
	}
	if err := u.disputes.AppendMessage(ctx, msg); err != nil {
		return model.Dispute{}, errDB()
	}
	return u.reload(ctx, d.ID)
}

// 開いた本人による取り下げ
func (u *DisputeUsecase) Withdraw(ctx context.Context, actor Actor, disputeID int64) (model.Dispute, error) {
	d, err := u.load(ctx, actor, disputeID)
	if err != nil {
		return model.Dispute{}, err
	}
	if _, ok := d.PartyRole(actor.UserID, false); !ok {
		return model.Dispute{}, errNotFound()
	}
	if d.OpenedBy != actor.UserID {
		return model.Dispute{}, errForbidden()
	}
	if !d.Status.CanTransitionTo(model.DisputeClosed) {
		return model.Dispute{}, errConflict(fmt.Sprintf("dispute is %s", d.Status))
	}

	return u.changeStatus(ctx, d, repo.DisputeStatusChange{
		From:       d.Status,
		To:         model.DisputeClosed,
		Resolution: "withdrawn",
		ResolvedBy: &actor.UserID,
		At:         u.clock.Now(),
	})
}

func (u *DisputeUsecase) AdminList(ctx context.Context, f repo.DisputeListFilter) (DisputeListOutput, error) {
	if f.Status != "" && !model.DisputeStatus(f.Status).Valid() {
		return DisputeListOutput{}, errInvalid("invalid status")
	}
	p := Page{Page: f.Page, Limit: f.Limit}.normalize()
	f.Page, f.Limit = p.Page, p.Limit

	items, total, err := u.disputes.ListAdmin(ctx, f)
	if err != nil {
		return DisputeListOutput{}, errDB()
	}
	return DisputeListOutput{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

type UpdateDisputeStatusInput struct {
	Status     string
	Resolution string
}

// open → under_review → resolved / closed。resolvedには解決内容が必要。
func (u *DisputeUsecase) AdminUpdateStatus(ctx context.Context, actorAdminUserID int64, disputeID int64, in UpdateDisputeStatusInput) (model.Dispute, error) {
	if actorAdminUserID <= 0 {
		return model.Dispute{}, errUnauthorized()
	}
	next := model.DisputeStatus(strings.TrimSpace(in.Status))
	if !next.Valid() {
		return model.Dispute{}, errInvalid("invalid status")
	}
	resolution := strings.TrimSpace(in.Resolution)
	if next == model.DisputeResolved && resolution == "" {
		return model.Dispute{}, errInvalid("resolution required")
	}

	d, err := u.load(ctx, Actor{UserID: actorAdminUserID, Role: model.RoleAdmin}, disputeID)
	if err != nil {
		return model.Dispute{}, err
	}
	if d.Status == next {
		return d, nil
	}
	if !d.Status.CanTransitionTo(next) {
		return model.Dispute{}, errConflict(fmt.Sprintf("cannot change dispute from %s to %s", d.Status, next))
	}

	change := repo.DisputeStatusChange{
		From:       d.Status,
		To:         next,
		Resolution: resolution,
		At:         u.clock.Now(),
	}
	if next.IsTerminal() {
		change.ResolvedBy = &actorAdminUserID
	}
	return u.changeStatus(ctx, d, change, actorAdminUserID)
}

func (u *DisputeUsecase) AdminDelete(ctx context.Context, actorAdminUserID int64, disputeID int64) error {
	if actorAdminUserID <= 0 {
		return errUnauthorized()
	}
	if disputeID <= 0 {
		return errInvalid("invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Disputes().SoftDelete(ctx, disputeID, actorAdminUserID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound()
			}
			return errDB()
		}
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminUserID,
			Action:       model.AuditActionDeleteDispute,
			ResourceType: model.AuditResourceDispute,
			ResourceID:   disputeID,
			AfterJSON:    `{"deleted":true}`,
			CreatedAt:    u.clock.Now(),
		}); err != nil {
			return errDB()
		}
		return nil
	})
}

// 管理者の操作なら監査ログも同じトランザクションで書く
func (u *DisputeUsecase) changeStatus(ctx context.Context, d model.Dispute, change repo.DisputeStatusChange, auditActor ...int64) (model.Dispute, error) {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ok, err := r.Disputes().UpdateStatus(ctx, d.ID, change)
		if err != nil {
			return errDB()
		}
		if !ok {
			return errConflict("dispute was updated by someone else")
		}

		if len(auditActor) == 0 {
			return nil
		}
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  auditActor[0],
			Action:       model.AuditActionUpdateDisputeStatus,
			ResourceType: model.AuditResourceDispute,
			ResourceID:   d.ID,
			BeforeJSON:   fmt.Sprintf(`{"status":%q}`, change.From),
			AfterJSON:    fmt.Sprintf(`{"status":%q}`, change.To),
			CreatedAt:    change.At,
		}); err != nil {
			return errDB()
		}
		return nil
	})
	if err != nil {
		return model.Dispute{}, err
	}
	return u.reload(ctx, d.ID)
}

func (u *DisputeUsecase) load(ctx context.Context, actor Actor, disputeID int64) (model.Dispute, error) {
	if actor.UserID <= 0 {
		return model.Dispute{}, errUnauthorized()
	}
	if disputeID <= 0 {
		return model.Dispute{}, errInvalid("invalid id")
	}
	return u.reload(ctx, disputeID)
}

func (u *DisputeUsecase) reload(ctx context.Context, disputeID int64) (model.Dispute, error) {
	d, err := u.disputes.FindByID(ctx, disputeID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Dispute{}, errNotFound()
	}
	if err != nil {
		return model.Dispute{}, errDB()
	}
	return d, nil
}
