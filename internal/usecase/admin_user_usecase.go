package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"
	repo "github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/repository"
)

type AdminUserUsecase struct {
	users     repo.UserRepository
	auditRepo repo.AuditLogRepository
	clock     Clock
}

func NewAdminUserUsecase(users repo.UserRepository, auditRepo repo.AuditLogRepository, clock Clock) *AdminUserUsecase {
	return &AdminUserUsecase{users: users, auditRepo: auditRepo, clock: clock}
}

type ForceLogoutOutput struct {
	UserID          int64 `json:"user_id"`
	NewTokenVersion int   `json:"new_token_version"`
}

// token_versionを上げて発行済みのaccess tokenを全部無効にする
func (u *AdminUserUsecase) ForceLogout(ctx context.Context, actorAdminUserID int64, targetUserID int64) (ForceLogoutOutput, error) {
	if actorAdminUserID <= 0 {
		return ForceLogoutOutput{}, errUnauthorized()
	}
	if targetUserID <= 0 {
		return ForceLogoutOutput{}, errInvalid("invalid id")
	}

	if err := u.users.IncrementTokenVersion(ctx, targetUserID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ForceLogoutOutput{}, errNotFound()
		}
		return ForceLogoutOutput{}, errDB()
	}

	user, err := u.users.FindByID(ctx, targetUserID)
	if err != nil {
		return ForceLogoutOutput{}, errDB()
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorAdminUserID,
		Action:       model.AuditActionForceLogout,
		ResourceType: model.AuditResourceUser,
		ResourceID:   targetUserID,
		BeforeJSON:   fmt.Sprintf(`{"token_version":%d}`, user.TokenVersion-1),
		AfterJSON:    fmt.Sprintf(`{"token_version":%d}`, user.TokenVersion),
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		return ForceLogoutOutput{}, errDB()
	}

	return ForceLogoutOutput{UserID: targetUserID, NewTokenVersion: user.TokenVersion}, nil
}

// CLIから使う。actorが0ならシステム操作扱い。
func (u *AdminUserUsecase) PromoteAdmin(ctx context.Context, actorUserID int64, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return model.User{}, errInvalid("email required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, errNotFound()
	}
	if err != nil {
		return model.User{}, errDB()
	}
	if user.IsAdmin() {
		return *user, nil
	}

	before := user.Role
	user.Role = model.RoleAdmin
	if err := u.users.Update(ctx, user); err != nil {
		return model.User{}, errDB()
	}
	// ロールはJWTに入っているので古いトークンは無効にする
	if err := u.users.IncrementTokenVersion(ctx, user.ID); err != nil {
		return model.User{}, errDB()
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       model.AuditActionPromoteAdmin,
		ResourceType: model.AuditResourceUser,
		ResourceID:   user.ID,
		BeforeJSON:   fmt.Sprintf(`{"role":%q}`, before),
		AfterJSON:    fmt.Sprintf(`{"role":%q}`, user.Role),
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		return model.User{}, errDB()
	}
	return *user, nil
}
