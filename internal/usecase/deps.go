package usecase

import (
	"strings"
	"time"

	"github.com/mohammadkabir2003/csc47300-team-source-control-sub001/internal/domain/model"

	"github.com/google/uuid"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// 注文番号の末尾に付けるランダム文字列
type SuffixGenerator interface {
	NewSuffix() string
}

type UUIDSuffixGenerator struct{}

func (UUIDSuffixGenerator) NewSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// 操作する人（JWTのsub/roleから作る）
type Actor struct {
	UserID int64
	Role   model.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// 一覧のページング
type Page struct {
	Page  int
	Limit int
}

func (p Page) normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}
	return p
}
