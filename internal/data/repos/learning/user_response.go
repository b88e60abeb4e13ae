package learning

import (
	"gorm.io/gorm"

	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

type UserResponseRepo interface {
	Create(dbc dbctx.Context, resp *types.UserResponse) error
}

type userResponseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserResponseRepo(db *gorm.DB, baseLog *logger.Logger) UserResponseRepo {
	return &userResponseRepo{
		db:  db,
		log: baseLog.With("repo", "UserResponseRepo"),
	}
}

func (r *userResponseRepo) Create(dbc dbctx.Context, resp *types.UserResponse) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Create(resp).Error
}
