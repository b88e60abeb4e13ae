package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

type EmailMessageRepo interface {
	Create(dbc dbctx.Context, msg *types.EmailMessage) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.EmailMessage, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (bool, error)
	DeleteOrphans(dbc dbctx.Context, olderThan time.Time) (int64, error)
}

type emailMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmailMessageRepo(db *gorm.DB, baseLog *logger.Logger) EmailMessageRepo {
	return &emailMessageRepo{
		db:  db,
		log: baseLog.With("repo", "EmailMessageRepo"),
	}
}

func (r *emailMessageRepo) Create(dbc dbctx.Context, msg *types.EmailMessage) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).Create(msg).Error
}

func (r *emailMessageRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.EmailMessage, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var m types.EmailMessage
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&m).Error; err != nil {
		return nil, err
	}
	if m.ID == uuid.Nil {
		return nil, nil
	}
	return &m, nil
}

func (r *emailMessageRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return false, nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.EmailMessage{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteOrphans removes rows created before olderThan that no user links to.
func (r *emailMessageRepo) DeleteOrphans(dbc dbctx.Context, olderThan time.Time) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	linked := transaction.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Select("email_message_id").
		Where("email_message_id IS NOT NULL")
	res := transaction.WithContext(dbc.Ctx).
		Where("created_at < ?", olderThan).
		Where("id NOT IN (?)", linked).
		Delete(&types.EmailMessage{})
	return res.RowsAffected, res.Error
}
