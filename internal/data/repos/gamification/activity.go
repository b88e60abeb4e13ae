package gamification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

// XPTotal is one leaderboard row.
type XPTotal struct {
	UserID uuid.UUID `gorm:"column:user_id"`
	Name   string    `gorm:"column:name"`
	Image  *string   `gorm:"column:image"`
	XP     int       `gorm:"column:xp"`
}

type ActivityRepo interface {
	// CreateIfAbsent inserts the row unless (user_id, dedupe_key) already exists.
	CreateIfAbsent(dbc dbctx.Context, activity *types.Activity) (bool, error)
	GetByDedupeKey(dbc dbctx.Context, userID uuid.UUID, dedupeKey string) (*types.Activity, error)
	SumXP(dbc dbctx.Context, userID uuid.UUID) (int, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Activity, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error)
	TopTotals(dbc dbctx.Context, limit int) ([]XPTotal, error)
	AllTotals(dbc dbctx.Context) ([]XPTotal, error)
	CountAhead(dbc dbctx.Context, xp int) (int64, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return &activityRepo{
		db:  db,
		log: baseLog.With("repo", "ActivityRepo"),
	}
}

func (r *activityRepo) CreateIfAbsent(dbc dbctx.Context, activity *types.Activity) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if activity == nil {
		return false, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "dedupe_key"}},
			DoNothing: true,
		}).
		Create(activity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *activityRepo) GetByDedupeKey(dbc dbctx.Context, userID uuid.UUID, dedupeKey string) (*types.Activity, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || dedupeKey == "" {
		return nil, nil
	}
	var a types.Activity
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND dedupe_key = ?", userID, dedupeKey).
		Limit(1).
		Find(&a).Error; err != nil {
		return nil, err
	}
	if a.ID == uuid.Nil {
		return nil, nil
	}
	return &a, nil
}

func (r *activityRepo) SumXP(dbc dbctx.Context, userID uuid.UUID) (int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var total int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Activity{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(xp_amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

// ListByUser returns the oldest limit rows, oldest first.
func (r *activityRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Activity, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Activity
	q := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Activity{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *activityRepo) totals(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Table(`"user" AS u`).
		Select("u.id AS user_id, u.name AS name, u.image AS image, COALESCE(SUM(a.xp_amount), 0) AS xp").
		Joins("LEFT JOIN activity AS a ON a.user_id = u.id").
		Group("u.id, u.name, u.image")
}

func (r *activityRepo) TopTotals(dbc dbctx.Context, limit int) ([]XPTotal, error) {
	var out []XPTotal
	q := r.totals(dbc).Order("xp DESC").Order("u.name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *activityRepo) AllTotals(dbc dbctx.Context) ([]XPTotal, error) {
	return r.TopTotals(dbc, 0)
}

// CountAhead counts users whose total XP is strictly greater than xp.
func (r *activityRepo) CountAhead(dbc dbctx.Context, xp int) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	sub := r.totals(dbc)
	if err := transaction.WithContext(dbc.Ctx).
		Table("(?) AS t", sub).
		Where("t.xp > ?", xp).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
