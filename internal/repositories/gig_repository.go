package repository

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gigflow.com/gigflow/internal/constants"
	"gigflow.com/gigflow/internal/exceptions"
	model "gigflow.com/gigflow/internal/models"
)

var gigColumns = []string{"id", "title", "description", "budget", "owner_id", "status", "version", "created_at"}

type GigRepository struct {
	db *gorm.DB
}

func NewGigRepository(db *gorm.DB) *GigRepository {
	return &GigRepository{db: db}
}

func (r *GigRepository) Create(ctx context.Context, gig *model.Gig) error {
	return r.db.WithContext(ctx).Create(gig).Error
}

func (r *GigRepository) FindByID(ctx context.Context, id string) (*model.Gig, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate reads the gig with a row lock where the dialect has one.
// SQLite ignores the locking clause; its single writer connection already
// serializes transactions.
func (r *GigRepository) FindByIDForUpdate(ctx context.Context, id string) (*model.Gig, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GigRepository) find(db *gorm.DB, id string) (*model.Gig, error) {
	var gig model.Gig
	if err := db.First(&gig, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, exceptions.ErrGigNotFound
		}
		return nil, err
	}
	return &gig, nil
}

// ListOpen returns open gigs, newest first, optionally filtered by a
// case-insensitive title substring.
func (r *GigRepository) ListOpen(ctx context.Context, search string) ([]model.Gig, error) {
	query := sq.Select(gigColumns...).
		From("gigs").
		Where(sq.Eq{"status": string(constants.GigStatusOpen)})

	if search = strings.TrimSpace(search); search != "" {
		query = query.Where(sq.Like{"LOWER(title)": "%" + strings.ToLower(search) + "%"})
	}

	sql, args, err := query.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, err
	}

	gigs := make([]model.Gig, 0)
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&gigs).Error; err != nil {
		return nil, err
	}
	return gigs, nil
}

func (r *GigRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Gig, error) {
	gigs := make([]model.Gig, 0)
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&gigs).Error
	return gigs, err
}

// Assign moves an open gig to assigned. The write is conditional on the
// version and status read by the caller; if either changed in between no row
// matches and ErrOptimisticLock is returned.
func (r *GigRepository) Assign(ctx context.Context, gig *model.Gig) error {
	res := r.db.WithContext(ctx).Model(&model.Gig{}).
		Where("id = ? AND version = ? AND status = ?", gig.ID, gig.Version, constants.GigStatusOpen).
		Updates(map[string]interface{}{
			"status":  constants.GigStatusAssigned,
			"version": gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return exceptions.ErrOptimisticLock
	}

	gig.Status = constants.GigStatusAssigned
	gig.Version++
	return nil
}
