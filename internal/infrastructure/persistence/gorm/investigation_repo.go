package gorm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// InvestigationRepoImpl implements InvestigationRepository on gorm.
type InvestigationRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewInvestigationRepository creates an InvestigationRepository backed by the
// given database handle.
func NewInvestigationRepository(db *gorm.DB, log logger.Logger) repository.InvestigationRepository {
	return &InvestigationRepoImpl{
		db:     db,
		logger: log.WithComponent("investigation-repo"),
	}
}

// Save creates a new investigation record.
func (r *InvestigationRepoImpl) Save(ctx context.Context, inv *models.Investigation) error {
	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		r.logger.Error(ctx, "failed to create investigation", err, logger.Fields{
			"investigation_id": inv.ID,
			"alert_id":         inv.AlertID,
		})
		return errors.Wrap(err, errors.CodeInternal, "failed to create investigation")
	}

	r.logger.Info(ctx, "investigation created", logger.Fields{
		"investigation_id": inv.ID,
		"alert_id":         inv.AlertID,
		"company":          inv.Company,
	})
	return nil
}

// Update persists changes to an existing investigation.
func (r *InvestigationRepoImpl) Update(ctx context.Context, inv *models.Investigation) error {
	inv.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).
		Model(&models.Investigation{}).
		Where("id = ?", inv.ID).
		Select("*").
		Omit("created_at").
		Updates(inv)

	if result.Error != nil {
		r.logger.Error(ctx, "failed to update investigation", result.Error, logger.Fields{
			"investigation_id": inv.ID,
		})
		return errors.Wrap(result.Error, errors.CodeInternal, "failed to update investigation")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.CodeNotFound, "investigation not found: "+inv.ID)
	}
	return nil
}

// FindByID retrieves one investigation.
func (r *InvestigationRepoImpl) FindByID(ctx context.Context, id string) (*models.Investigation, error) {
	var inv models.Investigation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.CodeNotFound, "investigation not found: "+id)
		}
		r.logger.Error(ctx, "failed to retrieve investigation", err, logger.Fields{
			"investigation_id": id,
		})
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to retrieve investigation")
	}
	return &inv, nil
}

// FindAll lists investigations newest first, with the total count for paging.
func (r *InvestigationRepoImpl) FindAll(ctx context.Context, limit, offset int) ([]*models.Investigation, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Investigation{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, errors.CodeInternal, "failed to count investigations")
	}

	if limit <= 0 {
		limit = 50
	}

	var invs []*models.Investigation
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&invs).Error
	if err != nil {
		r.logger.Error(ctx, "failed to list investigations", err)
		return nil, 0, errors.Wrap(err, errors.CodeInternal, "failed to list investigations")
	}
	return invs, total, nil
}
