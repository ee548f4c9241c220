package repository

import (
	"errors"

	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlateSequenceRepository interface {
	// IncrementAndGet atomically advances the counter for a region and
	// returns the new 1-based value. It must be called inside tx so the
	// increment commits or rolls back together with the record that consumes
	// the number. The counter row is locked FOR UPDATE for the rest of the
	// transaction; a row is created lazily at 0 on first use.
	IncrementAndGet(tx *gorm.DB, regionCode string) (int64, error)
	FindByRegion(regionCode string) (*model.PlateSequence, error)
	ListAll() ([]model.PlateSequence, error)
}

type plateSequenceRepository struct {
	db *gorm.DB
}

func NewPlateSequenceRepository(db *gorm.DB) PlateSequenceRepository {
	return &plateSequenceRepository{db: db}
}

func (r *plateSequenceRepository) IncrementAndGet(tx *gorm.DB, regionCode string) (int64, error) {
	var seq model.PlateSequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("region_code = ?", regionCode).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug("Creating plate sequence counter for region", map[string]interface{}{
			"region_code": regionCode,
		})
		seq = model.PlateSequence{RegionCode: regionCode, CurrentSequence: 0}
		// A concurrent first allocation may get here too; the unique index on
		// region_code lets exactly one insert win and the loser surfaces as a
		// retryable conflict.
		if err := tx.Create(&seq).Error; err != nil {
			logger.Error("Failed to create plate sequence counter", err, map[string]interface{}{
				"region_code": regionCode,
			})
			return 0, err
		}
	} else if err != nil {
		logger.Error("Failed to lock plate sequence counter", err, map[string]interface{}{
			"region_code": regionCode,
		})
		return 0, err
	}

	if err := tx.Model(&model.PlateSequence{}).
		Where("id = ?", seq.ID).
		Update("current_sequence", gorm.Expr("current_sequence + 1")).Error; err != nil {
		logger.Error("Failed to increment plate sequence counter", err, map[string]interface{}{
			"region_code": regionCode,
		})
		return 0, err
	}

	if err := tx.First(&seq, seq.ID).Error; err != nil {
		logger.Error("Failed to read back plate sequence counter", err, map[string]interface{}{
			"region_code": regionCode,
		})
		return 0, err
	}

	logger.Debug("Plate sequence advanced", map[string]interface{}{
		"region_code": regionCode,
		"sequence":    seq.CurrentSequence,
	})
	return seq.CurrentSequence, nil
}

func (r *plateSequenceRepository) FindByRegion(regionCode string) (*model.PlateSequence, error) {
	var seq model.PlateSequence
	if err := r.db.Where("region_code = ?", regionCode).First(&seq).Error; err != nil {
		return nil, err
	}
	return &seq, nil
}

func (r *plateSequenceRepository) ListAll() ([]model.PlateSequence, error) {
	var seqs []model.PlateSequence
	if err := r.db.Order("region_code ASC").Find(&seqs).Error; err != nil {
		logger.Error("Failed to list plate sequence counters", err)
		return nil, err
	}
	return seqs, nil
}
