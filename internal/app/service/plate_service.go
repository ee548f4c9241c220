package service

import (
	"errors"
	"fmt"

	"github.com/rdcplates/carte-rose-backend/internal/app/model"
	"github.com/rdcplates/carte-rose-backend/internal/app/repository"
	apperrors "github.com/rdcplates/carte-rose-backend/internal/errors"
	"github.com/rdcplates/carte-rose-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidRegion           = errors.New("invalid region code")
	ErrRegionCapacityExhausted = errors.New("plate capacity exhausted for region")
	ErrStorageConflict         = errors.New("storage conflict, retry the operation")
)

const (
	// 26*26 letter pairs per cycle digit block.
	lettersPerCycle = 676
	// The cycle digits cap the plate space; past this the region is out of
	// plate numbers and allocation must fail rather than wrap.
	maxSequencePerRegion = int64(9999) * lettersPerCycle

	// Transient conflicts (lazy counter creation races, serialization
	// failures) are retried from the increment step this many times.
	allocateMaxAttempts = 3
)

// FormatPlateCode renders a 1-based sequence number as the plate text
// NNNNLLRR: 4 cycle digits, 2 letters, 2 region digits. Sequence 1 is
// "0000AA<region>"; the letters roll AA..ZZ and the cycle digits advance
// every 676 plates.
func FormatPlateCode(n int64, regionCode string) string {
	withinCycle := (n - 1) % lettersPerCycle
	cycle := (n - 1) / lettersPerCycle
	firstLetter := byte('A' + withinCycle/26)
	secondLetter := byte('A' + withinCycle%26)
	return fmt.Sprintf("%04d%c%c%s", cycle, firstLetter, secondLetter, regionCode)
}

type PlateService interface {
	// Allocate issues the next plate code for a region in its own
	// transaction, retrying transient conflicts.
	Allocate(regionCode string) (string, error)
	// AllocateIn issues the next plate code inside the caller's transaction.
	// No retry happens at this level; the caller owns the transaction
	// boundary and re-runs it on ErrStorageConflict.
	AllocateIn(tx *gorm.DB, regionCode string) (string, error)
	ListCounters() ([]model.PlateSequence, error)
}

type plateService struct {
	sequenceRepo repository.PlateSequenceRepository
	db           *gorm.DB
}

func NewPlateService(sequenceRepo repository.PlateSequenceRepository, db *gorm.DB) PlateService {
	return &plateService{
		sequenceRepo: sequenceRepo,
		db:           db,
	}
}

func (s *plateService) Allocate(regionCode string) (string, error) {
	if !model.IsValidRegionCode(regionCode) {
		logger.Warn("Plate allocation rejected: invalid region code", map[string]interface{}{
			"region_code": regionCode,
		})
		return "", ErrInvalidRegion
	}

	var plateCode string
	var lastErr error
	for attempt := 1; attempt <= allocateMaxAttempts; attempt++ {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			code, err := s.AllocateIn(tx, regionCode)
			if err != nil {
				return err
			}
			plateCode = code
			return nil
		})
		if err == nil {
			return plateCode, nil
		}
		lastErr = err
		if !errors.Is(err, ErrStorageConflict) {
			return "", err
		}
		logger.Warn("Plate allocation conflict, retrying", map[string]interface{}{
			"region_code": regionCode,
			"attempt":     attempt,
		})
	}

	logger.Error("Plate allocation failed after retries", lastErr, map[string]interface{}{
		"region_code": regionCode,
		"attempts":    allocateMaxAttempts,
	})
	return "", lastErr
}

func (s *plateService) AllocateIn(tx *gorm.DB, regionCode string) (string, error) {
	if !model.IsValidRegionCode(regionCode) {
		return "", ErrInvalidRegion
	}

	n, err := s.sequenceRepo.IncrementAndGet(tx, regionCode)
	if err != nil {
		if apperrors.IsConflict(err) || apperrors.IsUniqueViolation(err) {
			return "", fmt.Errorf("%w: %v", ErrStorageConflict, err)
		}
		return "", err
	}

	if n > maxSequencePerRegion {
		// Returning the error rolls the transaction back, so the counter is
		// not burned past its ceiling.
		logger.Error("Plate capacity exhausted for region", ErrRegionCapacityExhausted, map[string]interface{}{
			"region_code": regionCode,
			"sequence":    n,
		})
		return "", ErrRegionCapacityExhausted
	}

	plateCode := FormatPlateCode(n, regionCode)
	logger.Info("Plate code allocated", map[string]interface{}{
		"region_code": regionCode,
		"sequence":    n,
		"plate_code":  plateCode,
	})
	return plateCode, nil
}

func (s *plateService) ListCounters() ([]model.PlateSequence, error) {
	return s.sequenceRepo.ListAll()
}
