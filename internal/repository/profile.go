package repository

import (
	"context"
	"errors"

	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/model"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (model.Profile, error)
	AddCredits(ctx context.Context, id string, credits int64) (int64, error)
}

type profile struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profile{db: db}
}

func (r *profile) FindByID(ctx context.Context, id string) (model.Profile, error) {
	var p model.Profile
	err := GetTx(ctx, r.db).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return model.Profile{}, err
	}

	return p, nil
}

// AddCredits increments the balance in a single statement and returns the new
// balance. Call it inside WithTx so the read sees the same snapshot.
func (r *profile) AddCredits(ctx context.Context, id string, credits int64) (int64, error) {
	db := GetTx(ctx, r.db)

	result := db.Model(&model.Profile{}).
		Where("id = ?", id).
		UpdateColumn("credits", gorm.Expr("credits + ?", credits))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrProfileNotFound
	}

	var p model.Profile
	if err := db.Select("credits").Where("id = ?", id).Take(&p).Error; err != nil {
		return 0, err
	}

	return p.Credits, nil
}
