package repository

import (
	"github.com/moeidevil1-maker/Arc-Raiders-Market-Project/internal/model"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Profile{}, &model.Transaction{})
}
