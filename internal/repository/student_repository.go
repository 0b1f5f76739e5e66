package repository

import (
	"mathpath_backend/internal/model"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) Create(profile *model.StudentProfile) error {
	return r.DB.Create(profile).Error
}

func (r *StudentRepository) FindByUserID(userID uint) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	return &profile, err
}

func (r *StudentRepository) Update(profile *model.StudentProfile) error {
	return r.DB.Save(profile).Error
}

func (r *StudentRepository) AddXP(userID uint, xp int) error {
	return r.DB.Model(&model.StudentProfile{}).
		Where("user_id = ?", userID).
		Update("xp", gorm.Expr("xp + ?", xp)).
		Error
}

func (r *StudentRepository) FindTopByXP(limit int) ([]model.StudentProfile, error) {
	var profiles []model.StudentProfile
	err := r.DB.Order("xp DESC").Limit(limit).Find(&profiles).Error
	return profiles, err
}

// ListUserIDs 返回所有学生档案的用户ID，后台聚合任务使用
func (r *StudentRepository) ListUserIDs() ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.StudentProfile{}).Pluck("user_id", &ids).Error
	return ids, err
}
