package repository

import (
	"mathpath_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// AttemptRepository 答题事件仓库。记录只追加，不提供更新/删除。
type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.ProblemAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) CreateInTx(tx *gorm.DB, attempt *model.ProblemAttempt) error {
	return tx.Create(attempt).Error
}

// ListByStudentBetween 按时间窗口取学生的答题记录，按创建时间升序
func (r *AttemptRepository) ListByStudentBetween(studentID uint, start, end time.Time) ([]model.ProblemAttempt, error) {
	var attempts []model.ProblemAttempt
	err := r.DB.Where("student_id = ? AND created_at >= ? AND created_at < ?", studentID, start, end).
		Order("created_at").Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByStudentConcept(studentID uint, conceptID string, limit int) ([]model.ProblemAttempt, error) {
	var attempts []model.ProblemAttempt
	err := r.DB.Where("student_id = ? AND concept_id = ?", studentID, conceptID).
		Order("created_at DESC").Limit(limit).Find(&attempts).Error
	return attempts, err
}
