package repository

import (
	"mathpath_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByStudentAndConcept(studentID uint, conceptID string) (*model.ConceptProgress, error) {
	var progress model.ConceptProgress
	err := r.DB.Where("student_id = ? AND concept_id = ?", studentID, conceptID).First(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) ListByStudent(studentID uint) ([]model.ConceptProgress, error) {
	var list []model.ConceptProgress
	err := r.DB.Where("student_id = ?", studentID).Find(&list).Error
	return list, err
}

// LockForUpdate 在事务内对 (学生, 概念) 的进度行加行锁后读取。
// 同一键上并发的答题提交会在这里串行化，避免计数器丢更新；
// 记录不存在时返回一条 not_started 的初始记录（未落库）。
func (r *ProgressRepository) LockForUpdate(tx *gorm.DB, studentID uint, conceptID string) (*model.ConceptProgress, error) {
	var progress model.ConceptProgress
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ? AND concept_id = ?", studentID, conceptID).
		First(&progress).Error
	if err == gorm.ErrRecordNotFound {
		return &model.ConceptProgress{
			StudentID:         studentID,
			ConceptID:         conceptID,
			Status:            model.ProgressNotStarted,
			CurrentDifficulty: 1,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// SaveInTx 持久化进度行；新行 Create，已有行 Save
func (r *ProgressRepository) SaveInTx(tx *gorm.DB, progress *model.ConceptProgress) error {
	if progress.ID == 0 {
		return tx.Create(progress).Error
	}
	return tx.Save(progress).Error
}

// CountMastered 统计学生已掌握的概念数
func (r *ProgressRepository) CountMastered(studentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ConceptProgress{}).
		Where("student_id = ? AND status = ?", studentID, model.ProgressMastered).
		Count(&count).Error
	return count, err
}
