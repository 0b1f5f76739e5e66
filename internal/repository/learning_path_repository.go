package repository

import (
	"mathpath_backend/internal/model"

	"gorm.io/gorm"
)

type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

func (r *LearningPathRepository) Create(path *model.LearningPath) error {
	return r.DB.Create(path).Error
}

func (r *LearningPathRepository) FindByStudent(studentID uint) (*model.LearningPath, error) {
	var path model.LearningPath
	err := r.DB.Where("student_id = ?", studentID).First(&path).Error
	return &path, err
}

// AdvanceIndex 学习路径索引只增不减
func (r *LearningPathRepository) AdvanceIndex(path *model.LearningPath, newIndex int) error {
	if newIndex <= path.CurrentIndex {
		return nil
	}
	path.CurrentIndex = newIndex
	return r.DB.Model(path).Update("current_index", newIndex).Error
}
