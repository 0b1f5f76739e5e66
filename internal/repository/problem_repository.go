package repository

import (
	"mathpath_backend/internal/model"

	"gorm.io/gorm"
)

type ProblemRepository struct {
	DB *gorm.DB
}

func NewProblemRepository(db *gorm.DB) *ProblemRepository {
	return &ProblemRepository{DB: db}
}

func (r *ProblemRepository) Create(problem *model.Problem) error {
	return r.DB.Create(problem).Error
}

func (r *ProblemRepository) Update(problem *model.Problem) error {
	return r.DB.Save(problem).Error
}

func (r *ProblemRepository) FindByID(id string) (*model.Problem, error) {
	var problem model.Problem
	err := r.DB.Where("id = ?", id).First(&problem).Error
	return &problem, err
}

func (r *ProblemRepository) ListByConcept(conceptID string, difficulty int) ([]model.Problem, error) {
	var problems []model.Problem
	query := r.DB.Where("concept_id = ?", conceptID)
	if difficulty > 0 {
		query = query.Where("difficulty = ?", difficulty)
	}
	err := query.Order("difficulty, id").Find(&problems).Error
	return problems, err
}

// PickOne 按概念与难度随机取一道题；该难度下没有题时退回任意难度
func (r *ProblemRepository) PickOne(conceptID string, difficulty int) (*model.Problem, error) {
	var problem model.Problem
	err := r.DB.Where("concept_id = ? AND difficulty = ?", conceptID, difficulty).
		Order("RAND()").First(&problem).Error
	if err == gorm.ErrRecordNotFound {
		err = r.DB.Where("concept_id = ?", conceptID).Order("RAND()").First(&problem).Error
	}
	if err != nil {
		return nil, err
	}
	return &problem, nil
}
