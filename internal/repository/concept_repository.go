package repository

import (
	"mathpath_backend/internal/model"

	"gorm.io/gorm"
)

type ConceptRepository struct {
	DB *gorm.DB
}

func NewConceptRepository(db *gorm.DB) *ConceptRepository {
	return &ConceptRepository{DB: db}
}

func (r *ConceptRepository) Create(concept *model.Concept) error {
	return r.DB.Create(concept).Error
}

func (r *ConceptRepository) Update(concept *model.Concept) error {
	return r.DB.Save(concept).Error
}

func (r *ConceptRepository) FindByID(id string) (*model.Concept, error) {
	var concept model.Concept
	err := r.DB.Where("id = ?", id).First(&concept).Error
	return &concept, err
}

// ListByGrade 按年级（可选领域）列出概念，顺序即大纲顺序
func (r *ConceptRepository) ListByGrade(grade int, domain model.ConceptDomain) ([]model.Concept, error) {
	var concepts []model.Concept
	query := r.DB.Where("grade = ?", grade)
	if domain != "" {
		query = query.Where("domain = ?", domain)
	}
	err := query.Order("semester, base_difficulty, id").Find(&concepts).Error
	return concepts, err
}

func (r *ConceptRepository) ListPrerequisites(conceptID string) ([]model.ConceptPrerequisite, error) {
	var edges []model.ConceptPrerequisite
	err := r.DB.Where("concept_id = ?", conceptID).Find(&edges).Error
	return edges, err
}

// ListAllEdges 返回整张前置图，成环检测用
func (r *ConceptRepository) ListAllEdges() ([]model.ConceptPrerequisite, error) {
	var edges []model.ConceptPrerequisite
	err := r.DB.Find(&edges).Error
	return edges, err
}

func (r *ConceptRepository) CreateEdge(edge *model.ConceptPrerequisite) error {
	return r.DB.Create(edge).Error
}

func (r *ConceptRepository) DeleteEdge(conceptID, prerequisiteID string) error {
	return r.DB.Where("concept_id = ? AND prerequisite_id = ?", conceptID, prerequisiteID).
		Delete(&model.ConceptPrerequisite{}).Error
}
