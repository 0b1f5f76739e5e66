package model

// ConceptDomain 课程领域划分
type ConceptDomain string

const (
	DomainNumber      ConceptDomain = "number"
	DomainAlgebra     ConceptDomain = "algebra"
	DomainGeometry    ConceptDomain = "geometry"
	DomainMeasurement ConceptDomain = "measurement"
	DomainData        ConceptDomain = "data"
)

// Concept 课程内容中的原子知识概念（例如"分数加法"）。
// 由教师/管理员创建，学生活动永远不会修改它。
// swagger:model Concept
type Concept struct {
	UUIDBase
	Name             string        `gorm:"size:255;not null" json:"name"`
	Description      string        `gorm:"type:text" json:"description"`
	Domain           ConceptDomain `gorm:"type:enum('number','algebra','geometry','measurement','data');not null" json:"domain"`
	Grade            int           `gorm:"not null;index" json:"grade"`    // 1-12
	Semester         int           `gorm:"default:1" json:"semester"`      // 1 | 2
	BaseDifficulty   int           `gorm:"default:1" json:"baseDifficulty"` // 1-5
	EstimatedMinutes int           `gorm:"default:10" json:"estimatedMinutes"`
	Keywords         []string      `gorm:"type:json;serializer:json" json:"keywords"`
	CommonMistakes   []string      `gorm:"type:json;serializer:json" json:"commonMistakes"`
}

func (Concept) TableName() string {
	return "concepts"
}

// ConceptPrerequisite 前置概念有向边（prerequisite -> concept）。
// 整个前置图必须无环；importance 用于推荐引擎的加权缺口检测。
type ConceptPrerequisite struct {
	BaseModel
	ConceptID      string  `gorm:"index:idx_concept_prereq,unique;type:varchar(36);not null" json:"conceptId"`
	PrerequisiteID string  `gorm:"index:idx_concept_prereq,unique;type:varchar(36);not null" json:"prerequisiteId"`
	Importance     float64 `gorm:"default:0.5" json:"importance"` // [0,1]
}

func (ConceptPrerequisite) TableName() string {
	return "concept_prerequisites"
}
