package model

// LearningPath 学生的概念学习序列，按课程大纲生成。
// current_index 只会随着概念被掌握单调前进。
// swagger:model LearningPath
type LearningPath struct {
	BaseModel
	StudentID    uint     `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"studentId"`
	ConceptIDs   []string `gorm:"type:json;serializer:json" json:"conceptIds"`
	CurrentIndex int      `gorm:"default:0" json:"currentIndex"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}
