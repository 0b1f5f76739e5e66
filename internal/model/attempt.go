package model

// ProblemAttempt 一次答题提交的不可变事件记录。
// 只追加，创建后不再修改或删除；掌握度更新和每日/每周聚合都从它回放。
// swagger:model ProblemAttempt
type ProblemAttempt struct {
	UUIDBase
	StudentID     uint    `gorm:"index;type:bigint unsigned;not null" json:"studentId"`
	ProblemID     string  `gorm:"index;type:varchar(36);not null" json:"problemId"`
	ConceptID     string  `gorm:"index;type:varchar(36);not null" json:"conceptId"`
	UserAnswer    string  `gorm:"type:text" json:"userAnswer"`
	IsCorrect     bool    `gorm:"default:false" json:"isCorrect"`
	Graded        bool    `gorm:"default:false" json:"graded"` // false = AI评估失败，按未评分记录
	PartialCredit float64 `gorm:"default:0" json:"partialCredit"`
	TimeSeconds   int     `gorm:"default:0" json:"timeSeconds"`
	HintsUsed     int     `gorm:"default:0" json:"hintsUsed"`
	AIEvaluation  string  `gorm:"type:json" json:"aiEvaluation"` // 原始评估JSON，审计用
	XPEarned      int     `gorm:"default:0" json:"xpEarned"`
}

func (ProblemAttempt) TableName() string {
	return "problem_attempts"
}
