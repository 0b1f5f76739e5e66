package model

import "time"

type ProgressStatus string

const (
	ProgressNotStarted  ProgressStatus = "not_started"
	ProgressInProgress  ProgressStatus = "in_progress"
	ProgressNeedsReview ProgressStatus = "needs_review"
	ProgressMastered    ProgressStatus = "mastered"
)

// ConceptProgress 每个 (学生, 概念) 对应一条掌握度记录。
// 不变量：correct_attempts <= total_attempts；
// 连对/连错计数互斥（其中一个递增时另一个归零）；
// status 为 mastered 当且仅当掌握度越过阈值且 mastered_at 已设置。
// swagger:model ConceptProgress
type ConceptProgress struct {
	BaseModel
	StudentID          uint           `gorm:"index:idx_student_concept,unique;type:bigint unsigned;not null" json:"studentId"`
	ConceptID          string         `gorm:"index:idx_student_concept,unique;type:varchar(36);not null" json:"conceptId"`
	Status             ProgressStatus `gorm:"type:enum('not_started','in_progress','needs_review','mastered');default:'not_started'" json:"status"`
	Mastery            float64        `gorm:"default:0" json:"mastery"` // [0,1]
	TotalAttempts      int            `gorm:"default:0" json:"totalAttempts"`
	CorrectAttempts    int            `gorm:"default:0" json:"correctAttempts"`
	TotalTimeSeconds   int            `gorm:"default:0" json:"totalTimeSeconds"`
	CurrentDifficulty  int            `gorm:"default:1" json:"currentDifficulty"`
	ConsecutiveCorrect int            `gorm:"default:0" json:"consecutiveCorrect"`
	ConsecutiveWrong   int            `gorm:"default:0" json:"consecutiveWrong"`
	LastStudiedAt      time.Time      `json:"lastStudiedAt"`
	MasteredAt         *time.Time     `json:"masteredAt"`
}

func (ConceptProgress) TableName() string {
	return "concept_progress"
}
