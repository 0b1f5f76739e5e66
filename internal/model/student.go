package model

import "time"

type SchoolType string

const (
	SchoolPublic     SchoolType = "public"
	SchoolPrivate    SchoolType = "private"
	SchoolHomeschool SchoolType = "homeschool"
)

// StudentProfile 学生档案：年级、数学水平与游戏化计数器。
// 每次完成答题和每次登录（连续学习天数、最近活跃时间）后更新。
// swagger:model StudentProfile
type StudentProfile struct {
	BaseModel
	UserID        uint       `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	Grade         int        `gorm:"not null" json:"grade"` // 1-12
	SchoolType    SchoolType `gorm:"type:enum('public','private','homeschool');default:'public'" json:"schoolType"`
	MathLevel     float64    `gorm:"default:0" json:"mathLevel"` // 连续数学水平 [0,12]
	XP            int        `gorm:"default:0" json:"xp"`
	Level         int        `gorm:"default:1" json:"level"`
	Coins         int        `gorm:"default:0" json:"coins"`
	CurrentStreak int        `gorm:"default:0" json:"currentStreak"` // 连续学习天数
	LongestStreak int        `gorm:"default:0" json:"longestStreak"`
	LastActiveAt  time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastActiveAt"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}
