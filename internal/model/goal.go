package model

import "time"

// DailyGoal 某学生某一天的学习目标与完成进度。
// 由当日的答题记录重算得到；三个目标（题数/分钟/XP）全部达成时
// is_completed 置 true，只要底层计数仍满足阈值就不会回退。
// swagger:model DailyGoal
type DailyGoal struct {
	BaseModel
	StudentID      uint      `gorm:"index:idx_student_goal_date,unique;type:bigint unsigned;not null" json:"studentId"`
	Date           time.Time `gorm:"index:idx_student_goal_date,unique;type:date;not null" json:"date"`
	TargetProblems int       `gorm:"default:10" json:"targetProblems"`
	TargetMinutes  int       `gorm:"default:30" json:"targetMinutes"`
	TargetXP       int       `gorm:"default:100" json:"targetXp"`
	SolvedProblems int       `gorm:"default:0" json:"solvedProblems"`
	CorrectCount   int       `gorm:"default:0" json:"correctCount"`
	StudyMinutes   int       `gorm:"default:0" json:"studyMinutes"`
	EarnedXP       int       `gorm:"default:0" json:"earnedXp"`
	IsCompleted    bool      `gorm:"default:false" json:"isCompleted"`
}

func (DailyGoal) TableName() string {
	return "daily_goals"
}

// WeeklyStats 按周聚合的派生统计，后台定期从答题记录重算
// swagger:model WeeklyStats
type WeeklyStats struct {
	BaseModel
	StudentID       uint      `gorm:"index:idx_student_week,unique;type:bigint unsigned;not null" json:"studentId"`
	WeekStart       time.Time `gorm:"index:idx_student_week,unique;type:date;not null" json:"weekStart"`
	TotalProblems   int       `gorm:"default:0" json:"totalProblems"`
	CorrectProblems int       `gorm:"default:0" json:"correctProblems"`
	TotalMinutes    int       `gorm:"default:0" json:"totalMinutes"`
	XPEarned        int       `gorm:"default:0" json:"xpEarned"`
	ConceptsTouched int       `gorm:"default:0" json:"conceptsTouched"`
	Accuracy        float64   `gorm:"default:0" json:"accuracy"`
}

func (WeeklyStats) TableName() string {
	return "weekly_stats"
}

// StudySession 一次学习会话（开始/结束由客户端上报）
type StudySession struct {
	BaseModel
	StudentID       uint       `gorm:"index;type:bigint unsigned;not null" json:"studentId"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	DurationSeconds int        `gorm:"default:0" json:"durationSeconds"`
	ProblemCount    int        `gorm:"default:0" json:"problemCount"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}
