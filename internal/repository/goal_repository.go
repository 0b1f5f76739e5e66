package repository

import (
	"mathpath_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// GoalRepository 每日目标/每周统计/学习会话的数据访问
type GoalRepository struct {
	DB *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: db}
}

func (r *GoalRepository) FindDaily(studentID uint, date time.Time) (*model.DailyGoal, error) {
	var goal model.DailyGoal
	day := date.Format("2006-01-02")
	err := r.DB.Where("student_id = ? AND date = ?", studentID, day).First(&goal).Error
	return &goal, err
}

func (r *GoalRepository) SaveDaily(goal *model.DailyGoal) error {
	if goal.ID == 0 {
		return r.DB.Create(goal).Error
	}
	return r.DB.Save(goal).Error
}

func (r *GoalRepository) FindWeekly(studentID uint, weekStart time.Time) (*model.WeeklyStats, error) {
	var stats model.WeeklyStats
	week := weekStart.Format("2006-01-02")
	err := r.DB.Where("student_id = ? AND week_start = ?", studentID, week).First(&stats).Error
	return &stats, err
}

func (r *GoalRepository) SaveWeekly(stats *model.WeeklyStats) error {
	if stats.ID == 0 {
		return r.DB.Create(stats).Error
	}
	return r.DB.Save(stats).Error
}

func (r *GoalRepository) CreateSession(session *model.StudySession) error {
	return r.DB.Create(session).Error
}

func (r *GoalRepository) FindSession(id uint, studentID uint) (*model.StudySession, error) {
	var session model.StudySession
	err := r.DB.Where("id = ? AND student_id = ?", id, studentID).First(&session).Error
	return &session, err
}

func (r *GoalRepository) UpdateSession(session *model.StudySession) error {
	return r.DB.Save(session).Error
}
