package service

import (
	"mathpath_backend/internal/model"
	"mathpath_backend/internal/repository"
	"time"

	"gorm.io/gorm"
)

// AdminService 管理端看板的统计汇总，纯读
type AdminService struct {
	AdminRepo *repository.AdminRepository
	DB        *gorm.DB
}

func NewAdminService(adminRepo *repository.AdminRepository, db *gorm.DB) *AdminService {
	return &AdminService{AdminRepo: adminRepo, DB: db}
}

// DashboardStats 平台看板
// swagger:model DashboardStats
type DashboardStats struct {
	TotalUsers      int64                    `json:"totalUsers"`
	UsersByRole     map[model.UserRole]int64 `json:"usersByRole"`
	SignupsLast7d   int64                    `json:"signupsLast7d"`
	TotalAttempts   int64                    `json:"totalAttempts"`
	AttemptsLast24h int64                    `json:"attemptsLast24h"`
	MasteredTotal   int64                    `json:"masteredTotal"`
	ActiveToday     int64                    `json:"activeToday"`
	RecentUsers     []model.User             `json:"recentUsers"`
}

func (s *AdminService) Dashboard() (*DashboardStats, error) {
	stats := &DashboardStats{}

	byRole, err := s.AdminRepo.CountByRole()
	if err != nil {
		return nil, err
	}
	stats.UsersByRole = byRole
	for _, count := range byRole {
		stats.TotalUsers += count
	}

	now := time.Now()
	stats.SignupsLast7d, err = s.AdminRepo.CountSignupsSince(now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(&model.ProblemAttempt{}).Count(&stats.TotalAttempts).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&model.ProblemAttempt{}).
		Where("created_at >= ?", now.Add(-24*time.Hour)).
		Count(&stats.AttemptsLast24h).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&model.ConceptProgress{}).
		Where("status = ?", model.ProgressMastered).
		Count(&stats.MasteredTotal).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&model.StudentProfile{}).
		Where("last_active_at >= ?", DayStartOf(now)).
		Count(&stats.ActiveToday).Error; err != nil {
		return nil, err
	}

	stats.RecentUsers, err = s.AdminRepo.RecentUsers(5)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// StudentReport 单个学生的学习报告（管理员/教师/家长视角）
// swagger:model StudentReport
type StudentReport struct {
	Profile       model.StudentProfile    `json:"profile"`
	Progress      []model.ConceptProgress `json:"progress"`
	WeeklyStats   []model.WeeklyStats     `json:"weeklyStats"`
	TotalAttempts int64                   `json:"totalAttempts"`
}

func (s *AdminService) StudentReport(userID uint) (*StudentReport, error) {
	report := &StudentReport{}

	if err := s.DB.Where("user_id = ?", userID).First(&report.Profile).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("student_id = ?", userID).Find(&report.Progress).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Where("student_id = ?", userID).
		Order("week_start DESC").Limit(8).
		Find(&report.WeeklyStats).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&model.ProblemAttempt{}).
		Where("student_id = ?", userID).
		Count(&report.TotalAttempts).Error; err != nil {
		return nil, err
	}
	return report, nil
}
