package repository

import (
	"mathpath_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// AdminRepository 管理端看板的纯读查询
type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

// CountByRole 按角色统计用户数
func (r *AdminRepository) CountByRole() (map[model.UserRole]int64, error) {
	type roleCount struct {
		Role  model.UserRole
		Count int64
	}
	var rows []roleCount
	err := r.DB.Model(&model.User{}).
		Select("role, COUNT(*) as count").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.UserRole]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

// CountSignupsSince 统计某时间点之后的注册数（看板用最近7天窗口）
func (r *AdminRepository) CountSignupsSince(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// RecentUsers 最近注册的N个用户
func (r *AdminRepository) RecentUsers(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&users).Error
	return users, err
}

// ListUsers 用户列表，支持分页和筛选
func (r *AdminRepository) ListUsers(page, pageSize int, role, search string) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	query := r.DB.Model(&model.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if search != "" {
		searchTerm := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&users).Error
	return users, total, err
}
