package service

import (
	"context"
	"encoding/json"
	"mathpath_backend/internal/model"
	"mathpath_backend/internal/repository"
	"mathpath_backend/internal/util"
	"mathpath_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	leaderboardCacheKey = "leaderboard:xp"
	leaderboardCacheTTL = time.Minute
	maxMathLevel        = 12.0
	masteryMathLevelGain = 0.2
)

type StudentService struct {
	StudentRepo  *repository.StudentRepository
	UserRepo     *repository.UserRepository
	ProgressRepo *repository.ProgressRepository
	Redis        *redis.Client
}

func NewStudentService(
	studentRepo *repository.StudentRepository,
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	rdb *redis.Client,
) *StudentService {
	return &StudentService{
		StudentRepo:  studentRepo,
		UserRepo:     userRepo,
		ProgressRepo: progressRepo,
		Redis:        rdb,
	}
}

// StudentOverview 学生档案 + 汇总指标，个人主页用
type StudentOverview struct {
	Profile          model.StudentProfile `json:"profile"`
	Name             string               `json:"name"`
	Avatar           string               `json:"avatar"`
	MasteredConcepts int64                `json:"masteredConcepts"`
	XPToNextLevel    int                  `json:"xpToNextLevel"`
}

func (s *StudentService) GetOverview(userID uint) (*StudentOverview, error) {
	profile, err := s.StudentRepo.FindByUserID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	mastered, err := s.ProgressRepo.CountMastered(userID)
	if err != nil {
		return nil, err
	}

	return &StudentOverview{
		Profile:          *profile,
		Name:             user.Name,
		Avatar:           user.Avatar,
		MasteredConcepts: mastered,
		XPToNextLevel:    profile.Level*util.XPPerLevel - profile.XP,
	}, nil
}

type UpdateStudentRequest struct {
	Grade      int              `json:"grade" binding:"omitempty,min=1,max=12"`
	SchoolType model.SchoolType `json:"schoolType" binding:"omitempty,oneof=public private homeschool"`
}

func (s *StudentService) UpdateProfile(userID uint, req UpdateStudentRequest) (*model.StudentProfile, error) {
	profile, err := s.StudentRepo.FindByUserID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	if req.Grade != 0 {
		profile.Grade = req.Grade
	}
	if req.SchoolType != "" {
		profile.SchoolType = req.SchoolType
	}
	if err := s.StudentRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// TouchActivity 刷新学生的活跃时间和连续学习天数。
// 同一天内重复调用不改变天数；昨天活跃过则 +1，否则重置为 1。
// 等级随当前XP一并校准（升到 n+1 级需要 n*100 XP）。
func (s *StudentService) TouchActivity(userID uint) error {
	profile, err := s.StudentRepo.FindByUserID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// 非学生角色没有档案，静默跳过
			return nil
		}
		return err
	}

	now := time.Now()
	today := DayStartOf(now)
	lastActive := DayStartOf(profile.LastActiveAt)

	switch {
	case lastActive.Equal(today):
		// 今天已经记过了
	case lastActive.Equal(today.AddDate(0, 0, -1)):
		profile.CurrentStreak++
	default:
		profile.CurrentStreak = 1
	}
	if profile.CurrentStreak > profile.LongestStreak {
		profile.LongestStreak = profile.CurrentStreak
	}
	profile.LastActiveAt = now

	if level := profile.XP/util.XPPerLevel + 1; level > profile.Level {
		profile.Level = level
	}

	return s.StudentRepo.Update(profile)
}

// OnConceptMastered 掌握一个新概念时上调连续数学水平
func (s *StudentService) OnConceptMastered(userID uint) error {
	profile, err := s.StudentRepo.FindByUserID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	profile.MathLevel += masteryMathLevelGain
	if profile.MathLevel > maxMathLevel {
		profile.MathLevel = maxMathLevel
	}
	return s.StudentRepo.Update(profile)
}

// LeaderboardEntry XP排行榜条目
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
	Streak int    `json:"streak"`
}

// Leaderboard XP排行榜，Redis缓存一分钟，缓存失败时直接查库
func (s *StudentService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var entries []LeaderboardEntry
			if json.Unmarshal([]byte(cached), &entries) == nil && len(entries) >= limit {
				return entries[:limit], nil
			}
		}
	}

	profiles, err := s.StudentRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entry := LeaderboardEntry{
			Rank:   i + 1,
			XP:     p.XP,
			Level:  p.Level,
			Streak: p.CurrentStreak,
		}
		if user, err := s.UserRepo.FindByID(p.UserID); err == nil {
			entry.Name = user.Name
			entry.Avatar = user.Avatar
		}
		entries = append(entries, entry)
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := s.Redis.Set(ctx, leaderboardCacheKey, raw, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache leaderboard", zap.Error(err))
			}
		}
	}
	return entries, nil
}
