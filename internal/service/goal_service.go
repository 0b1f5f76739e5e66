package service

import (
	"mathpath_backend/internal/config"
	"mathpath_backend/internal/model"
	"mathpath_backend/internal/repository"
	"mathpath_backend/internal/util"
	"mathpath_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GoalService 每日目标、每周统计和学习会话。
// 聚合值一律从当期的答题记录整体重算，天然幂等，
// 接口慢一拍或后台任务重跑都不会累加出错误的计数。
type GoalService struct {
	GoalRepo    *repository.GoalRepository
	AttemptRepo *repository.AttemptRepository
	StudentRepo *repository.StudentRepository
	Cfg         *config.Config
}

func NewGoalService(
	goalRepo *repository.GoalRepository,
	attemptRepo *repository.AttemptRepository,
	studentRepo *repository.StudentRepository,
	cfg *config.Config,
) *GoalService {
	return &GoalService{
		GoalRepo:    goalRepo,
		AttemptRepo: attemptRepo,
		StudentRepo: studentRepo,
		Cfg:         cfg,
	}
}

// GetOrCreateToday 取当天的目标记录，不存在则按配置默认值创建
func (s *GoalService) GetOrCreateToday(studentID uint, now time.Time) (*model.DailyGoal, error) {
	goal, err := s.GoalRepo.FindDaily(studentID, now)
	if err == nil {
		return goal, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	goal = &model.DailyGoal{
		StudentID:      studentID,
		Date:           DayStartOf(now),
		TargetProblems: s.Cfg.Goal.DailyProblems,
		TargetMinutes:  s.Cfg.Goal.DailyMinutes,
		TargetXP:       s.Cfg.Goal.DailyXP,
	}
	if err := s.GoalRepo.SaveDaily(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

type UpdateGoalTargetsRequest struct {
	TargetProblems int `json:"targetProblems" binding:"omitempty,min=1,max=200"`
	TargetMinutes  int `json:"targetMinutes" binding:"omitempty,min=1,max=600"`
	TargetXP       int `json:"targetXp" binding:"omitempty,min=1,max=5000"`
}

// UpdateTargets 修改当天的目标值并按新目标重算完成状态
func (s *GoalService) UpdateTargets(studentID uint, req UpdateGoalTargetsRequest) (*model.DailyGoal, error) {
	now := time.Now()
	goal, err := s.GetOrCreateToday(studentID, now)
	if err != nil {
		return nil, err
	}

	if req.TargetProblems > 0 {
		goal.TargetProblems = req.TargetProblems
	}
	if req.TargetMinutes > 0 {
		goal.TargetMinutes = req.TargetMinutes
	}
	if req.TargetXP > 0 {
		goal.TargetXP = req.TargetXP
	}
	if err := s.GoalRepo.SaveDaily(goal); err != nil {
		return nil, err
	}
	return s.recomputeDailyGoal(studentID, now, goal)
}

// RecomputeDaily 从当天的答题记录重算每日目标进度
func (s *GoalService) RecomputeDaily(studentID uint, now time.Time) error {
	goal, err := s.GetOrCreateToday(studentID, now)
	if err != nil {
		return err
	}
	_, err = s.recomputeDailyGoal(studentID, now, goal)
	return err
}

func (s *GoalService) recomputeDailyGoal(studentID uint, now time.Time, goal *model.DailyGoal) (*model.DailyGoal, error) {
	dayStart := DayStartOf(now)
	attempts, err := s.AttemptRepo.ListByStudentBetween(studentID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	folded := FoldDailyGoal(*goal, attempts)
	if err := s.GoalRepo.SaveDaily(&folded); err != nil {
		return nil, err
	}
	return &folded, nil
}

// GetWeekly 某学生某周的统计，没有记录时现算一份（不落库）
func (s *GoalService) GetWeekly(studentID uint, t time.Time) (*model.WeeklyStats, error) {
	weekStart := WeekStartOf(t)
	stats, err := s.GoalRepo.FindWeekly(studentID, weekStart)
	if err == nil {
		return stats, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	attempts, err := s.AttemptRepo.ListByStudentBetween(studentID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, err
	}
	fresh := FoldWeeklyStats(studentID, weekStart, attempts)
	return &fresh, nil
}

// RecomputeWeekly 从本周的答题记录重算并落库周统计
func (s *GoalService) RecomputeWeekly(studentID uint, t time.Time) error {
	weekStart := WeekStartOf(t)
	attempts, err := s.AttemptRepo.ListByStudentBetween(studentID, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return err
	}

	folded := FoldWeeklyStats(studentID, weekStart, attempts)
	if existing, err := s.GoalRepo.FindWeekly(studentID, weekStart); err == nil {
		folded.BaseModel = existing.BaseModel
	} else if err != gorm.ErrRecordNotFound {
		return err
	}
	return s.GoalRepo.SaveWeekly(&folded)
}

// RecomputeAllWeekly 后台定时任务：重算所有学生的本周统计。
// 单个学生失败只记日志，不中断整批。
func (s *GoalService) RecomputeAllWeekly() {
	ids, err := s.StudentRepo.ListUserIDs()
	if err != nil {
		logger.Log.Error("failed to list students for weekly aggregation", zap.Error(err))
		return
	}

	now := time.Now()
	for _, id := range ids {
		if err := s.RecomputeWeekly(id, now); err != nil {
			logger.Log.Error("failed to recompute weekly stats",
				zap.Uint("studentId", id), zap.Error(err))
		}
	}
	logger.Log.Info("weekly stats aggregation finished", zap.Int("students", len(ids)))
}

// StartSession 开始一次学习会话
func (s *GoalService) StartSession(studentID uint) (*model.StudySession, error) {
	session := &model.StudySession{
		StudentID: studentID,
		StartTime: time.Now(),
	}
	if err := s.GoalRepo.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// EndSession 结束会话并回填时长和会话内的答题数
func (s *GoalService) EndSession(studentID uint, sessionID uint) (*model.StudySession, error) {
	session, err := s.GoalRepo.FindSession(sessionID, studentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if session.EndTime != nil {
		return nil, util.ErrSessionAlreadyOver
	}

	now := time.Now()
	session.EndTime = &now
	session.DurationSeconds = int(now.Sub(session.StartTime).Seconds())

	attempts, err := s.AttemptRepo.ListByStudentBetween(studentID, session.StartTime, now)
	if err != nil {
		return nil, err
	}
	session.ProblemCount = len(attempts)

	if err := s.GoalRepo.UpdateSession(session); err != nil {
		return nil, err
	}

	if err := s.RecomputeDaily(studentID, now); err != nil {
		logger.Log.Error("failed to recompute daily goal after session end",
			zap.Uint("studentId", studentID), zap.Error(err))
	}
	return session, nil
}
