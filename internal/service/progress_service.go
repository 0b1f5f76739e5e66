package service

import (
	"context"
	"encoding/json"
	"mathpath_backend/internal/config"
	"mathpath_backend/internal/model"
	"mathpath_backend/internal/repository"
	"mathpath_backend/internal/util"
	"mathpath_backend/pkg/logger"
	"mathpath_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 同一进度行上的事务冲突重试上限
const progressWriteRetries = 3

type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	AttemptRepo    *repository.AttemptRepository
	ProblemRepo    *repository.ProblemRepository
	StudentService *StudentService
	GoalService    *GoalService
	AI             *AIService
	Cfg            *config.Config
	DB             *gorm.DB
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	attemptRepo *repository.AttemptRepository,
	problemRepo *repository.ProblemRepository,
	studentService *StudentService,
	goalService *GoalService,
	ai *AIService,
	cfg *config.Config,
	db *gorm.DB,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:   progressRepo,
		AttemptRepo:    attemptRepo,
		ProblemRepo:    problemRepo,
		StudentService: studentService,
		GoalService:    goalService,
		AI:             ai,
		Cfg:            cfg,
		DB:             db,
	}
}

type SubmitAttemptRequest struct {
	ProblemID   string `json:"problemId" binding:"required"`
	UserAnswer  string `json:"userAnswer" binding:"required"`
	TimeSeconds int    `json:"timeSeconds" binding:"min=0"`
	HintsUsed   int    `json:"hintsUsed" binding:"min=0"`
}

type SubmitAttemptResult struct {
	Attempt    *model.ProblemAttempt  `json:"attempt"`
	Progress   *model.ConceptProgress `json:"progress"`
	Evaluation *EvaluationResult      `json:"evaluation,omitempty"`
	Ungraded   bool                   `json:"ungraded"` // AI评估失败，按未评分记录
	XPEarned   int                    `json:"xpEarned"`
}

// SubmitAttempt 处理一次答题提交：校验 -> AI评估 -> 行锁事务内
// 更新进度 -> 追加不可变答题记录 -> 学生XP/金币 -> 每日目标重算。
//
// AI评估失败不会把答案悄悄判错：按答案精确比对兜底、记录为未评分，
// 并返回 ErrEvaluationFailed 让调用方以可重试错误上报。
// 校验失败在任何写入之前返回，不产生半截状态。
func (s *ProgressService) SubmitAttempt(ctx context.Context, userID uint, req SubmitAttemptRequest) (*SubmitAttemptResult, error) {
	if strings.TrimSpace(req.ProblemID) == "" || strings.TrimSpace(req.UserAnswer) == "" {
		return nil, util.ErrInvalidAttempt
	}

	problem, err := s.ProblemRepo.FindByID(req.ProblemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrProblemNotFound
		}
		return nil, err
	}

	// AI评估（未配置或失败时走精确比对的未评分路径）
	in := AttemptInput{
		TimeSeconds: req.TimeSeconds,
		HintsUsed:   req.HintsUsed,
	}
	var eval *EvaluationResult
	var evalErr error
	if s.AI != nil && s.Cfg.AI.APIKey != "" {
		eval, evalErr = s.AI.EvaluateAnswer(ctx, problem, req.UserAnswer)
	}
	if eval != nil {
		in.Graded = true
		in.IsCorrect = eval.IsCorrect
		in.PartialCredit = eval.PartialCredit
		in.MasteryImpact = eval.ConceptMasteryImpact
	} else {
		in.IsCorrect = answersMatch(problem.Answer, req.UserAnswer)
		if evalErr != nil {
			logger.Log.Warn("AI evaluation failed, recording attempt as ungraded",
				zap.String("problemId", problem.ID), zap.Error(evalErr))
		}
	}

	correct := in.JudgedCorrect(s.Cfg.Mastery)
	xp := xpForAttempt(problem.Difficulty, correct, req.HintsUsed)

	attempt := &model.ProblemAttempt{
		StudentID:     userID,
		ProblemID:     problem.ID,
		ConceptID:     problem.ConceptID,
		UserAnswer:    req.UserAnswer,
		IsCorrect:     correct,
		Graded:        in.Graded,
		PartialCredit: in.PartialCredit,
		TimeSeconds:   req.TimeSeconds,
		HintsUsed:     req.HintsUsed,
		XPEarned:      xp,
	}
	if eval != nil {
		if raw, err := json.Marshal(eval); err == nil {
			attempt.AIEvaluation = string(raw)
		}
	}

	var updated model.ConceptProgress
	var wasMastered, nowMastered bool

	// 行锁事务 + 有限重试：同一 (学生, 概念) 键的并发提交在锁上串行化，
	// 死锁/锁超时时对最新状态重算整个更新
	var txErr error
	for i := 0; i < progressWriteRetries; i++ {
		txErr = s.DB.Transaction(func(tx *gorm.DB) error {
			progress, err := s.ProgressRepo.LockForUpdate(tx, userID, problem.ConceptID)
			if err != nil {
				return err
			}

			wasMastered = progress.Status == model.ProgressMastered
			updated = ApplyAttempt(*progress, in, s.Cfg.Mastery, time.Now())
			nowMastered = updated.Status == model.ProgressMastered

			if err := s.ProgressRepo.SaveInTx(tx, &updated); err != nil {
				return err
			}
			if err := s.AttemptRepo.CreateInTx(tx, attempt); err != nil {
				return err
			}

			coins := 0
			if correct {
				coins = problem.Difficulty
			}
			return tx.Model(&model.StudentProfile{}).
				Where("user_id = ?", userID).
				Updates(map[string]interface{}{
					"xp":    gorm.Expr("xp + ?", xp),
					"coins": gorm.Expr("coins + ?", coins),
				}).Error
		})
		if txErr == nil || !isRetryableTxError(txErr) {
			break
		}
		logger.Log.Warn("progress update conflict, retrying",
			zap.Uint("studentId", userID), zap.String("conceptId", problem.ConceptID), zap.Error(txErr))
	}
	if txErr != nil {
		if isRetryableTxError(txErr) {
			return nil, util.ErrWriteConflict
		}
		return nil, txErr
	}

	monitoring.AttemptCounter.WithLabelValues(attemptResultLabel(correct, in.Graded)).Inc()

	// 事务外的派生更新：失败只记日志，下一次提交或后台任务会补上
	if err := s.StudentService.TouchActivity(userID); err != nil {
		logger.Log.Error("failed to update student activity", zap.Uint("userId", userID), zap.Error(err))
	}
	if !wasMastered && nowMastered {
		if err := s.StudentService.OnConceptMastered(userID); err != nil {
			logger.Log.Error("failed to apply mastery reward", zap.Uint("userId", userID), zap.Error(err))
		}
	}
	if err := s.GoalService.RecomputeDaily(userID, time.Now()); err != nil {
		logger.Log.Error("failed to recompute daily goal", zap.Uint("userId", userID), zap.Error(err))
	}

	result := &SubmitAttemptResult{
		Attempt:    attempt,
		Progress:   &updated,
		Evaluation: eval,
		Ungraded:   !in.Graded && evalErr != nil,
		XPEarned:   xp,
	}
	if result.Ungraded {
		return result, util.ErrEvaluationFailed
	}
	return result, nil
}

// GetStudentProgress 学生的全部概念进度
func (s *ProgressService) GetStudentProgress(userID uint) ([]model.ConceptProgress, error) {
	return s.ProgressRepo.ListByStudent(userID)
}

func (s *ProgressService) GetConceptProgress(userID uint, conceptID string) (*model.ConceptProgress, error) {
	progress, err := s.ProgressRepo.FindByStudentAndConcept(userID, conceptID)
	if err == gorm.ErrRecordNotFound {
		return &model.ConceptProgress{
			StudentID:         userID,
			ConceptID:         conceptID,
			Status:            model.ProgressNotStarted,
			CurrentDifficulty: 1,
		}, nil
	}
	return progress, err
}

// Reset 显式重置一个已掌握的概念，重新进入练习循环
func (s *ProgressService) Reset(userID uint, conceptID string) (*model.ConceptProgress, error) {
	var updated model.ConceptProgress
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		progress, err := s.ProgressRepo.LockForUpdate(tx, userID, conceptID)
		if err != nil {
			return err
		}
		if progress.ID == 0 {
			return gorm.ErrRecordNotFound
		}
		updated = ResetProgress(*progress)
		return s.ProgressRepo.SaveInTx(tx, &updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// answersMatch AI不可用时的兜底判定：忽略大小写和空白的精确比对
func answersMatch(expected, actual string) bool {
	normalize := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	return normalize(expected) == normalize(actual)
}

// xpForAttempt 难度越高XP越多，用提示要扣一点；答错给参与分
func xpForAttempt(difficulty int, correct bool, hintsUsed int) int {
	if !correct {
		return 2
	}
	xp := 10*difficulty - 2*hintsUsed
	if xp < 5 {
		xp = 5
	}
	return xp
}

func attemptResultLabel(correct, graded bool) string {
	if !graded {
		return "ungraded"
	}
	if correct {
		return "correct"
	}
	return "incorrect"
}

// isRetryableTxError 判断是否是值得对最新状态重试的写冲突
func isRetryableTxError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Deadlock") || strings.Contains(msg, "Lock wait timeout")
}
