package service

import (
	"mathpath_backend/internal/config"
	"mathpath_backend/internal/model"
	"time"
)

// AttemptInput 一次答题提交的结果，掌握度更新的唯一输入
type AttemptInput struct {
	IsCorrect     bool    // 精确判定（AI或答案比对）
	Graded        bool    // AI评估是否成功
	PartialCredit float64 // [0,1]，AI给出的部分得分
	MasteryImpact float64 // [-1,1]，AI报告的概念掌握度影响
	TimeSeconds   int
	HintsUsed     int
}

// JudgedCorrect 本次提交是否按答对计：
// 完全正确，或AI部分得分不低于阈值
func (in AttemptInput) JudgedCorrect(tune config.MasteryConfig) bool {
	if in.IsCorrect {
		return true
	}
	return in.Graded && in.PartialCredit >= tune.PartialCreditThreshold
}

// ApplyAttempt 把一次答题结果折算进 (学生, 概念) 的进度记录。
// 纯函数：给定相同的 (progress, attempt) 输入输出确定，不依赖全局状态；
// 同一键上的并发调用由调用方（事务行锁）串行化。
//
// 规则：
//   - 计数器：total+1；按答对计时 correct+1；累计用时。
//   - 连对/连错互斥，递增一个时另一个归零。
//   - 答对：掌握度增量与提示次数和当前掌握度成反比（接近1时边际递减）。
//   - 答错：按AI报告的掌握度影响按比例下调。
//   - 状态：not_started 首次答题转 in_progress；掌握度越过阈值转
//     mastered（终态，除非显式重置）；连错达到复习阈值转 needs_review。
//   - 难度：连对达到阈值上调、连错达到阈值下调，夹在合法区间内。
func ApplyAttempt(p model.ConceptProgress, in AttemptInput, tune config.MasteryConfig, now time.Time) model.ConceptProgress {
	correct := in.JudgedCorrect(tune)

	p.TotalAttempts++
	if correct {
		p.CorrectAttempts++
	}
	p.TotalTimeSeconds += in.TimeSeconds
	p.LastStudiedAt = now

	if p.Status == model.ProgressNotStarted {
		p.Status = model.ProgressInProgress
	}
	if p.CurrentDifficulty < tune.MinDifficulty {
		p.CurrentDifficulty = tune.MinDifficulty
	}

	if correct {
		p.ConsecutiveCorrect++
		p.ConsecutiveWrong = 0

		gain := tune.BaseMasteryGain * (1 - p.Mastery) / (1 + tune.HintPenalty*float64(in.HintsUsed))
		p.Mastery = clamp01(p.Mastery + gain)
	} else {
		p.ConsecutiveWrong++
		p.ConsecutiveCorrect = 0

		drop := tune.WrongMasteryDrop
		if in.Graded && in.MasteryImpact < 0 {
			drop = tune.WrongMasteryDrop * -in.MasteryImpact
		}
		p.Mastery = clamp01(p.Mastery - drop)
	}

	// 难度调整：连对/连错每凑满一个阈值调一档
	if correct && p.ConsecutiveCorrect%tune.LevelUpStreak == 0 {
		p.CurrentDifficulty++
	} else if !correct && p.ConsecutiveWrong%tune.LevelDownStreak == 0 {
		p.CurrentDifficulty--
	}
	if p.CurrentDifficulty > tune.MaxDifficulty {
		p.CurrentDifficulty = tune.MaxDifficulty
	}
	if p.CurrentDifficulty < tune.MinDifficulty {
		p.CurrentDifficulty = tune.MinDifficulty
	}

	// mastered 是终态，不会被连错降级；显式重置走 ResetProgress
	if p.Status != model.ProgressMastered {
		if p.Mastery >= tune.MasteryThreshold {
			p.Status = model.ProgressMastered
			masteredAt := now
			p.MasteredAt = &masteredAt
		} else if p.ConsecutiveWrong >= tune.ReviewWrongStreak {
			p.Status = model.ProgressNeedsReview
		}
	}

	return p
}

// ResetProgress 显式重置一个已掌握概念，重新进入练习循环。
// 掌握度保留，终态标记和连对连错清零。
func ResetProgress(p model.ConceptProgress) model.ConceptProgress {
	p.Status = model.ProgressInProgress
	p.MasteredAt = nil
	p.ConsecutiveCorrect = 0
	p.ConsecutiveWrong = 0
	return p
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
