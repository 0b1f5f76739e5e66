package service

import (
	"fmt"
	"mathpath_backend/internal/config"
	"mathpath_backend/internal/model"
)

type RecommendationType string

const (
	RecContinue     RecommendationType = "CONTINUE"
	RecLevelUp      RecommendationType = "LEVEL_UP"
	RecLevelDown    RecommendationType = "LEVEL_DOWN"
	RecPrerequisite RecommendationType = "PREREQUISITE"
	RecMastered     RecommendationType = "MASTERED"
)

// NextRecommendation 下一步学习建议
// swagger:model NextRecommendation
type NextRecommendation struct {
	Type           RecommendationType `json:"type"`
	NextDifficulty int                `json:"nextDifficulty"`
	NextConceptID  string             `json:"nextConceptId,omitempty"`
	Reason         string             `json:"reason"`
	Encouragement  string             `json:"encouragement"`
}

// Recommend 根据当前概念的进度、前置图和调参给出下一步动作。
// 优先级：前置缺口 > 已掌握 > 连错降档 > 连对升档 > 原难度继续。
// 纯函数，鼓励语由调用方另行填充。
func Recommend(
	current model.Concept,
	progress model.ConceptProgress,
	prereqs []model.ConceptPrerequisite,
	prereqProgress map[string]model.ConceptProgress,
	tune config.MasteryConfig,
) NextRecommendation {
	difficulty := progress.CurrentDifficulty
	if difficulty < tune.MinDifficulty {
		difficulty = tune.MinDifficulty
	}

	// 1. 前置概念加权掌握度不足时，优先补最薄弱的前置
	if len(prereqs) > 0 {
		var weightedSum, weightSum float64
		for _, edge := range prereqs {
			mastery := prereqProgress[edge.PrerequisiteID].Mastery
			weightedSum += edge.Importance * mastery
			weightSum += edge.Importance
		}
		if weightSum > 0 && weightedSum/weightSum < tune.PrereqMasteryThreshold {
			weakest := weakestPrerequisite(prereqs, prereqProgress, tune)
			if weakest != "" {
				return NextRecommendation{
					Type:           RecPrerequisite,
					NextDifficulty: tune.MinDifficulty,
					NextConceptID:  weakest,
					Reason:         fmt.Sprintf("「%s」的前置概念还不牢固，先回头补一补", current.Name),
				}
			}
		}
	}

	// 2. 当前概念已掌握，沿学习路径前进
	if progress.Status == model.ProgressMastered {
		return NextRecommendation{
			Type:           RecMastered,
			NextDifficulty: difficulty,
			Reason:         fmt.Sprintf("「%s」已经掌握，可以学习下一个概念了", current.Name),
		}
	}

	// 3. 连错过多，降档
	if progress.ConsecutiveWrong >= tune.LevelDownStreak {
		next := difficulty - 1
		if next < tune.MinDifficulty {
			next = tune.MinDifficulty
		}
		return NextRecommendation{
			Type:           RecLevelDown,
			NextDifficulty: next,
			Reason:         "连续答错了几题，降低难度巩固基础",
		}
	}

	// 4. 连对达到阈值，升档
	if progress.ConsecutiveCorrect >= tune.LevelUpStreak {
		next := difficulty + 1
		if next > tune.MaxDifficulty {
			next = tune.MaxDifficulty
		}
		return NextRecommendation{
			Type:           RecLevelUp,
			NextDifficulty: next,
			Reason:         "连续答对，试试更有挑战的题目",
		}
	}

	return NextRecommendation{
		Type:           RecContinue,
		NextDifficulty: difficulty,
		Reason:         "保持当前难度继续练习",
	}
}

// weakestPrerequisite 掌握度未达标的前置中取最薄弱者，同分取概念ID较小的
func weakestPrerequisite(
	prereqs []model.ConceptPrerequisite,
	prereqProgress map[string]model.ConceptProgress,
	tune config.MasteryConfig,
) string {
	weakestID := ""
	weakestMastery := 0.0
	for _, edge := range prereqs {
		mastery := prereqProgress[edge.PrerequisiteID].Mastery
		if mastery >= tune.PrereqMasteryThreshold {
			continue
		}
		if weakestID == "" ||
			mastery < weakestMastery ||
			(mastery == weakestMastery && edge.PrerequisiteID < weakestID) {
			weakestID = edge.PrerequisiteID
			weakestMastery = mastery
		}
	}
	return weakestID
}
