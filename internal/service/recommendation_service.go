package service

import (
	"mathpath_backend/internal/config"
	"mathpath_backend/internal/model"
	"mathpath_backend/internal/repository"
	"mathpath_backend/internal/util"
	"mathpath_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecommendationService 在纯推荐规则之上做数据装配：
// 加载当前概念、进度和前置图，喂给 Recommend，再把结果
// 落到具体可做的事情上（目标概念 + 一道对应难度的题）。
type RecommendationService struct {
	ConceptRepo  *repository.ConceptRepository
	ProgressRepo *repository.ProgressRepository
	ProblemRepo  *repository.ProblemRepository
	PathService  *LearningPathService
	Cfg          *config.Config
	DB           *gorm.DB
}

func NewRecommendationService(
	conceptRepo *repository.ConceptRepository,
	progressRepo *repository.ProgressRepository,
	problemRepo *repository.ProblemRepository,
	pathService *LearningPathService,
	cfg *config.Config,
	db *gorm.DB,
) *RecommendationService {
	return &RecommendationService{
		ConceptRepo:  conceptRepo,
		ProgressRepo: progressRepo,
		ProblemRepo:  problemRepo,
		PathService:  pathService,
		Cfg:          cfg,
		DB:           db,
	}
}

// RecommendationResponse 推荐结果 + 推荐概念详情 + 可直接开做的题
// swagger:model RecommendationResponse
type RecommendationResponse struct {
	Recommendation NextRecommendation `json:"recommendation"`
	TargetConcept  *model.Concept     `json:"targetConcept,omitempty"`
	NextProblem    *model.Problem     `json:"nextProblem,omitempty"`
}

// Next 给出学生在某概念上的下一步。conceptID 为空时取学习路径
// 的当前概念。推荐为 MASTERED 时顺带推进路径索引，并把路径上的
// 下一个概念作为目标返回。
func (s *RecommendationService) Next(userID uint, conceptID string) (*RecommendationResponse, error) {
	path, err := s.PathService.GetOrBuild(userID)
	if err != nil {
		return nil, err
	}

	if conceptID == "" {
		conceptID = s.PathService.CurrentConceptID(path)
		if conceptID == "" {
			return nil, util.ErrPathNotFound
		}
	}

	concept, err := s.ConceptRepo.FindByID(conceptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrConceptNotFound
		}
		return nil, err
	}

	progress, err := s.loadProgress(userID, conceptID)
	if err != nil {
		return nil, err
	}

	prereqs, err := s.ConceptRepo.ListPrerequisites(conceptID)
	if err != nil {
		return nil, err
	}
	prereqProgress := make(map[string]model.ConceptProgress, len(prereqs))
	for _, edge := range prereqs {
		p, err := s.loadProgress(userID, edge.PrerequisiteID)
		if err != nil {
			return nil, err
		}
		prereqProgress[edge.PrerequisiteID] = *p
	}

	rec := Recommend(*concept, *progress, prereqs, prereqProgress, s.Cfg.Mastery)
	rec.Encouragement = s.pickEncouragement()

	resp := &RecommendationResponse{Recommendation: rec}

	switch rec.Type {
	case RecPrerequisite:
		target, err := s.ConceptRepo.FindByID(rec.NextConceptID)
		if err == nil {
			resp.TargetConcept = target
		}
	case RecMastered:
		// 路径当前位置被掌握时前进一步，目标换成路径上的下一个概念
		path, err = s.PathService.AdvanceIfCurrent(userID, conceptID)
		if err != nil {
			return nil, err
		}
		if nextID := s.PathService.CurrentConceptID(path); nextID != "" && nextID != conceptID {
			resp.Recommendation.NextConceptID = nextID
			if target, err := s.ConceptRepo.FindByID(nextID); err == nil {
				resp.TargetConcept = target
				resp.Recommendation.NextDifficulty = s.Cfg.Mastery.MinDifficulty
			}
		}
	default:
		resp.TargetConcept = concept
	}

	// 给目标概念配一道推荐难度的题，没有题不算失败
	targetID := conceptID
	if resp.TargetConcept != nil {
		targetID = resp.TargetConcept.ID
	}
	if problem, err := s.ProblemRepo.PickOne(targetID, resp.Recommendation.NextDifficulty); err == nil {
		resp.NextProblem = problem
	} else if err != gorm.ErrRecordNotFound {
		logger.Log.Warn("failed to pick recommended problem",
			zap.String("conceptId", targetID), zap.Error(err))
	}

	return resp, nil
}

func (s *RecommendationService) loadProgress(userID uint, conceptID string) (*model.ConceptProgress, error) {
	progress, err := s.ProgressRepo.FindByStudentAndConcept(userID, conceptID)
	if err == gorm.ErrRecordNotFound {
		return &model.ConceptProgress{
			StudentID:         userID,
			ConceptID:         conceptID,
			Status:            model.ProgressNotStarted,
			CurrentDifficulty: s.Cfg.Mastery.MinDifficulty,
		}, nil
	}
	return progress, err
}

// pickEncouragement 从鼓励语池随机取一条，池子为空给兜底文案
func (s *RecommendationService) pickEncouragement() string {
	var enc model.Encouragement
	err := s.DB.Where("is_enabled = ?", true).Order("RAND()").First(&enc).Error
	if err != nil {
		return "继续加油！"
	}
	return enc.Content
}
