package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mathpath_backend/internal/model"
	"mathpath_backend/internal/repository"
	"mathpath_backend/internal/util"
	"mathpath_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const conceptCacheTTL = 10 * time.Minute

// ConceptService 课程大纲的维护与查询。
// 概念和题目只由教师/管理员写入，学生侧全是读路径，
// 按年级的目录查询走Redis缓存。
type ConceptService struct {
	ConceptRepo *repository.ConceptRepository
	ProblemRepo *repository.ProblemRepository
	Redis       *redis.Client
}

func NewConceptService(
	conceptRepo *repository.ConceptRepository,
	problemRepo *repository.ProblemRepository,
	rdb *redis.Client,
) *ConceptService {
	return &ConceptService{
		ConceptRepo: conceptRepo,
		ProblemRepo: problemRepo,
		Redis:       rdb,
	}
}

func conceptCacheKey(grade int, domain model.ConceptDomain) string {
	return fmt.Sprintf("concepts:grade:%d:domain:%s", grade, domain)
}

// ListByGrade 按年级（可选领域）列出概念，结果缓存10分钟
func (s *ConceptService) ListByGrade(ctx context.Context, grade int, domain model.ConceptDomain) ([]model.Concept, error) {
	if grade < util.MinGrade || grade > util.MaxGrade {
		return nil, fmt.Errorf("grade %d out of range [%d,%d]", grade, util.MinGrade, util.MaxGrade)
	}

	key := conceptCacheKey(grade, domain)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var concepts []model.Concept
			if json.Unmarshal([]byte(cached), &concepts) == nil {
				return concepts, nil
			}
		}
	}

	concepts, err := s.ConceptRepo.ListByGrade(grade, domain)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if raw, err := json.Marshal(concepts); err == nil {
			if err := s.Redis.Set(ctx, key, raw, conceptCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache concept list", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return concepts, nil
}

func (s *ConceptService) Get(conceptID string) (*model.Concept, error) {
	concept, err := s.ConceptRepo.FindByID(conceptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrConceptNotFound
		}
		return nil, err
	}
	return concept, nil
}

type ConceptRequest struct {
	Name             string              `json:"name" binding:"required"`
	Description      string              `json:"description"`
	Domain           model.ConceptDomain `json:"domain" binding:"required,oneof=number algebra geometry measurement data"`
	Grade            int                 `json:"grade" binding:"required,min=1,max=12"`
	Semester         int                 `json:"semester" binding:"omitempty,oneof=1 2"`
	BaseDifficulty   int                 `json:"baseDifficulty" binding:"omitempty,min=1,max=5"`
	EstimatedMinutes int                 `json:"estimatedMinutes" binding:"omitempty,min=1"`
	Keywords         []string            `json:"keywords"`
	CommonMistakes   []string            `json:"commonMistakes"`
}

func (s *ConceptService) Create(ctx context.Context, req ConceptRequest) (*model.Concept, error) {
	concept := &model.Concept{
		Name:             req.Name,
		Description:      req.Description,
		Domain:           req.Domain,
		Grade:            req.Grade,
		Semester:         req.Semester,
		BaseDifficulty:   req.BaseDifficulty,
		EstimatedMinutes: req.EstimatedMinutes,
		Keywords:         req.Keywords,
		CommonMistakes:   req.CommonMistakes,
	}
	if concept.Semester == 0 {
		concept.Semester = 1
	}
	if concept.BaseDifficulty == 0 {
		concept.BaseDifficulty = 1
	}
	if err := s.ConceptRepo.Create(concept); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, concept.Grade)
	return concept, nil
}

func (s *ConceptService) Update(ctx context.Context, conceptID string, req ConceptRequest) (*model.Concept, error) {
	concept, err := s.Get(conceptID)
	if err != nil {
		return nil, err
	}

	oldGrade := concept.Grade
	concept.Name = req.Name
	concept.Description = req.Description
	concept.Domain = req.Domain
	concept.Grade = req.Grade
	if req.Semester != 0 {
		concept.Semester = req.Semester
	}
	if req.BaseDifficulty != 0 {
		concept.BaseDifficulty = req.BaseDifficulty
	}
	if req.EstimatedMinutes != 0 {
		concept.EstimatedMinutes = req.EstimatedMinutes
	}
	concept.Keywords = req.Keywords
	concept.CommonMistakes = req.CommonMistakes

	if err := s.ConceptRepo.Update(concept); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, oldGrade)
	if concept.Grade != oldGrade {
		s.invalidateCache(ctx, concept.Grade)
	}
	return concept, nil
}

func (s *ConceptService) invalidateCache(ctx context.Context, grade int) {
	if s.Redis == nil {
		return
	}
	domains := []model.ConceptDomain{"", model.DomainNumber, model.DomainAlgebra,
		model.DomainGeometry, model.DomainMeasurement, model.DomainData}
	keys := make([]string, 0, len(domains))
	for _, d := range domains {
		keys = append(keys, conceptCacheKey(grade, d))
	}
	if err := s.Redis.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("failed to invalidate concept cache", zap.Int("grade", grade), zap.Error(err))
	}
}

// AddPrerequisite 添加前置边 prerequisite -> concept。
// 自环和会使前置图成环的边都拒绝。
func (s *ConceptService) AddPrerequisite(conceptID, prerequisiteID string, importance float64) (*model.ConceptPrerequisite, error) {
	if conceptID == prerequisiteID {
		return nil, util.ErrPrereqCycle
	}
	if _, err := s.Get(conceptID); err != nil {
		return nil, err
	}
	if _, err := s.Get(prerequisiteID); err != nil {
		return nil, err
	}

	edges, err := s.ConceptRepo.ListAllEdges()
	if err != nil {
		return nil, err
	}
	if wouldCreateCycle(edges, conceptID, prerequisiteID) {
		return nil, util.ErrPrereqCycle
	}

	if importance <= 0 || importance > 1 {
		importance = 0.5
	}
	edge := &model.ConceptPrerequisite{
		ConceptID:      conceptID,
		PrerequisiteID: prerequisiteID,
		Importance:     importance,
	}
	if err := s.ConceptRepo.CreateEdge(edge); err != nil {
		return nil, err
	}
	return edge, nil
}

func (s *ConceptService) RemovePrerequisite(conceptID, prerequisiteID string) error {
	return s.ConceptRepo.DeleteEdge(conceptID, prerequisiteID)
}

func (s *ConceptService) ListPrerequisites(conceptID string) ([]model.ConceptPrerequisite, error) {
	return s.ConceptRepo.ListPrerequisites(conceptID)
}

// wouldCreateCycle 判断加入 prerequisiteID -> conceptID 后是否成环：
// 沿既有前置边从 prerequisiteID 出发能走回 conceptID 即成环
func wouldCreateCycle(edges []model.ConceptPrerequisite, conceptID, prerequisiteID string) bool {
	// concept -> 它的所有前置
	graph := make(map[string][]string, len(edges))
	for _, e := range edges {
		graph[e.ConceptID] = append(graph[e.ConceptID], e.PrerequisiteID)
	}

	visited := make(map[string]bool)
	stack := []string{prerequisiteID}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == conceptID {
			return true
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		stack = append(stack, graph[node]...)
	}
	return false
}

type ProblemRequest struct {
	ConceptID   string `json:"conceptId" binding:"required"`
	Difficulty  int    `json:"difficulty" binding:"required,min=1,max=5"`
	Question    string `json:"question" binding:"required"`
	Answer      string `json:"answer" binding:"required"`
	Explanation string `json:"explanation"`
	FigureURL   string `json:"figureUrl"`
}

func (s *ConceptService) CreateProblem(req ProblemRequest) (*model.Problem, error) {
	if _, err := s.Get(req.ConceptID); err != nil {
		return nil, err
	}
	problem := &model.Problem{
		ConceptID:   req.ConceptID,
		Difficulty:  req.Difficulty,
		Question:    req.Question,
		Answer:      req.Answer,
		Explanation: req.Explanation,
		FigureURL:   req.FigureURL,
	}
	if err := s.ProblemRepo.Create(problem); err != nil {
		return nil, err
	}
	return problem, nil
}

func (s *ConceptService) GetProblem(problemID string) (*model.Problem, error) {
	problem, err := s.ProblemRepo.FindByID(problemID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrProblemNotFound
		}
		return nil, err
	}
	return problem, nil
}

func (s *ConceptService) ListProblems(conceptID string, difficulty int) ([]model.Problem, error) {
	if _, err := s.Get(conceptID); err != nil {
		return nil, err
	}
	return s.ProblemRepo.ListByConcept(conceptID, difficulty)
}

// PickProblem 按概念与难度随机出一道题
func (s *ConceptService) PickProblem(conceptID string, difficulty int) (*model.Problem, error) {
	problem, err := s.ProblemRepo.PickOne(conceptID, difficulty)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrProblemNotFound
		}
		return nil, err
	}
	return problem, nil
}
