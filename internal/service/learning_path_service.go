package service

import (
	"mathpath_backend/internal/model"
	"mathpath_backend/internal/repository"
	"mathpath_backend/internal/util"

	"gorm.io/gorm"
)

// LearningPathService 学生的概念学习序列，按其年级的大纲顺序生成。
// 路径索引只随概念被掌握单调前进，年级变更时可整体重建。
type LearningPathService struct {
	PathRepo    *repository.LearningPathRepository
	ConceptRepo *repository.ConceptRepository
	StudentRepo *repository.StudentRepository
}

func NewLearningPathService(
	pathRepo *repository.LearningPathRepository,
	conceptRepo *repository.ConceptRepository,
	studentRepo *repository.StudentRepository,
) *LearningPathService {
	return &LearningPathService{
		PathRepo:    pathRepo,
		ConceptRepo: conceptRepo,
		StudentRepo: studentRepo,
	}
}

// GetOrBuild 取学生的学习路径，不存在则按其年级的大纲生成
func (s *LearningPathService) GetOrBuild(userID uint) (*model.LearningPath, error) {
	path, err := s.PathRepo.FindByStudent(userID)
	if err == nil {
		return path, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return s.build(userID)
}

// Rebuild 重建路径（年级调整后使用）。已掌握进度不受影响，
// 新路径的索引从头开始，推荐引擎会基于掌握状态快速跳过已掌握的概念。
func (s *LearningPathService) Rebuild(userID uint) (*model.LearningPath, error) {
	existing, err := s.PathRepo.FindByStudent(userID)
	if err == nil {
		// student_id 上有唯一索引，软删除的旧行会挡住重建，这里硬删
		if err := s.PathRepo.DB.Unscoped().Delete(existing).Error; err != nil {
			return nil, err
		}
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return s.build(userID)
}

func (s *LearningPathService) build(userID uint) (*model.LearningPath, error) {
	profile, err := s.StudentRepo.FindByUserID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}

	concepts, err := s.ConceptRepo.ListByGrade(profile.Grade, "")
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(concepts))
	for _, c := range concepts {
		ids = append(ids, c.ID)
	}

	path := &model.LearningPath{
		StudentID:    userID,
		ConceptIDs:   ids,
		CurrentIndex: 0,
	}
	if err := s.PathRepo.Create(path); err != nil {
		return nil, err
	}
	return path, nil
}

// CurrentConceptID 路径上当前待学的概念，路径走完返回空串
func (s *LearningPathService) CurrentConceptID(path *model.LearningPath) string {
	if path == nil || path.CurrentIndex >= len(path.ConceptIDs) {
		return ""
	}
	return path.ConceptIDs[path.CurrentIndex]
}

// AdvanceIfCurrent 如果被掌握的概念正是路径当前位置，则前进一步。
// 掌握路径之外（或之前）的概念不动索引，保持单调。
func (s *LearningPathService) AdvanceIfCurrent(userID uint, conceptID string) (*model.LearningPath, error) {
	path, err := s.PathRepo.FindByStudent(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrPathNotFound
		}
		return nil, err
	}

	if s.CurrentConceptID(path) == conceptID {
		if err := s.PathRepo.AdvanceIndex(path, path.CurrentIndex+1); err != nil {
			return nil, err
		}
	}
	return path, nil
}
