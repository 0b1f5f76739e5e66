package database

import (
	"fmt"
	"log"
	"mathpath_backend/internal/config"
	"mathpath_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.StudentProfile{},
		&model.Concept{},
		&model.ConceptPrerequisite{},
		&model.Problem{},
		&model.ConceptProgress{},
		&model.ProblemAttempt{},
		&model.LearningPath{},
		&model.DailyGoal{},
		&model.WeeklyStats{},
		&model.StudySession{},
		&model.Encouragement{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedEncouragements(db)
	seedCurriculum(db)

	return db, nil
}

// 默认的鼓励短句
func seedEncouragements(db *gorm.DB) {
	var count int64
	db.Model(&model.Encouragement{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []string{
		"每解出一道题，你就离数学高手更近一步！",
		"做错了也没关系，错题是最好的老师。",
		"Practice makes progress, not perfection.",
		"坚持每天练习，连续学习天数会说话的。",
		"数学不是天赋，是一步一步积累出来的。",
	}
	for _, content := range defaults {
		db.Create(&model.Encouragement{Content: content, IsEnabled: true})
	}
}

// 默认课程概念（空库时插入一套低年级示例大纲，含前置边）
func seedCurriculum(db *gorm.DB) {
	var count int64
	db.Model(&model.Concept{}).Count(&count)
	if count > 0 {
		return
	}

	concepts := []model.Concept{
		{Name: "100以内加法", Domain: model.DomainNumber, Grade: 1, Semester: 1, BaseDifficulty: 1, EstimatedMinutes: 10,
			Keywords: []string{"加法", "进位"}, CommonMistakes: []string{"进位遗漏"}},
		{Name: "100以内减法", Domain: model.DomainNumber, Grade: 1, Semester: 2, BaseDifficulty: 1, EstimatedMinutes: 10,
			Keywords: []string{"减法", "退位"}, CommonMistakes: []string{"退位借位错误"}},
		{Name: "乘法口诀", Domain: model.DomainNumber, Grade: 2, Semester: 1, BaseDifficulty: 2, EstimatedMinutes: 15,
			Keywords: []string{"乘法", "口诀表"}, CommonMistakes: []string{"口诀记混"}},
		{Name: "除法初步", Domain: model.DomainNumber, Grade: 2, Semester: 2, BaseDifficulty: 2, EstimatedMinutes: 15,
			Keywords: []string{"除法", "平均分"}, CommonMistakes: []string{"余数处理"}},
		{Name: "分数初步", Domain: model.DomainNumber, Grade: 3, Semester: 1, BaseDifficulty: 3, EstimatedMinutes: 20,
			Keywords: []string{"分数", "分子", "分母"}, CommonMistakes: []string{"分子分母颠倒"}},
		{Name: "分数加法", Domain: model.DomainNumber, Grade: 3, Semester: 2, BaseDifficulty: 3, EstimatedMinutes: 20,
			Keywords: []string{"分数", "通分"}, CommonMistakes: []string{"分母直接相加"}},
	}
	for i := range concepts {
		db.Create(&concepts[i])
	}

	// 前置边：加法->减法->乘法->除法->分数初步->分数加法
	edges := []struct {
		from, to int
		weight   float64
	}{
		{0, 1, 0.8},
		{1, 2, 0.6},
		{2, 3, 0.9},
		{3, 4, 0.5},
		{4, 5, 0.9},
	}
	for _, e := range edges {
		db.Create(&model.ConceptPrerequisite{
			ConceptID:      concepts[e.to].ID,
			PrerequisiteID: concepts[e.from].ID,
			Importance:     e.weight,
		})
	}
}
