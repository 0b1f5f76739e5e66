// 课程大纲批量导入脚本
//
// 从JSON文件把概念、前置边和题目导入数据库，用于首次部署
// 或教研团队整批更新某个年级的大纲。重复执行按概念名去重。
//
// 用法: go run scripts/import_curriculum.go -file curriculum.json

package main

import (
	"encoding/json"
	"flag"
	"log"
	"mathpath_backend/internal/config"
	"mathpath_backend/internal/model"
	"mathpath_backend/pkg/database"
	"mathpath_backend/pkg/logger"
	"os"
)

type curriculumFile struct {
	Concepts []struct {
		Name             string   `json:"name"`
		Description      string   `json:"description"`
		Domain           string   `json:"domain"`
		Grade            int      `json:"grade"`
		Semester         int      `json:"semester"`
		BaseDifficulty   int      `json:"baseDifficulty"`
		EstimatedMinutes int      `json:"estimatedMinutes"`
		Keywords         []string `json:"keywords"`
		Prerequisites    []struct {
			Name       string  `json:"name"`
			Importance float64 `json:"importance"`
		} `json:"prerequisites"`
		Problems []struct {
			Difficulty  int    `json:"difficulty"`
			Question    string `json:"question"`
			Answer      string `json:"answer"`
			Explanation string `json:"explanation"`
		} `json:"problems"`
	} `json:"concepts"`
}

func main() {
	file := flag.String("file", "curriculum.json", "课程大纲JSON文件路径")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("无法读取大纲文件: %v", err)
	}

	var curriculum curriculumFile
	if err := json.Unmarshal(data, &curriculum); err != nil {
		log.Fatalf("解析大纲文件失败: %v", err)
	}

	// 第一遍：建概念，记录名称到ID的映射
	idsByName := make(map[string]string, len(curriculum.Concepts))
	created, skipped := 0, 0
	for _, c := range curriculum.Concepts {
		var existing model.Concept
		if err := db.Where("name = ? AND grade = ?", c.Name, c.Grade).First(&existing).Error; err == nil {
			idsByName[c.Name] = existing.ID
			skipped++
			continue
		}

		concept := model.Concept{
			Name:             c.Name,
			Description:      c.Description,
			Domain:           model.ConceptDomain(c.Domain),
			Grade:            c.Grade,
			Semester:         c.Semester,
			BaseDifficulty:   c.BaseDifficulty,
			EstimatedMinutes: c.EstimatedMinutes,
			Keywords:         c.Keywords,
		}
		if concept.Semester == 0 {
			concept.Semester = 1
		}
		if concept.BaseDifficulty == 0 {
			concept.BaseDifficulty = 1
		}
		if err := db.Create(&concept).Error; err != nil {
			log.Fatalf("创建概念 %q 失败: %v", c.Name, err)
		}
		idsByName[c.Name] = concept.ID
		created++
	}

	// 第二遍：建前置边和题目
	edges, problems := 0, 0
	for _, c := range curriculum.Concepts {
		conceptID := idsByName[c.Name]
		for _, p := range c.Prerequisites {
			prereqID, ok := idsByName[p.Name]
			if !ok {
				log.Printf("警告: 概念 %q 的前置 %q 不在文件中，跳过", c.Name, p.Name)
				continue
			}
			importance := p.Importance
			if importance <= 0 || importance > 1 {
				importance = 0.5
			}
			edge := model.ConceptPrerequisite{
				ConceptID:      conceptID,
				PrerequisiteID: prereqID,
				Importance:     importance,
			}
			if err := db.Where("concept_id = ? AND prerequisite_id = ?", conceptID, prereqID).
				FirstOrCreate(&edge).Error; err != nil {
				log.Fatalf("创建前置边 %q -> %q 失败: %v", p.Name, c.Name, err)
			}
			edges++
		}

		for _, p := range c.Problems {
			problem := model.Problem{
				ConceptID:   conceptID,
				Difficulty:  p.Difficulty,
				Question:    p.Question,
				Answer:      p.Answer,
				Explanation: p.Explanation,
			}
			if err := db.Where("concept_id = ? AND question = ?", conceptID, p.Question).
				FirstOrCreate(&problem).Error; err != nil {
				log.Fatalf("创建题目失败: %v", err)
			}
			problems++
		}
	}

	log.Printf("导入完成: 新建概念 %d，已存在 %d，前置边 %d，题目 %d", created, skipped, edges, problems)
}
