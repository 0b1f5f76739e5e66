package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mathpath_backend/internal/config"
	"mathpath_backend/internal/model"
	"net/http"
	"strings"
)

// AIService 封装兼容 chat/completions 协议的大模型API，
// 负责答案评估和分级提示两类调用。核心只依赖下面两个返回结构的形状。
type AIService struct {
	config config.AIConfig
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{config: cfg}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// EvaluationFeedback AI反馈的三段式结构
type EvaluationFeedback struct {
	Encouraging string `json:"encouraging"`
	Corrective  string `json:"corrective,omitempty"`
	NextStep    string `json:"nextStep"`
}

// EvaluationResult AI对一次答题的结构化评估
// swagger:model EvaluationResult
type EvaluationResult struct {
	IsCorrect            bool               `json:"isCorrect"`
	PartialCredit        float64            `json:"partialCredit"`        // [0,1]
	ErrorType            string             `json:"errorType,omitempty"`  // calculation | concept | careless ...
	ErrorDetail          string             `json:"errorDetail,omitempty"`
	Feedback             EvaluationFeedback `json:"feedback"`
	ConceptMasteryImpact float64            `json:"conceptMasteryImpact"` // [-1,1]
	SuggestedReview      []string           `json:"suggestedReview,omitempty"`
}

// HintResponse 分级提示
// swagger:model HintResponse
type HintResponse struct {
	Level int    `json:"level"`
	Hint  string `json:"hint"`
}

// EvaluateAnswer 让AI评估学生答案，要求严格JSON输出。
// 传输失败或输出解析失败都返回错误，由调用方走未评分兜底路径。
func (s *AIService) EvaluateAnswer(ctx context.Context, problem *model.Problem, studentAnswer string) (*EvaluationResult, error) {
	prompt := fmt.Sprintf(`请评估学生对下面数学题的作答，只输出一个JSON对象，不要输出其他任何文字。

题目：%s
标准答案：%s
学生答案：%s

JSON格式：
{"isCorrect": bool, "partialCredit": 0到1的小数, "errorType": "calculation|concept|careless|none",
"errorDetail": "错误说明", "feedback": {"encouraging": "鼓励话语", "corrective": "纠正建议", "nextStep": "下一步建议"},
"conceptMasteryImpact": -1到1的小数, "suggestedReview": ["需要复习的知识点"]}`,
		problem.Question, problem.Answer, studentAnswer)

	raw, err := s.chat(ctx, "你是一个耐心的K-12数学老师，负责批改学生作业。", prompt)
	if err != nil {
		return nil, err
	}

	result, err := parseEvaluation(raw)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GenerateHint 按提示级别生成一条提示，级别越高越接近完整解法
func (s *AIService) GenerateHint(ctx context.Context, problem *model.Problem, level int) (*HintResponse, error) {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}

	guides := map[int]string{
		1: "只提示解题方向，不要透露任何计算步骤",
		2: "给出第一步的具体做法，不要给出最终答案",
		3: "给出完整的解题步骤，但把最终答案留给学生自己算",
	}

	prompt := fmt.Sprintf("学生在做这道题：%s\n请给一条提示（第%d级提示：%s），两三句话以内。",
		problem.Question, level, guides[level])

	hint, err := s.chat(ctx, "你是一个耐心的K-12数学老师，善于循序渐进地引导学生。", prompt)
	if err != nil {
		return nil, err
	}

	return &HintResponse{Level: level, Hint: strings.TrimSpace(hint)}, nil
}

func (s *AIService) chat(ctx context.Context, system, prompt string) (string, error) {
	messages := []AIChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	}

	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}

// parseEvaluation 解析AI输出的评估JSON。模型偶尔会包一层代码块，
// 先剥掉围栏再解析，并把数值夹回合法区间。
func parseEvaluation(raw string) (*EvaluationResult, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var result EvaluationResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("malformed evaluation output: %w", err)
	}

	if result.PartialCredit < 0 {
		result.PartialCredit = 0
	}
	if result.PartialCredit > 1 {
		result.PartialCredit = 1
	}
	if result.ConceptMasteryImpact < -1 {
		result.ConceptMasteryImpact = -1
	}
	if result.ConceptMasteryImpact > 1 {
		result.ConceptMasteryImpact = 1
	}

	return &result, nil
}
