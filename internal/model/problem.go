package model

// Problem 某个概念下的一道练习题
// swagger:model Problem
type Problem struct {
	UUIDBase
	ConceptID   string `gorm:"index;type:varchar(36);not null" json:"conceptId"`
	Difficulty  int    `gorm:"default:1" json:"difficulty"` // 1-5
	Question    string `gorm:"type:text;not null" json:"question"`
	Answer      string `gorm:"type:text;not null" json:"-"`
	Explanation string `gorm:"type:text" json:"explanation"`
	FigureURL   string `gorm:"size:500" json:"figureUrl"` // 几何题配图等
}

func (Problem) TableName() string {
	return "problems"
}
