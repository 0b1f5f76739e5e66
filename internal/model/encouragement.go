package model

// Encouragement 鼓励语池，推荐结果与看板随机取用
type Encouragement struct {
	BaseModel
	Content   string `gorm:"type:text;not null"`
	IsEnabled bool   `gorm:"default:true"`
}

func (Encouragement) TableName() string {
	return "encouragements"
}
