package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 文件上传相关常量
const (
	MimeImage = "image/"
)

const (
	MinGrade = 1
	MaxGrade = 12

	// XP 升级曲线：升到 n+1 级需要 n*100 XP
	XPPerLevel = 100
)
