package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// UnknownActivityTitle 活动引用缺失时通知中使用的占位标题
const UnknownActivityTitle = "NombreDesconocido"
