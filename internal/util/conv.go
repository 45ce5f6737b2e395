package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParseID 解析正整数 ID
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return uint(id), nil
}

// ParamID 读取路径参数中的 ID，非法时直接写 400
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := ParseID(c.Param(name))
	if err != nil {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
