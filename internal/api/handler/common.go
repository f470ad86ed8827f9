package handler

import (
	"Scribe/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// paramID 解析路径中的正整数 ID
func paramID(c *gin.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, service.ErrParamInvalid
	}
	return id, nil
}
