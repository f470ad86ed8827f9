package dto

// Response 统一返回结构，业务结果一律 HTTP 200
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageQuery offset/limit 分页参数
type PageQuery struct {
	Offset int `form:"offset" binding:"min=0"`
	Limit  int `form:"limit" binding:"min=0,max=100"`
}

// ValidationErrorDTO 字段级校验失败时放在 data 中
type ValidationErrorDTO struct {
	Errors map[string]string `json:"errors"`
}

// InitDTO 站点基本信息
type InitDTO struct {
	Title         string `json:"title"`
	Subtitle      string `json:"subtitle"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Copyright     string `json:"copyright"`
	CopyrightFrom string `json:"copyrightFrom"`
}
