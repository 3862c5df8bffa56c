package request

// SearchUsersRequest 用户搜索请求
// 按邮箱或显示名模糊匹配，结果排除当前用户和禁用账号
// 使用位置:
//   - internal/handler/user_handler.go: SearchUsers
type SearchUsersRequest struct {
	Query string `json:"query" binding:"required,min=1,max=100"`
	Limit int    `json:"limit" binding:"omitempty,gt=0,max=100"`
}
