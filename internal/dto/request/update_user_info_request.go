package request

// UpdateUserInfoRequest 更新当前用户资料请求
// 使用位置:
//   - internal/handler/user_handler.go: UpdateMe
type UpdateUserInfoRequest struct {
	Email    string `json:"email" binding:"omitempty,email,max=255"`
	FullName string `json:"full_name" binding:"max=255"`
}
