package respond

import "fusion_messenger_server/internal/model"

// UserRespond 用户公开信息响应
// 不含密码哈希等敏感字段
// 使用位置:
//   - internal/service/user/service.go
//   - internal/service/chat/format.go（作为成员和发送者的嵌入视图）
type UserRespond struct {
	ID          uint    `json:"id"`
	Email       string  `json:"email"`
	FullName    *string `json:"full_name"`
	IsActive    bool    `json:"is_active"`
	IsSuperuser bool    `json:"is_superuser"`
}

// UserRespondFromModel 将用户模型转换为公开视图
func UserRespondFromModel(u *model.User) UserRespond {
	rsp := UserRespond{
		ID:          u.ID,
		Email:       u.Email,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
	}
	if u.FullName != "" {
		name := u.FullName
		rsp.FullName = &name
	}
	return rsp
}
