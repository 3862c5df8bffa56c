package request

// CreateGroupChatRequest 创建群聊请求
// chat_type 必须为 "group"，单聊走 POST /chats/private/:user_id
// 使用位置:
//   - internal/handler/chat_handler.go: CreateGroupChat
//   - internal/service/chat/service.go: CreateGroupChat
type CreateGroupChatRequest struct {
	ChatType  string `json:"chat_type" binding:"required,eq=group"`
	Name      string `json:"name" binding:"required,max=255"`
	MemberIds []uint `json:"member_ids" binding:"required,min=1,dive,gt=0"`
}
