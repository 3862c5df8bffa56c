package request

// MessagePageRequest 消息分页请求
// skip 从最新一条消息往回数，默认 skip=0 limit=50
// 使用位置:
//   - internal/handler/message_handler.go: GetChatMessages
type MessagePageRequest struct {
	Skip  int `form:"skip" binding:"omitempty,gte=0"`
	Limit int `form:"limit" binding:"omitempty,gt=0"`
}
