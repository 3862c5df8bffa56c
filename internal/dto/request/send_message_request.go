package request

// SendMessageRequest 发送消息请求
// 使用位置:
//   - internal/handler/message_handler.go: SendMessage
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=4096"`
}

// UpdateMessageRequest 编辑消息请求
// 使用位置:
//   - internal/handler/message_handler.go: UpdateMessage
type UpdateMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=4096"`
}
