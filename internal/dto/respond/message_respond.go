package respond

import "time"

// MessageRespond 消息响应
// 使用位置:
//   - internal/service/message/service.go
//   - internal/service/chat/format.go（作为 last_message）
type MessageRespond struct {
	ID        uint         `json:"id"`
	ChatID    uint         `json:"chat_id"`
	SenderID  uint         `json:"sender_id"`
	Sender    *UserRespond `json:"sender"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	EditedAt  *time.Time   `json:"edited_at"`
}

// MessageListRespond 消息分页响应包装
// Data 按时间正序（页内最旧在前）
type MessageListRespond struct {
	Data  []MessageRespond `json:"data"`
	Count int              `json:"count"`
}
