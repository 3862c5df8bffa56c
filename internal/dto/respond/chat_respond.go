package respond

import "time"

// ChatMemberRespond 聊天成员响应
type ChatMemberRespond struct {
	ID         uint        `json:"id"`
	UserID     uint        `json:"user_id"`
	User       UserRespond `json:"user"`
	JoinedAt   time.Time   `json:"joined_at"`
	LastReadAt *time.Time  `json:"last_read_at"`
}

// ChatRespond 聊天响应
// 单聊的 Name 由对端成员显示名推导，无法推导时为 null
// 使用位置:
//   - internal/service/chat/format.go: formatChat
type ChatRespond struct {
	ID          uint                `json:"id"`
	ChatType    string              `json:"chat_type"`
	Name        *string             `json:"name"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Members     []ChatMemberRespond `json:"members"`
	LastMessage *MessageRespond     `json:"last_message"`
}

// ChatListRespond 聊天列表响应包装
type ChatListRespond struct {
	Data  []ChatRespond `json:"data"`
	Count int           `json:"count"`
}
