package model

import (
	"database/sql"
	"time"
)

// ChatMessage 消息模型
// 对应数据库 chatmessage 表，每条消息属于一个聊天和一名发送者
type ChatMessage struct {
	ID uint `gorm:"primarykey"`

	ChatID   uint `gorm:"column:chat_id;index;not null;comment:聊天ID"`
	SenderID uint `gorm:"column:sender_id;index;not null;comment:发送者ID"`

	// Content 消息文本内容，1-4096 字符，长度在绑定层校验
	Content string `gorm:"column:content;type:varchar(4096);not null;comment:消息内容"`

	// CreatedAt 决定消息的时间顺序
	CreatedAt time.Time `gorm:"index"`

	// EditedAt 最后编辑时间，NULL 表示从未编辑
	EditedAt sql.NullTime `gorm:"column:edited_at;comment:编辑时间"`

	// 外键级联删除：删聊天删消息，删用户删其消息
	Chat   Chat `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
	Sender User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (ChatMessage) TableName() string {
	return "chatmessage"
}
