package model

import (
	"database/sql"
	"time"
)

// ChatMember 聊天成员关联表
// 一条记录授予用户读写该聊天消息和已读状态的权限
type ChatMember struct {
	ID uint `gorm:"primarykey"`

	// 复合唯一索引保证同一聊天内同一用户最多一条成员记录，
	// 并发加人时由数据库兜底
	ChatID uint `gorm:"column:chat_id;index;not null;uniqueIndex:uk_chat_user;comment:聊天ID"`
	UserID uint `gorm:"column:user_id;index;not null;uniqueIndex:uk_chat_user;comment:用户ID"`

	// JoinedAt 加入时间
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime;comment:加入时间"`

	// LastReadAt 最后读取时间，NULL 表示从未读过
	LastReadAt sql.NullTime `gorm:"column:last_read_at;comment:最后读取时间"`

	// 外键级联删除：删聊天删成员，删用户删成员
	Chat Chat `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (ChatMember) TableName() string {
	return "chatmember"
}
