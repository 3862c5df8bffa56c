// Package model 定义数据库实体模型
// 本文件定义聊天模型，单聊和群聊共用一张表
package model

import (
	"database/sql"
	"fmt"
	"time"
)

// 聊天类型
const (
	ChatTypePrivate = "private" // 单聊：固定两名成员，无显式名称
	ChatTypeGroup   = "group"   // 群聊：必须有名称
)

// Chat 聊天模型
// 对应数据库 chat 表
type Chat struct {
	ID uint `gorm:"primarykey"`

	// ChatType 聊天类型，private 或 group
	ChatType string `gorm:"column:chat_type;type:varchar(20);not null;default:private;comment:类型"`

	// Name 群聊名称，单聊为空
	Name string `gorm:"column:name;type:varchar(255);comment:名称"`

	// PairKey 单聊成员对的有序键，格式 "小id:大id"
	// 唯一索引保证同一对用户最多只有一个单聊，群聊为 NULL 不参与约束
	PairKey sql.NullString `gorm:"column:pair_key;type:varchar(64);uniqueIndex;comment:单聊成员对键"`

	// UpdatedAt 在新消息写入时被更新，决定聊天列表排序
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (Chat) TableName() string {
	return "chat"
}

// PrivatePairKey 计算两名用户的有序对键，与传入顺序无关
func PrivatePairKey(userOneID, userTwoID uint) string {
	if userOneID > userTwoID {
		userOneID, userTwoID = userTwoID, userOneID
	}
	return fmt.Sprintf("%d:%d", userOneID, userTwoID)
}
