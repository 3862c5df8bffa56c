// Package model 定义数据库实体模型
// 本文件定义用户信息模型，包含用户基本资料和认证信息
package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 用户模型
// 对应数据库 user 表
type User struct {
	ID uint `gorm:"primarykey"`

	// Email 邮箱地址，登录凭证，全局唯一
	Email string `gorm:"column:email;type:varchar(255);uniqueIndex;not null;comment:邮箱"`

	// FullName 显示名（可选）
	FullName string `gorm:"column:full_name;type:varchar(255);comment:显示名"`

	// IsActive 账号是否启用
	IsActive bool `gorm:"column:is_active;default:true;comment:是否启用"`

	// IsSuperuser 超级管理员标志
	IsSuperuser bool `gorm:"column:is_superuser;default:false;comment:是否超管"`

	// HashedPassword 密码（已哈希）
	// 存储 bcrypt 哈希后的密码，不存储明文
	HashedPassword string `gorm:"column:hashed_password;type:varchar(100);not null;comment:密码哈希"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// RawPassword 明文密码（不存入数据库）
	// 用于接收前端传来的明文密码，在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (User) TableName() string {
	return "user"
}

// BeforeSave GORM Hook：在创建和更新前自动调用
// 将 RawPassword 明文密码加密后存入 HashedPassword 字段
func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.HashedPassword = string(hash)
		u.RawPassword = "" // 清空明文，防止泄露
	}
	return nil
}

// CheckPassword 校验密码是否正确
// plaintext: 用户输入的明文密码
func (u *User) CheckPassword(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(plaintext))
	return err == nil
}

// DisplayName 用户对外展示名：有 FullName 用 FullName，否则退回邮箱
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
