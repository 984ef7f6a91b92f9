package model

import (
	"time"
)

// User 用户模型
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:254;unique;not null"`
	Username     string    `json:"username" gorm:"size:150;unique;not null"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role" gorm:"size:20;not null"`
	Phone        string    `json:"phone" gorm:"size:15"`
	CreatedAt    time.Time `json:"created_at"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID       uint
	Email    string
	Username string
	Role     string
}
