package model

import (
	"time"
)

// InteractionKind 互动类型
type InteractionKind string

const (
	KindFavorite InteractionKind = "favorite"
	KindWatched  InteractionKind = "watched"
	KindPlanned  InteractionKind = "planned"
)

// ParseInteractionKind 解析互动类型，未知类型返回 false
func ParseInteractionKind(s string) (InteractionKind, bool) {
	switch k := InteractionKind(s); k {
	case KindFavorite, KindWatched, KindPlanned:
		return k, true
	}
	return "", false
}

// Column 对应的数据库列名
func (k InteractionKind) Column() string {
	return "is_" + string(k)
}

// MovieInteraction 用户与影片的互动状态，每个 (user, movie) 唯一
type MovieInteraction struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;uniqueIndex:uq_interaction_user_movie"`
	MovieID    uint      `json:"movie_id" gorm:"not null;uniqueIndex:uq_interaction_user_movie;index"`
	IsFavorite bool      `json:"is_favorite" gorm:"not null;default:false"`
	IsWatched  bool      `json:"is_watched" gorm:"not null;default:false"`
	IsPlanned  bool      `json:"is_planned" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User  *User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Movie *Movie `json:"movie,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// Flag 读取指定类型的状态
func (m *MovieInteraction) Flag(kind InteractionKind) bool {
	switch kind {
	case KindFavorite:
		return m.IsFavorite
	case KindWatched:
		return m.IsWatched
	case KindPlanned:
		return m.IsPlanned
	}
	return false
}

// SetFlag 设置指定类型的状态
func (m *MovieInteraction) SetFlag(kind InteractionKind, v bool) {
	switch kind {
	case KindFavorite:
		m.IsFavorite = v
	case KindWatched:
		m.IsWatched = v
	case KindPlanned:
		m.IsPlanned = v
	}
}
