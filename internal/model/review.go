package model

import "time"

// 评论正文长度上限（字符数）
const MaxReviewLength = 5000

// Review 影评，ParentID 非空时为回复
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MovieID   uint      `json:"movie_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Email     string    `json:"email" gorm:"size:254;not null"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	ParentID  *uint     `json:"parent_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`

	Parent *Review `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Movie  *Movie  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User   *User   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// ReviewThread 顶层评论及其直接回复
type ReviewThread struct {
	Review
	Replies []*Review `json:"replies"`
}
