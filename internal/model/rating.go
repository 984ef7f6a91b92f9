package model

import "time"

// 评分星级范围
const (
	MinStar = 0
	MaxStar = 10
)

// Rating 评分，每个 (movie, origin) 至多一条
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MovieID   uint      `json:"movie_id" gorm:"not null;uniqueIndex:uq_rating_movie_origin"`
	Origin    string    `json:"-" gorm:"size:64;not null;uniqueIndex:uq_rating_movie_origin"` // 通常为客户端 IP
	Star      int       `json:"star" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Movie *Movie `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// MovieScore 实时聚合的评分
type MovieScore struct {
	MovieID uint    `json:"movie_id"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// RankedMovie 带实时评分的影片
type RankedMovie struct {
	*Movie
	LiveAverage float64 `json:"live_average"`
	RatingCount int64   `json:"rating_count"`
}
