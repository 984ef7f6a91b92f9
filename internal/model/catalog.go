package model

import "time"

// Category 分类（电影 / 剧集 / 动画）
type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:150;not null"`
	Description string `json:"description" gorm:"type:text"`
	Slug        string `json:"slug" gorm:"size:160;uniqueIndex;not null"`
}

// Genre 类型
type Genre struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:100;not null"`
	Image       string `json:"image"`
	Description string `json:"description" gorm:"type:text"`
	Slug        string `json:"slug" gorm:"size:160;uniqueIndex;not null"`
}

// Actor 演员与导演
type Actor struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"size:100;not null;index"`
	Age         int        `json:"age"`
	Image       string     `json:"image"`
	Career      string     `json:"career"`
	Height      *float64   `json:"height"`
	BirthDate   *time.Time `json:"birth_date"`
	BirthPlace  string     `json:"birth_place"`
	Description string     `json:"description" gorm:"type:text"`
}

// Season 剧集的一季
type Season struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	MovieID      uint      `json:"movie_id" gorm:"not null;uniqueIndex:uq_season_movie_number"`
	SeasonNumber int       `json:"season_number" gorm:"not null;uniqueIndex:uq_season_movie_number"`
	Title        string    `json:"title" gorm:"size:100"`
	Episodes     []Episode `json:"episodes,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// Episode 单集
type Episode struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	SeasonID        uint   `json:"season_id" gorm:"not null;uniqueIndex:uq_episode_season_number"`
	EpisodeNumber   int    `json:"episode_number" gorm:"not null;uniqueIndex:uq_episode_season_number"`
	Title           string `json:"title" gorm:"size:100;not null"`
	Description     string `json:"description" gorm:"type:text"`
	DurationMinutes int    `json:"duration_minutes"`
	Video           string `json:"video"`
	ExternalLink    string `json:"external_link"`
}

// MovieShot 剧照
type MovieShot struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	MovieID     uint   `json:"movie_id" gorm:"not null;index"`
	Title       string `json:"title" gorm:"size:100"`
	Description string `json:"description" gorm:"type:text"`
	Image       string `json:"image"`
}
