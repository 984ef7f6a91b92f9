package model

import (
	"time"
)

// MaxTaglineLength 标语的最大字符数
const MaxTaglineLength = 100

// Movie 电影或剧集
type Movie struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Title           string     `json:"title" gorm:"size:100;not null"`
	Tagline         string     `json:"tagline" gorm:"size:100"`
	Description     string     `json:"description" gorm:"type:text"`
	Poster          string     `json:"poster"`
	PreviewPoster   string     `json:"preview_poster"`
	Year            int        `json:"year" gorm:"index"`
	Country         string     `json:"country" gorm:"size:30"`
	WorldPremiere   *time.Time `json:"world_premiere"`
	DurationHours   int        `json:"duration_hours"`
	DurationMinutes int        `json:"duration_minutes"`
	Budget          int64      `json:"budget"`
	BoxOfficeUSA    int64      `json:"box_office_usa"`
	BoxOfficeWorld  int64      `json:"box_office_world"`
	Trailer         string     `json:"trailer"`
	MovieFile       string     `json:"movie_file"`
	ExternalLink    string     `json:"external_link"`
	Slug            string     `json:"slug" gorm:"size:130;uniqueIndex;not null"`
	Draft           bool       `json:"draft" gorm:"not null;default:false;index"`
	IsSeries        bool       `json:"is_series" gorm:"not null;default:false"`
	IsEditorsChoice bool       `json:"is_editors_choice" gorm:"not null;default:false;index"`
	AverageRating   float64    `json:"average_rating" gorm:"type:decimal(4,2);not null;default:0"` // 缓存的平均分，需显式重算

	CategoryID *uint       `json:"category_id" gorm:"index"`
	Category   *Category   `json:"category,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Genres     []Genre     `json:"genres,omitempty" gorm:"many2many:movie_genres"`
	Actors     []Actor     `json:"actors,omitempty" gorm:"many2many:movie_actors"`
	Directors  []Actor     `json:"directors,omitempty" gorm:"many2many:movie_directors"`
	Seasons    []Season    `json:"seasons,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Shots      []MovieShot `json:"shots,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SeriesInfo 剧集概要
type SeriesInfo struct {
	SeasonsCount    int64 `json:"seasons_count"`
	TotalEpisodes   int64 `json:"total_episodes"`
	EpisodeDuration int   `json:"episode_duration"` // 第一集时长（分钟）
}

// MovieFilter 影片列表筛选条件
type MovieFilter struct {
	Query    string   // 标题或简介关键词
	Category string   // 分类 slug
	Genres   []string // 类型 slug，命中任意一个即可
	Years    []int
}
