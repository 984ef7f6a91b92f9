package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/moviesphere/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingRepository 评分仓库
type RatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository 创建评分仓库
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert 按 (movie_id, origin) 写入评分，已存在则覆盖星级
// 单条 INSERT ... ON CONFLICT 语句完成，并发提交不会产生重复行
func (r *RatingRepository) Upsert(ctx context.Context, movieID uint, origin string, star int) error {
	now := time.Now()
	rating := &model.Rating{
		MovieID:   movieID,
		Origin:    origin,
		Star:      star,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "movie_id"}, {Name: "origin"}},
		DoUpdates: clause.AssignmentColumns([]string{"star", "updated_at"}),
	}).Create(rating).Error
}

// FindByOrigin 查找某来源对影片的评分
func (r *RatingRepository) FindByOrigin(ctx context.Context, movieID uint, origin string) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.WithContext(ctx).
		Where("movie_id = ? AND origin = ?", movieID, origin).
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// Totals 返回影片全部评分的星级总和与条数
func (r *RatingRepository) Totals(ctx context.Context, movieID uint) (sum int64, count int64, err error) {
	var result struct {
		Total int64
		Count int64
	}
	err = r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("COALESCE(SUM(star), 0) AS total, COUNT(*) AS count").
		Where("movie_id = ?", movieID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Total, result.Count, nil
}

// CountByMovie 统计影片的评分条数
func (r *RatingRepository) CountByMovie(ctx context.Context, movieID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Rating{}).Where("movie_id = ?", movieID).Count(&count).Error
	return count, err
}

// TopScores 按实时平均分降序返回有评分的影片，平分时按影片 ID 升序
// limit <= 0 表示不限制条数
func (r *RatingRepository) TopScores(ctx context.Context, limit, offset int) ([]*model.MovieScore, error) {
	return r.scan(r.scoreQuery(ctx), limit, offset)
}

// TopScoresForActor 只统计某演员参演的影片
func (r *RatingRepository) TopScoresForActor(ctx context.Context, actorID uint, limit int) ([]*model.MovieScore, error) {
	q := r.scoreQuery(ctx).
		Joins("JOIN movie_actors ON movie_actors.movie_id = ratings.movie_id").
		Where("movie_actors.actor_id = ?", actorID)
	return r.scan(q, limit, 0)
}

// CountRatedMovies 统计至少有一条评分的影片数量
func (r *RatingRepository) CountRatedMovies(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Rating{}).Distinct("movie_id").Count(&count).Error
	return count, err
}

func (r *RatingRepository) scoreQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("ratings.movie_id AS movie_id, AVG(ratings.star) AS average, COUNT(*) AS count").
		Group("ratings.movie_id").
		Order("average DESC, ratings.movie_id ASC")
}

func (r *RatingRepository) scan(q *gorm.DB, limit, offset int) ([]*model.MovieScore, error) {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var scores []*model.MovieScore
	if err := q.Scan(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}
