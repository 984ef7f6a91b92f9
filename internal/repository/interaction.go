package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/moviesphere/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 首次互动时插入并置位，已存在则翻转对应列，返回翻转后的值
const toggleSQL = `INSERT INTO movie_interactions (user_id, movie_id, is_favorite, is_watched, is_planned, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, movie_id) DO UPDATE
SET %[1]s = NOT movie_interactions.%[1]s, updated_at = excluded.updated_at
RETURNING %[1]s`

// InteractionRepository 用户互动（收藏 / 已看 / 想看）仓库
type InteractionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository 创建互动仓库
func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Toggle 翻转指定类型的状态，其余两个标志保持不变
func (r *InteractionRepository) Toggle(ctx context.Context, userID, movieID uint, kind model.InteractionKind) (bool, error) {
	seed := model.MovieInteraction{}
	seed.SetFlag(kind, true)
	now := time.Now()

	var state bool
	err := r.db.WithContext(ctx).
		Raw(fmt.Sprintf(toggleSQL, kind.Column()),
			userID, movieID, seed.IsFavorite, seed.IsWatched, seed.IsPlanned, now, now).
		Row().
		Scan(&state)
	return state, err
}

// SetAll 一次性覆盖三个标志
func (r *InteractionRepository) SetAll(ctx context.Context, userID, movieID uint, favorite, watched, planned bool) error {
	now := time.Now()
	row := &model.MovieInteraction{
		UserID:     userID,
		MovieID:    movieID,
		IsFavorite: favorite,
		IsWatched:  watched,
		IsPlanned:  planned,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_favorite", "is_watched", "is_planned", "updated_at"}),
	}).Create(row).Error
}

// Get 获取用户对影片的互动记录，不存在时返回 nil
func (r *InteractionRepository) Get(ctx context.Context, userID, movieID uint) (*model.MovieInteraction, error) {
	var rec model.MovieInteraction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListMoviesByFlag 按互动记录创建顺序列出标志为真的影片
// limit <= 0 表示返回全部
func (r *InteractionRepository) ListMoviesByFlag(ctx context.Context, userID uint, kind model.InteractionKind, limit, offset int) ([]*model.Movie, error) {
	q := r.flagged(ctx, userID, kind).
		Select("movies.*").
		Order("movie_interactions.id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var movies []*model.Movie
	if err := q.Find(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

// CountByFlag 统计标志为真的影片数量
func (r *InteractionRepository) CountByFlag(ctx context.Context, userID uint, kind model.InteractionKind) (int64, error) {
	var count int64
	err := r.flagged(ctx, userID, kind).Count(&count).Error
	return count, err
}

func (r *InteractionRepository) flagged(ctx context.Context, userID uint, kind model.InteractionKind) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Movie{}).
		Joins("JOIN movie_interactions ON movie_interactions.movie_id = movies.id").
		Where("movie_interactions.user_id = ?", userID).
		Where("movie_interactions."+kind.Column()+" = ?", true)
}
