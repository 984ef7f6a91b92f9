package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/user/moviesphere/internal/model"
	"gorm.io/gorm"
)

// CatalogRepository 分类、类型、演员与剧集等参考数据仓库
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 创建目录仓库
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// CreateCategory 创建分类
func (r *CatalogRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// CreateGenre 创建类型
func (r *CatalogRepository) CreateGenre(ctx context.Context, g *model.Genre) error {
	return r.db.WithContext(ctx).Create(g).Error
}

// CreateActor 创建演员
func (r *CatalogRepository) CreateActor(ctx context.Context, a *model.Actor) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// CreateSeason 创建一季（连同单集）
func (r *CatalogRepository) CreateSeason(ctx context.Context, s *model.Season) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// Categories 全部分类
func (r *CatalogRepository) Categories(ctx context.Context) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error
	return categories, err
}

// Genres 分页获取类型，按名称排序
func (r *CatalogRepository) Genres(ctx context.Context, limit, offset int) ([]*model.Genre, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.Genre{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := db.Order("name ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var genres []*model.Genre
	if err := q.Find(&genres).Error; err != nil {
		return nil, 0, err
	}
	return genres, total, nil
}

// FindActor 根据 ID 查找演员，不存在时返回 nil
func (r *CatalogRepository) FindActor(ctx context.Context, id uint) (*model.Actor, error) {
	var actor model.Actor
	err := r.db.WithContext(ctx).First(&actor, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &actor, nil
}

// ActorsForMovie 影片演员表，可按姓名模糊搜索
func (r *CatalogRepository) ActorsForMovie(ctx context.Context, movieID uint, search string, limit, offset int) ([]*model.Actor, int64, error) {
	build := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Model(&model.Actor{}).
			Joins("JOIN movie_actors ON movie_actors.actor_id = actors.id").
			Where("movie_actors.movie_id = ?", movieID)
		if s := strings.TrimSpace(search); s != "" {
			q = q.Where("LOWER(actors.name) LIKE ?", "%"+strings.ToLower(s)+"%")
		}
		return q
	}

	var total int64
	if err := build().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := build().Select("actors.*").Order("actors.name ASC, actors.id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var actors []*model.Actor
	if err := q.Find(&actors).Error; err != nil {
		return nil, 0, err
	}
	return actors, total, nil
}
