package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/user/moviesphere/internal/model"
	"gorm.io/gorm"
)

// likeEscaper 转义 LIKE 通配符，关键词按字面匹配
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// MovieRepository 影片仓库
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository 创建影片仓库
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create 创建影片（连同已填充的类型、演员等关联）
func (r *MovieRepository) Create(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

// FindByID 根据 ID 查找影片，不存在时返回 nil
func (r *MovieRepository) FindByID(ctx context.Context, id uint) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.WithContext(ctx).First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindDetail 根据 ID 查找影片并预加载分类、类型、演员与导演
func (r *MovieRepository) FindDetail(ctx context.Context, id uint) (*model.Movie, error) {
	var movie model.Movie
	err := r.withRelations(r.db.WithContext(ctx)).First(&movie, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// FindIDBySlug 根据 slug 查找影片 ID，不存在时返回 0
func (r *MovieRepository) FindIDBySlug(ctx context.Context, slug string) (uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Movie{}).
		Where("slug = ?", slug).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil || len(ids) == 0 {
		return 0, err
	}
	return ids[0], nil
}

// FindByIDs 批量查找影片，结果按传入 ID 的顺序排列
func (r *MovieRepository) FindByIDs(ctx context.Context, ids []uint) ([]*model.Movie, error) {
	if len(ids) == 0 {
		return []*model.Movie{}, nil
	}
	var movies []*model.Movie
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&movies).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*model.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	ordered := make([]*model.Movie, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}

// UpdateAverageRating 写回缓存的平均分
func (r *MovieRepository) UpdateAverageRating(ctx context.Context, id uint, average float64) error {
	return r.db.WithContext(ctx).Model(&model.Movie{}).
		Where("id = ?", id).
		UpdateColumn("average_rating", average).Error
}

// List 按条件分页查询已发布的影片
func (r *MovieRepository) List(ctx context.Context, filter model.MovieFilter, limit, offset int) ([]*model.Movie, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Model(&model.Movie{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.filtered(ctx, filter).Preload("Genres").Order("movies.id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	var movies []*model.Movie
	if err := q.Find(&movies).Error; err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// EditorsChoice 编辑精选
func (r *MovieRepository) EditorsChoice(ctx context.Context, limit int) ([]*model.Movie, error) {
	q := r.db.WithContext(ctx).Where("is_editors_choice = ?", true).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var movies []*model.Movie
	err := q.Find(&movies).Error
	return movies, err
}

// Years 已发布影片的全部年份（升序去重）
func (r *MovieRepository) Years(ctx context.Context) ([]int, error) {
	var years []int
	err := r.db.WithContext(ctx).Model(&model.Movie{}).
		Where("draft = ? AND year > 0", false).
		Distinct("year").
		Order("year ASC").
		Pluck("year", &years).Error
	return years, err
}

// AllIDs 返回全部影片 ID
func (r *MovieRepository) AllIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.Movie{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

// Seasons 影片的全部季（含单集），按季号、集号升序
func (r *MovieRepository) Seasons(ctx context.Context, movieID uint) ([]model.Season, error) {
	var seasons []model.Season
	err := r.db.WithContext(ctx).
		Preload("Episodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("episode_number ASC")
		}).
		Where("movie_id = ?", movieID).
		Order("season_number ASC").
		Find(&seasons).Error
	return seasons, err
}

// SeriesInfo 统计季数、总集数与首集时长
func (r *MovieRepository) SeriesInfo(ctx context.Context, movieID uint) (*model.SeriesInfo, error) {
	info := &model.SeriesInfo{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Season{}).Where("movie_id = ?", movieID).Count(&info.SeasonsCount).Error; err != nil {
		return nil, err
	}

	episodes := db.Model(&model.Episode{}).
		Joins("JOIN seasons ON seasons.id = episodes.season_id").
		Where("seasons.movie_id = ?", movieID)
	if err := episodes.Count(&info.TotalEpisodes).Error; err != nil {
		return nil, err
	}

	var durations []int
	err := db.Model(&model.Episode{}).
		Joins("JOIN seasons ON seasons.id = episodes.season_id").
		Where("seasons.movie_id = ?", movieID).
		Order("seasons.season_number ASC, episodes.episode_number ASC").
		Limit(1).
		Pluck("episodes.duration_minutes", &durations).Error
	if err != nil {
		return nil, err
	}
	if len(durations) > 0 {
		info.EpisodeDuration = durations[0]
	}
	return info, nil
}

func (r *MovieRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Category").
		Preload("Genres").
		Preload("Actors").
		Preload("Directors")
}

func (r *MovieRepository) filtered(ctx context.Context, f model.MovieFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Where("movies.draft = ?", false)

	if kw := strings.TrimSpace(f.Query); kw != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(kw)) + "%"
		q = q.Where(`(LOWER(movies.title) LIKE ? ESCAPE '\' OR LOWER(movies.description) LIKE ? ESCAPE '\')`, like, like)
	}

	if f.Category != "" {
		q = q.Joins("JOIN categories ON categories.id = movies.category_id").
			Where("categories.slug = ?", f.Category)
	}

	if len(f.Genres) > 0 {
		sub := r.db.Table("movie_genres").
			Select("movie_genres.movie_id").
			Joins("JOIN genres ON genres.id = movie_genres.genre_id").
			Where("genres.slug IN ?", f.Genres)
		q = q.Where("movies.id IN (?)", sub)
	}

	if len(f.Years) > 0 {
		q = q.Where("movies.year IN ?", f.Years)
	}

	return q
}
