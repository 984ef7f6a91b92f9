package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/patrickmn/go-cache"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/repository"
	"github.com/user/moviesphere/internal/utils"
)

// 每页条数
const (
	DefaultMoviesPerPage = 5
	GenresPerPage        = 10
	ActorsPerPage        = 10
)

const facetsKey = "catalog:facets"

// Facets 列表页的筛选项
type Facets struct {
	Categories []*model.Category `json:"categories"`
	Genres     []*model.Genre    `json:"genres"`
	Years      []int             `json:"years"`
}

// ActorDetail 演员及其最热门的影片
type ActorDetail struct {
	Actor         *model.Actor         `json:"actor"`
	PopularMovies []*model.RankedMovie `json:"popular_movies"`
}

// CatalogService 影片目录查询
type CatalogService struct {
	movies  *repository.MovieRepository
	catalog *repository.CatalogRepository
	ratings *RatingService

	facets  *cache.Cache
	slugs   *utils.TTLCache[string, uint]
	perPage int
	log     *log.Helper
}

// NewCatalogService 创建目录服务，facets 为筛选项缓存
func NewCatalogService(repos *repository.Repositories, ratings *RatingService, facets *cache.Cache, perPage int, logger log.Logger) *CatalogService {
	if perPage <= 0 {
		perPage = DefaultMoviesPerPage
	}
	return &CatalogService{
		movies:  repos.Movie,
		catalog: repos.Catalog,
		ratings: ratings,
		facets:  facets,
		slugs:   utils.NewTTLCache[string, uint](1000, 10*time.Minute),
		perPage: perPage,
		log:     log.NewHelper(log.With(logger, "module", "service/catalog")),
	}
}

// FindMovie 按数字 ID 或 slug 查找影片（含分类、类型、演员、导演）
func (s *CatalogService) FindMovie(ctx context.Context, ref string) (*model.Movie, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrMovieNotFound
	}
	// 纯数字先按 ID 查，查不到再当作 slug
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		movie, err := s.findDetail(ctx, uint(id))
		if !errors.Is(err, ErrMovieNotFound) {
			return movie, err
		}
	}

	id, ok := s.slugs.Get(ref)
	if !ok {
		var err error
		id, err = s.movies.FindIDBySlug(ctx, ref)
		if err != nil {
			return nil, storageError("查询影片", err)
		}
		if id == 0 {
			return nil, ErrMovieNotFound
		}
		s.slugs.Set(ref, id)
	}

	movie, err := s.findDetail(ctx, id)
	if err != nil {
		s.slugs.Delete(ref)
	}
	return movie, err
}

// ListMovies 已发布影片的筛选分页列表
func (s *CatalogService) ListMovies(ctx context.Context, filter model.MovieFilter, page int) (*model.Page[*model.Movie], error) {
	page, size, offset := model.NormalizePage(page, s.perPage, s.perPage)
	movies, total, err := s.movies.List(ctx, filter, size, offset)
	if err != nil {
		return nil, storageError("查询影片列表", err)
	}
	return model.NewPage(movies, total, page, size), nil
}

// Search 按标题或简介搜索
func (s *CatalogService) Search(ctx context.Context, q string, page int) (*model.Page[*model.Movie], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}
	return s.ListMovies(ctx, model.MovieFilter{Query: q}, page)
}

// EditorsChoice 编辑精选，limit <= 0 返回全部
func (s *CatalogService) EditorsChoice(ctx context.Context, limit int) ([]*model.Movie, error) {
	movies, err := s.movies.EditorsChoice(ctx, limit)
	if err != nil {
		return nil, storageError("查询编辑精选", err)
	}
	return movies, nil
}

// Genres 类型分页列表
func (s *CatalogService) Genres(ctx context.Context, page int) (*model.Page[*model.Genre], error) {
	page, size, offset := model.NormalizePage(page, GenresPerPage, GenresPerPage)
	genres, total, err := s.catalog.Genres(ctx, size, offset)
	if err != nil {
		return nil, storageError("查询类型", err)
	}
	return model.NewPage(genres, total, page, size), nil
}

// Facets 分类、类型与年份筛选项，结果缓存
func (s *CatalogService) Facets(ctx context.Context) (*Facets, error) {
	if v, ok := s.facets.Get(facetsKey); ok {
		return v.(*Facets), nil
	}

	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		return nil, storageError("查询分类", err)
	}
	genres, _, err := s.catalog.Genres(ctx, 0, 0)
	if err != nil {
		return nil, storageError("查询类型", err)
	}
	years, err := s.movies.Years(ctx)
	if err != nil {
		return nil, storageError("查询年份", err)
	}

	f := &Facets{Categories: categories, Genres: genres, Years: years}
	s.facets.SetDefault(facetsKey, f)
	return f, nil
}

// Actor 演员详情及其最热门的三部影片
func (s *CatalogService) Actor(ctx context.Context, id uint) (*ActorDetail, error) {
	actor, err := s.catalog.FindActor(ctx, id)
	if err != nil {
		return nil, storageError("查询演员", err)
	}
	if actor == nil {
		return nil, ErrActorNotFound
	}
	popular, err := s.ratings.PopularForActor(ctx, id, 3)
	if err != nil {
		return nil, err
	}
	return &ActorDetail{Actor: actor, PopularMovies: popular}, nil
}

// MovieActors 影片演员表，支持按姓名搜索
func (s *CatalogService) MovieActors(ctx context.Context, ref, search string, page int) (*model.Page[*model.Actor], error) {
	movie, err := s.FindMovie(ctx, ref)
	if err != nil {
		return nil, err
	}
	page, size, offset := model.NormalizePage(page, ActorsPerPage, ActorsPerPage)
	actors, total, err := s.catalog.ActorsForMovie(ctx, movie.ID, search, size, offset)
	if err != nil {
		return nil, storageError("查询演员表", err)
	}
	return model.NewPage(actors, total, page, size), nil
}

// CreateMovie 新增影片。未指定 slug 时由标题生成，未指定年份时取首映年份
// 未填写标语时取简介（可含 HTML）第一段的纯文本
func (s *CatalogService) CreateMovie(ctx context.Context, movie *model.Movie) error {
	movie.Title = strings.TrimSpace(movie.Title)
	if movie.Title == "" {
		return ErrInvalidTitle
	}
	if movie.Slug == "" {
		movie.Slug = utils.Slugify(movie.Title)
	}
	if movie.Slug == "" {
		return ErrInvalidTitle
	}
	if movie.Year == 0 && movie.WorldPremiere != nil {
		movie.Year = movie.WorldPremiere.Year()
	}
	if strings.TrimSpace(movie.Tagline) == "" {
		movie.Tagline = utils.Excerpt(movie.Description, model.MaxTaglineLength)
	}
	if movie.AverageRating < 0 || movie.AverageRating > model.MaxStar {
		movie.AverageRating = 0
	}

	if err := s.movies.Create(ctx, movie); err != nil {
		return storageError("创建影片", err)
	}
	s.facets.Delete(facetsKey)
	return nil
}

func (s *CatalogService) findDetail(ctx context.Context, id uint) (*model.Movie, error) {
	movie, err := s.movies.FindDetail(ctx, id)
	if err != nil {
		return nil, storageError("查询影片", err)
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	return movie, nil
}
