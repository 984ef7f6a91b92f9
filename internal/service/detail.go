package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/repository"
)

// Viewer 当前访问者：登录用户 ID（未登录为 0）与评分来源（客户端地址）
type Viewer struct {
	UserID uint
	Origin string
}

// MovieDetail 影片详情页数据
type MovieDetail struct {
	Movie          *model.Movie            `json:"movie"`
	AverageRating  float64                 `json:"average_rating"`
	ViewerRating   *int                    `json:"viewer_rating"`
	Interaction    *model.MovieInteraction `json:"interaction"`
	Series         *model.SeriesInfo       `json:"series_info,omitempty"`
	Seasons        []model.Season          `json:"seasons,omitempty"`
	CurrentSeason  *model.Season           `json:"current_season,omitempty"`
	CurrentEpisode *model.Episode          `json:"current_episode,omitempty"`
	ActorsCount    int                     `json:"actors_count"`
	Reviews        []*model.ReviewThread   `json:"reviews"`
}

// DetailForm 详情页的合并提交：可选评分加上三个互动标志
type DetailForm struct {
	Star     *int
	Favorite bool
	Watched  bool
	Planned  bool
}

// DetailService 组合目录、评分、互动与评论，服务于影片详情页
type DetailService struct {
	catalog      *CatalogService
	ratings      *RatingService
	interactions *InteractionService
	reviews      *ReviewService
	movies       *repository.MovieRepository
	log          *log.Helper
}

// NewDetailService 创建详情服务
func NewDetailService(repos *repository.Repositories, catalog *CatalogService, ratings *RatingService, interactions *InteractionService, reviews *ReviewService, logger log.Logger) *DetailService {
	return &DetailService{
		catalog:      catalog,
		ratings:      ratings,
		interactions: interactions,
		reviews:      reviews,
		movies:       repos.Movie,
		log:          log.NewHelper(log.With(logger, "module", "service/detail")),
	}
}

// MovieDetail 组装详情页。打开详情页时会重算一次平均分
// season、episode 为 0 时分别取第一季、第一集
func (s *DetailService) MovieDetail(ctx context.Context, ref string, viewer Viewer, season, episode int) (*MovieDetail, error) {
	movie, err := s.catalog.FindMovie(ctx, ref)
	if err != nil {
		return nil, err
	}

	avg, err := s.ratings.RecomputeAverage(ctx, movie.ID)
	if err != nil {
		return nil, err
	}
	movie.AverageRating = avg

	d := &MovieDetail{
		Movie:         movie,
		AverageRating: avg,
		ActorsCount:   len(movie.Actors),
	}

	if viewer.Origin != "" {
		star, ok, err := s.ratings.RatingForOrigin(ctx, movie.ID, viewer.Origin)
		if err != nil {
			return nil, err
		}
		if ok {
			d.ViewerRating = &star
		}
	}

	if d.Interaction, err = s.interactions.Get(ctx, viewer.UserID, movie.ID); err != nil {
		return nil, err
	}

	if err := s.fillSeasons(ctx, d, season, episode); err != nil {
		return nil, err
	}

	if d.Reviews, err = s.reviews.Threads(ctx, movie.ID); err != nil {
		return nil, err
	}
	return d, nil
}

// SubmitDetail 处理详情页表单：有评分则保存并重算平均分，已登录则覆盖互动标志
// 返回最新的平均分
func (s *DetailService) SubmitDetail(ctx context.Context, ref string, viewer Viewer, form DetailForm) (float64, error) {
	movie, err := s.catalog.FindMovie(ctx, ref)
	if err != nil {
		return 0, err
	}

	avg := movie.AverageRating
	if form.Star != nil {
		if _, err := s.ratings.SubmitRating(ctx, movie.ID, viewer.Origin, *form.Star); err != nil {
			return 0, err
		}
		if avg, err = s.ratings.RecomputeAverage(ctx, movie.ID); err != nil {
			return 0, err
		}
	}

	if viewer.UserID != 0 {
		if err := s.interactions.SetAll(ctx, viewer.UserID, movie.ID, form.Favorite, form.Watched, form.Planned); err != nil {
			return 0, err
		}
	}
	return avg, nil
}

// RandomPopular 首页随机热门影片，剧集附带全部季与单集
func (s *DetailService) RandomPopular(ctx context.Context) (*model.Movie, error) {
	movie, err := s.ratings.RandomPopular(ctx)
	if err != nil || movie == nil {
		return movie, err
	}
	if movie.IsSeries {
		seasons, err := s.movies.Seasons(ctx, movie.ID)
		if err != nil {
			return nil, storageError("查询剧集", err)
		}
		// 合并查询的结果由多个请求共享，不能原地修改
		cp := *movie
		cp.Seasons = seasons
		return &cp, nil
	}
	return movie, nil
}

func (s *DetailService) fillSeasons(ctx context.Context, d *MovieDetail, season, episode int) error {
	if !d.Movie.IsSeries {
		return nil
	}

	info, err := s.movies.SeriesInfo(ctx, d.Movie.ID)
	if err != nil {
		return storageError("统计剧集", err)
	}
	d.Series = info

	seasons, err := s.movies.Seasons(ctx, d.Movie.ID)
	if err != nil {
		return storageError("查询剧集", err)
	}
	d.Seasons = seasons

	for i := range seasons {
		if season == 0 || seasons[i].SeasonNumber == season {
			d.CurrentSeason = &seasons[i]
			break
		}
	}
	if d.CurrentSeason == nil {
		return nil
	}
	episodes := d.CurrentSeason.Episodes
	for i := range episodes {
		if episode == 0 || episodes[i].EpisodeNumber == episode {
			d.CurrentEpisode = &episodes[i]
			break
		}
	}
	return nil
}
