package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/repository"
	"golang.org/x/sync/singleflight"
)

// 随机推荐在前 N 部热门影片中挑选
const randomPopularPool = 10

// RatingService 评分引擎
type RatingService struct {
	movies  *repository.MovieRepository
	ratings *repository.RatingRepository
	group   singleflight.Group
	pick    func(n int) int
	log     *log.Helper
}

// NewRatingService 创建评分服务
func NewRatingService(repos *repository.Repositories, logger log.Logger) *RatingService {
	return &RatingService{
		movies:  repos.Movie,
		ratings: repos.Rating,
		pick:    rand.IntN,
		log:     log.NewHelper(log.With(logger, "module", "service/rating")),
	}
}

// RoundAverage 计算 sum/count 并按四舍五入保留两位小数，count 为 0 时返回 0
// 在整数上完成舍入，避免浮点误差影响 x.xx5 的进位
func RoundAverage(sum, count int64) float64 {
	if count <= 0 {
		return 0
	}
	cents := (sum*200 + count) / (2 * count)
	return float64(cents) / 100
}

// SubmitRating 记录某来源对影片的评分，同一来源重复提交会覆盖之前的星级
// 不会重算缓存的平均分，返回影片当前保存的平均分
func (s *RatingService) SubmitRating(ctx context.Context, movieID uint, origin string, star int) (float64, error) {
	if star < model.MinStar || star > model.MaxStar {
		return 0, ErrInvalidStar
	}
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return 0, ErrInvalidOrigin
	}

	movie, err := s.movies.FindByID(ctx, movieID)
	if err != nil {
		return 0, storageError("查询影片", err)
	}
	if movie == nil {
		return 0, ErrMovieNotFound
	}

	if err := s.ratings.Upsert(ctx, movieID, origin, star); err != nil {
		return 0, storageError("保存评分", err)
	}
	return movie.AverageRating, nil
}

// RecomputeAverage 重新计算影片平均分并写回
func (s *RatingService) RecomputeAverage(ctx context.Context, movieID uint) (float64, error) {
	movie, err := s.movies.FindByID(ctx, movieID)
	if err != nil {
		return 0, storageError("查询影片", err)
	}
	if movie == nil {
		return 0, ErrMovieNotFound
	}

	sum, count, err := s.ratings.Totals(ctx, movieID)
	if err != nil {
		return 0, storageError("统计评分", err)
	}
	avg := RoundAverage(sum, count)
	if err := s.movies.UpdateAverageRating(ctx, movieID, avg); err != nil {
		return 0, storageError("更新平均分", err)
	}
	return avg, nil
}

// RatingForOrigin 查询某来源的评分，未评分时 ok 为 false
func (s *RatingService) RatingForOrigin(ctx context.Context, movieID uint, origin string) (star int, ok bool, err error) {
	rating, err := s.ratings.FindByOrigin(ctx, movieID, origin)
	if err != nil {
		return 0, false, storageError("查询评分", err)
	}
	if rating == nil {
		return 0, false, nil
	}
	return rating.Star, true, nil
}

// PopularMovies 按实时平均分降序返回至少有一条评分的影片，平分时 ID 小的在前
// limit <= 0 返回全部。并发的相同请求合并为一次查询
func (s *RatingService) PopularMovies(ctx context.Context, limit int) ([]*model.Movie, error) {
	if limit < 0 {
		limit = 0
	}
	key := fmt.Sprintf("popular:%d", limit)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		ranked, err := s.ranked(context.WithoutCancel(ctx), limit, 0)
		if err != nil {
			return nil, err
		}
		movies := make([]*model.Movie, 0, len(ranked))
		for _, r := range ranked {
			movies = append(movies, r.Movie)
		}
		return movies, nil
	})
	if err != nil {
		return nil, err
	}
	// 切片由合并的调用方共享，各自拿一份副本
	return slices.Clone(v.([]*model.Movie)), nil
}

// ListPopular 分页的热门榜，附带实时平均分与评分人数
func (s *RatingService) ListPopular(ctx context.Context, page, pageSize int) (*model.Page[*model.RankedMovie], error) {
	page, pageSize, offset := model.NormalizePage(page, pageSize, 5)

	total, err := s.ratings.CountRatedMovies(ctx)
	if err != nil {
		return nil, storageError("统计热门影片", err)
	}
	items, err := s.ranked(ctx, pageSize, offset)
	if err != nil {
		return nil, err
	}
	return model.NewPage(items, total, page, pageSize), nil
}

// PopularForActor 演员参演影片中最热门的 limit 部
func (s *RatingService) PopularForActor(ctx context.Context, actorID uint, limit int) ([]*model.RankedMovie, error) {
	scores, err := s.ratings.TopScoresForActor(ctx, actorID, limit)
	if err != nil {
		return nil, storageError("统计演员热门影片", err)
	}
	return s.attach(ctx, scores)
}

// RandomPopular 从前几部热门影片中随机挑选一部，没有评分数据时返回 nil
func (s *RatingService) RandomPopular(ctx context.Context) (*model.Movie, error) {
	movies, err := s.PopularMovies(ctx, randomPopularPool)
	if err != nil || len(movies) == 0 {
		return nil, err
	}
	return movies[s.pick(len(movies))], nil
}

// RecomputeAll 重算全部影片的缓存平均分，返回处理的影片数
func (s *RatingService) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := s.movies.AllIDs(ctx)
	if err != nil {
		return 0, storageError("读取影片列表", err)
	}
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := s.RecomputeAverage(ctx, id); err != nil {
			return i, fmt.Errorf("影片 %d: %w", id, err)
		}
	}
	s.log.WithContext(ctx).Infof("平均分重算完成: %d 部影片", len(ids))
	return len(ids), nil
}

func (s *RatingService) ranked(ctx context.Context, limit, offset int) ([]*model.RankedMovie, error) {
	scores, err := s.ratings.TopScores(ctx, limit, offset)
	if err != nil {
		return nil, storageError("统计热门影片", err)
	}
	return s.attach(ctx, scores)
}

func (s *RatingService) attach(ctx context.Context, scores []*model.MovieScore) ([]*model.RankedMovie, error) {
	ids := make([]uint, 0, len(scores))
	for _, sc := range scores {
		ids = append(ids, sc.MovieID)
	}
	movies, err := s.movies.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storageError("查询影片", err)
	}

	byID := make(map[uint]*model.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	ranked := make([]*model.RankedMovie, 0, len(scores))
	for _, sc := range scores {
		m, ok := byID[sc.MovieID]
		if !ok {
			continue
		}
		ranked = append(ranked, &model.RankedMovie{
			Movie:       m,
			LiveAverage: float64(int64(sc.Average*100+0.5)) / 100,
			RatingCount: sc.Count,
		})
	}
	return ranked, nil
}
