package service

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/repository"
)

// InteractionService 收藏 / 已看 / 想看
type InteractionService struct {
	movies       *repository.MovieRepository
	interactions *repository.InteractionRepository
	log          *log.Helper
}

// NewInteractionService 创建互动服务
func NewInteractionService(repos *repository.Repositories, logger log.Logger) *InteractionService {
	return &InteractionService{
		movies:       repos.Movie,
		interactions: repos.Interaction,
		log:          log.NewHelper(log.With(logger, "module", "service/interaction")),
	}
}

// Toggle 翻转一个标志并返回新值，首次互动时创建记录
func (s *InteractionService) Toggle(ctx context.Context, userID, movieID uint, kind model.InteractionKind) (bool, error) {
	if _, ok := model.ParseInteractionKind(string(kind)); !ok {
		return false, ErrInvalidKind
	}
	if err := s.check(ctx, userID, movieID); err != nil {
		return false, err
	}

	state, err := s.interactions.Toggle(ctx, userID, movieID, kind)
	if err != nil {
		return false, storageError("切换互动状态", err)
	}
	s.log.WithContext(ctx).Debugf("用户 %d 影片 %d %s=%v", userID, movieID, kind, state)
	return state, nil
}

// SetAll 同时覆盖三个标志
func (s *InteractionService) SetAll(ctx context.Context, userID, movieID uint, favorite, watched, planned bool) error {
	if err := s.check(ctx, userID, movieID); err != nil {
		return err
	}
	if err := s.interactions.SetAll(ctx, userID, movieID, favorite, watched, planned); err != nil {
		return storageError("保存互动状态", err)
	}
	return nil
}

// Get 用户对影片的互动记录，没有互动过时返回 nil
func (s *InteractionService) Get(ctx context.Context, userID, movieID uint) (*model.MovieInteraction, error) {
	if userID == 0 {
		return nil, nil
	}
	rec, err := s.interactions.Get(ctx, userID, movieID)
	if err != nil {
		return nil, storageError("查询互动状态", err)
	}
	return rec, nil
}

// ListByFlag 标志为真的全部影片，按首次互动的先后排列
func (s *InteractionService) ListByFlag(ctx context.Context, userID uint, kind model.InteractionKind) ([]*model.Movie, error) {
	if userID == 0 {
		return nil, ErrLoginRequired
	}
	if _, ok := model.ParseInteractionKind(string(kind)); !ok {
		return nil, ErrInvalidKind
	}
	movies, err := s.interactions.ListMoviesByFlag(ctx, userID, kind, 0, 0)
	if err != nil {
		return nil, storageError("查询互动影片", err)
	}
	return movies, nil
}

// ListByFlagPage 分页版本
func (s *InteractionService) ListByFlagPage(ctx context.Context, userID uint, kind model.InteractionKind, page, pageSize int) (*model.Page[*model.Movie], error) {
	if userID == 0 {
		return nil, ErrLoginRequired
	}
	if _, ok := model.ParseInteractionKind(string(kind)); !ok {
		return nil, ErrInvalidKind
	}
	page, pageSize, offset := model.NormalizePage(page, pageSize, 13)

	total, err := s.interactions.CountByFlag(ctx, userID, kind)
	if err != nil {
		return nil, storageError("统计互动影片", err)
	}
	movies, err := s.interactions.ListMoviesByFlag(ctx, userID, kind, pageSize, offset)
	if err != nil {
		return nil, storageError("查询互动影片", err)
	}
	return model.NewPage(movies, total, page, pageSize), nil
}

func (s *InteractionService) check(ctx context.Context, userID, movieID uint) error {
	if userID == 0 {
		return ErrLoginRequired
	}
	movie, err := s.movies.FindByID(ctx, movieID)
	if err != nil {
		return storageError("查询影片", err)
	}
	if movie == nil {
		return ErrMovieNotFound
	}
	return nil
}
