package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-playground/validator/v10"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/repository"
)

// 正文按提交的字符数（rune）限长
var reviewTextRule = fmt.Sprintf("max=%d", model.MaxReviewLength)

// ReviewInput 发表评论的参数
type ReviewInput struct {
	MovieID  uint
	UserID   uint
	Email    string
	Text     string
	ParentID *uint
}

// ReviewService 两级评论
type ReviewService struct {
	movies   *repository.MovieRepository
	reviews  *repository.ReviewRepository
	validate *validator.Validate
	log      *log.Helper
}

// NewReviewService 创建评论服务
func NewReviewService(repos *repository.Repositories, logger log.Logger) *ReviewService {
	return &ReviewService{
		movies:   repos.Movie,
		reviews:  repos.Review,
		validate: validator.New(),
		log:      log.NewHelper(log.With(logger, "module", "service/review")),
	}
}

// PostReview 发表评论或回复，正文按原样保存，长度按提交的字符数计算
// 回复的父评论必须存在且属于同一部影片
func (s *ReviewService) PostReview(ctx context.Context, in ReviewInput) (*model.Review, error) {
	if in.UserID == 0 {
		return nil, ErrLoginRequired
	}
	email := strings.TrimSpace(in.Email)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrEmptyReview
	}
	if err := s.validate.Var(in.Text, reviewTextRule); err != nil {
		return nil, ErrReviewTooLong
	}

	movie, err := s.movies.FindByID(ctx, in.MovieID)
	if err != nil {
		return nil, storageError("查询影片", err)
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	if in.ParentID != nil {
		parent, err := s.reviews.FindByID(ctx, *in.ParentID)
		if err != nil {
			return nil, storageError("查询父评论", err)
		}
		if parent == nil {
			return nil, ErrReviewNotFound
		}
		if parent.MovieID != in.MovieID {
			return nil, ErrParentMismatch
		}
	}

	review := &model.Review{
		MovieID:   in.MovieID,
		UserID:    in.UserID,
		Email:     email,
		Text:      in.Text,
		ParentID:  in.ParentID,
		CreatedAt: time.Now(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, storageError("保存评论", err)
	}
	s.log.WithContext(ctx).Infof("新评论: movie=%d review=%d", in.MovieID, review.ID)
	return review, nil
}

// ListTopLevel 影片的顶层评论，按发表顺序
func (s *ReviewService) ListTopLevel(ctx context.Context, movieID uint) ([]*model.Review, error) {
	movie, err := s.movies.FindByID(ctx, movieID)
	if err != nil {
		return nil, storageError("查询影片", err)
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	reviews, err := s.reviews.ListTopLevel(ctx, movieID)
	if err != nil {
		return nil, storageError("查询评论", err)
	}
	return reviews, nil
}

// ListReplies 一条评论的直接回复
func (s *ReviewService) ListReplies(ctx context.Context, reviewID uint) ([]*model.Review, error) {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, storageError("查询评论", err)
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	replies, err := s.reviews.ListReplies(ctx, reviewID)
	if err != nil {
		return nil, storageError("查询回复", err)
	}
	return replies, nil
}

// Threads 顶层评论连同各自的直接回复
func (s *ReviewService) Threads(ctx context.Context, movieID uint) ([]*model.ReviewThread, error) {
	top, err := s.ListTopLevel(ctx, movieID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(top))
	for _, r := range top {
		ids = append(ids, r.ID)
	}
	replies, err := s.reviews.ListRepliesFor(ctx, ids)
	if err != nil {
		return nil, storageError("查询回复", err)
	}

	threads := make([]*model.ReviewThread, 0, len(top))
	for _, r := range top {
		children := replies[r.ID]
		if children == nil {
			children = []*model.Review{}
		}
		threads = append(threads, &model.ReviewThread{Review: *r, Replies: children})
	}
	return threads, nil
}
