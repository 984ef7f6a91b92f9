package repository

import (
	"context"
	"errors"

	"github.com/user/moviesphere/internal/model"
	"gorm.io/gorm"
)

// ReviewRepository 影评仓库
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建影评仓库
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create 保存影评
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByID 根据 ID 查找影评，不存在时返回 nil
func (r *ReviewRepository) FindByID(ctx context.Context, id uint) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListTopLevel 影片的顶层影评，按发表顺序
func (r *ReviewRepository) ListTopLevel(ctx context.Context, movieID uint) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.WithContext(ctx).
		Where("movie_id = ? AND parent_id IS NULL", movieID).
		Order("id ASC").
		Find(&reviews).Error
	return reviews, err
}

// ListReplies 某条影评的直接回复
func (r *ReviewRepository) ListReplies(ctx context.Context, parentID uint) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("id ASC").
		Find(&reviews).Error
	return reviews, err
}

// ListRepliesFor 批量获取多条影评的直接回复，按父评论分组
func (r *ReviewRepository) ListRepliesFor(ctx context.Context, parentIDs []uint) (map[uint][]*model.Review, error) {
	grouped := make(map[uint][]*model.Review, len(parentIDs))
	if len(parentIDs) == 0 {
		return grouped, nil
	}
	var reviews []*model.Review
	err := r.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("id ASC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	for _, rv := range reviews {
		grouped[*rv.ParentID] = append(grouped[*rv.ParentID], rv)
	}
	return grouped, nil
}

// CountByMovie 统计影片的影评总数（含回复）
func (r *ReviewRepository) CountByMovie(ctx context.Context, movieID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).Where("movie_id = ?", movieID).Count(&count).Error
	return count, err
}
