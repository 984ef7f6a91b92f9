package service

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

// RefreshService 定时重算全部影片的缓存平均分
type RefreshService struct {
	ratings  *RatingService
	interval time.Duration
	log      *log.Helper
}

// NewRefreshService 创建定时重算服务，interval <= 0 表示不启用
func NewRefreshService(ratings *RatingService, interval time.Duration, logger log.Logger) *RefreshService {
	return &RefreshService{
		ratings:  ratings,
		interval: interval,
		log:      log.NewHelper(log.With(logger, "module", "service/refresh")),
	}
}

// Enabled 是否配置了重算间隔
func (s *RefreshService) Enabled() bool {
	return s.interval > 0
}

// Start 在后台运行，ctx 取消后退出
func (s *RefreshService) Start(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	go s.Run(ctx)
}

// Run 启动时先执行一次，之后按间隔执行，直到 ctx 取消
func (s *RefreshService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *RefreshService) runOnce(ctx context.Context) {
	start := time.Now()
	n, err := s.ratings.RecomputeAll(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.WithContext(ctx).Errorf("重算平均分失败（已处理 %d 部）: %v", n, err)
		}
		return
	}
	s.log.WithContext(ctx).Debugf("重算 %d 部影片，耗时 %s", n, time.Since(start))
}
