package service

import (
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/user/moviesphere/internal/repository"
	"github.com/user/moviesphere/internal/utils"
)

// Options 服务层可调参数
type Options struct {
	MoviesPerPage     int
	FacetTTL          time.Duration
	RecomputeInterval time.Duration
}

// Services 服务集合
type Services struct {
	Rating      *RatingService
	Interaction *InteractionService
	Review      *ReviewService
	Catalog     *CatalogService
	Detail      *DetailService
	Account     *AccountService
	Refresh     *RefreshService
}

// NewServices 按依赖顺序创建全部服务
func NewServices(repos *repository.Repositories, opts Options, logger log.Logger) *Services {
	if opts.FacetTTL <= 0 {
		opts.FacetTTL = 5 * time.Minute
	}
	facets := utils.NewMemoryCache(opts.FacetTTL, 2*opts.FacetTTL)

	rating := NewRatingService(repos, logger)
	interaction := NewInteractionService(repos, logger)
	review := NewReviewService(repos, logger)
	catalog := NewCatalogService(repos, rating, facets, opts.MoviesPerPage, logger)

	return &Services{
		Rating:      rating,
		Interaction: interaction,
		Review:      review,
		Catalog:     catalog,
		Detail:      NewDetailService(repos, catalog, rating, interaction, review, logger),
		Account:     NewAccountService(repos, logger),
		Refresh:     NewRefreshService(rating, opts.RecomputeInterval, logger),
	}
}
