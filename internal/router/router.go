package router

import (
	"encoding/gob"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/user/moviesphere/internal/handler"
	"github.com/user/moviesphere/internal/middleware"
	"github.com/user/moviesphere/internal/model"
)

// New 创建 Gin 引擎：安装全局中间件与 Session，并注册路由
func New(h *handler.Handler, logger log.Logger) *gin.Engine {
	// 注册 Session 模型
	gob.Register(model.SessionUser{})

	if h.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	// 评分按客户端地址去重，只采信已配置代理转发的来源头
	if err := r.SetTrustedProxies(h.Config.TrustedProxies); err != nil {
		log.NewHelper(logger).Errorf("设置可信代理失败: %v", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 设置 Session 中间件
	store := cookie.NewStore([]byte(h.Config.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 天
		HttpOnly: true,
		Secure:   h.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("moviesphere", store))

	r.Use(middleware.Security())
	r.Use(middleware.CORS())

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	secret := h.Config.AppSecret

	// 健康检查
	r.GET("/health", h.Health)

	// ==================== 认证 ====================
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}

	// ==================== 用户中心（需要登录）====================
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.RequireAuth(secret))
	{
		dashboard.GET("/profile", h.Profile)
		dashboard.POST("/profile", h.UpdateProfile)
		dashboard.POST("/password", h.UpdatePassword)
	}

	// ==================== API ====================
	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(secret))
	{
		api.GET("/movies", h.ListMovies)
		api.GET("/movies/search", h.Search)
		api.GET("/movies/facets", h.Facets)
		api.GET("/movies/popular", h.Popular)
		api.GET("/movies/editors-choice", h.EditorsChoice)
		api.GET("/movies/random", h.RandomMovie)
		api.GET("/movies/:slug", h.MovieDetail)
		api.POST("/movies/:slug", h.SubmitDetail)
		api.GET("/movies/:slug/actors", h.MovieActors)

		api.GET("/genres", h.Genres)
		api.GET("/actors/:id", h.Actor)

		api.POST("/ratings", h.SubmitRating)
		api.GET("/ratings", h.GetRating)

		api.GET("/reviews/:id", h.MovieReviews)
		api.GET("/reviews/:id/replies", h.Replies)
	}

	// 写操作需要登录
	member := r.Group("/api")
	member.Use(middleware.RequireAuth(secret))
	{
		member.POST("/reviews/:id", h.PostReview)
		member.POST("/interactions/:movieId/:kind", h.ToggleInteraction)
		member.GET("/me/:kind", h.ListInteractions)
	}
}
