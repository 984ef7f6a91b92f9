package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/service"
	"github.com/user/moviesphere/internal/utils"
)

// ListMovies 影片列表，支持分类、类型、年份与关键词筛选
// 多个类型或年份可重复传参，也可用逗号分隔
func (h *Handler) ListMovies(c *gin.Context) {
	filter := model.MovieFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Genres:   splitValues(c.QueryArray("genre")),
	}
	for _, y := range splitValues(c.QueryArray("year")) {
		if year, err := strconv.Atoi(y); err == nil {
			filter.Years = append(filter.Years, year)
		}
	}

	page, err := h.Services.Catalog.ListMovies(c.Request.Context(), filter, queryInt(c, "page", 1))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, page)
}

// Search 关键词搜索
func (h *Handler) Search(c *gin.Context) {
	page, err := h.Services.Catalog.Search(c.Request.Context(), c.Query("q"), queryInt(c, "page", 1))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, page)
}

// Facets 列表页筛选项
func (h *Handler) Facets(c *gin.Context) {
	facets, err := h.Services.Catalog.Facets(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, facets)
}

// Popular 热门榜（按实时平均分）
func (h *Handler) Popular(c *gin.Context) {
	ctx := c.Request.Context()

	// 传 limit 时返回前 N 部，否则分页
	if limit := queryInt(c, "limit", 0); limit > 0 {
		movies, err := h.Services.Rating.PopularMovies(ctx, limit)
		if err != nil {
			h.fail(c, err)
			return
		}
		utils.Success(c, movies)
		return
	}

	page, err := h.Services.Rating.ListPopular(ctx, queryInt(c, "page", 1), queryInt(c, "page_size", 0))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, page)
}

// EditorsChoice 编辑精选
func (h *Handler) EditorsChoice(c *gin.Context) {
	movies, err := h.Services.Catalog.EditorsChoice(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, movies)
}

// RandomMovie 随机热门影片
func (h *Handler) RandomMovie(c *gin.Context) {
	movie, err := h.Services.Detail.RandomPopular(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if movie == nil {
		utils.NotFound(c, "暂无热门影片")
		return
	}
	utils.Success(c, movie)
}

// MovieDetail 影片详情
func (h *Handler) MovieDetail(c *gin.Context) {
	detail, err := h.Services.Detail.MovieDetail(c.Request.Context(), c.Param("slug"), h.viewer(c),
		queryInt(c, "season", 0), queryInt(c, "episode", 0))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, detail)
}

// detailForm 详情页合并提交的表单
type detailForm struct {
	Star       *int `form:"star" json:"star"`
	IsFavorite bool `form:"is_favorite" json:"is_favorite"`
	IsWatched  bool `form:"is_watched" json:"is_watched"`
	IsPlanned  bool `form:"is_planned" json:"is_planned"`
}

// SubmitDetail 详情页提交评分与互动状态
func (h *Handler) SubmitDetail(c *gin.Context) {
	var req detailForm
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}

	avg, err := h.Services.Detail.SubmitDetail(c.Request.Context(), c.Param("slug"), h.viewer(c), service.DetailForm{
		Star:     req.Star,
		Favorite: req.IsFavorite,
		Watched:  req.IsWatched,
		Planned:  req.IsPlanned,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, gin.H{"average_rating": avg})
}

// MovieActors 影片演员表
func (h *Handler) MovieActors(c *gin.Context) {
	page, err := h.Services.Catalog.MovieActors(c.Request.Context(), c.Param("slug"), c.Query("search"), queryInt(c, "page", 1))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, page)
}

// Genres 类型列表
func (h *Handler) Genres(c *gin.Context) {
	page, err := h.Services.Catalog.Genres(c.Request.Context(), queryInt(c, "page", 1))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, page)
}

// Actor 演员详情
func (h *Handler) Actor(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		utils.BadRequest(c, "无效的演员 ID")
		return
	}
	detail, err := h.Services.Catalog.Actor(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, detail)
}

// splitValues 展开逗号分隔的多值参数并去掉空值
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
