package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/moviesphere/internal/utils"
)

// ratingRequest 评分请求
type ratingRequest struct {
	MovieID uint `form:"movie_id" json:"movie_id" binding:"required"`
	Star    *int `form:"star" json:"star" binding:"required"`
}

// SubmitRating 提交评分，以客户端地址作为评分来源
// 提交后立即重算平均分并返回
func (h *Handler) SubmitRating(c *gin.Context) {
	var req ratingRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}

	ctx := c.Request.Context()
	origin := c.ClientIP()
	if _, err := h.Services.Rating.SubmitRating(ctx, req.MovieID, origin, *req.Star); err != nil {
		h.fail(c, err)
		return
	}
	avg, err := h.Services.Rating.RecomputeAverage(ctx, req.MovieID)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Created(c, gin.H{
		"rating":         *req.Star,
		"average_rating": avg,
	})
}

// GetRating 当前访问者对影片的评分，未评分时 rating 为 null
func (h *Handler) GetRating(c *gin.Context) {
	if id, err := strconv.ParseUint(c.Query("movie_id"), 10, 64); err != nil || id == 0 {
		utils.BadRequest(c, "无效的影片 ID")
		return
	}

	ctx := c.Request.Context()
	movie, err := h.Services.Catalog.FindMovie(ctx, c.Query("movie_id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	star, ok, err := h.Services.Rating.RatingForOrigin(ctx, movie.ID, c.ClientIP())
	if err != nil {
		h.fail(c, err)
		return
	}
	var rating *int
	if ok {
		rating = &star
	}
	utils.Success(c, gin.H{
		"movie_id":       movie.ID,
		"rating":         rating,
		"average_rating": movie.AverageRating,
	})
}
