package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moviesphere/internal/middleware"
	"github.com/user/moviesphere/internal/service"
	"github.com/user/moviesphere/internal/utils"
)

// reviewRequest 评论请求，email 缺省时使用登录邮箱
type reviewRequest struct {
	Email    string `form:"email" json:"email"`
	Text     string `form:"text" json:"text"`
	ParentID *uint  `form:"parent_id" json:"parent_id"`
}

// PostReview 发表评论或回复
func (h *Handler) PostReview(c *gin.Context) {
	movieID, ok := paramID(c, "id")
	if !ok {
		utils.BadRequest(c, "无效的影片 ID")
		return
	}
	var req reviewRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}
	if req.Email == "" {
		req.Email = middleware.GetEmail(c)
	}
	// 表单中的 parent_id=0 视为顶层评论
	if req.ParentID != nil && *req.ParentID == 0 {
		req.ParentID = nil
	}

	review, err := h.Services.Review.PostReview(c.Request.Context(), service.ReviewInput{
		MovieID:  movieID,
		UserID:   middleware.GetUserID(c),
		Email:    req.Email,
		Text:     req.Text,
		ParentID: req.ParentID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Created(c, review)
}

// MovieReviews 影片的顶层评论及回复
func (h *Handler) MovieReviews(c *gin.Context) {
	movieID, ok := paramID(c, "id")
	if !ok {
		utils.BadRequest(c, "无效的影片 ID")
		return
	}
	threads, err := h.Services.Review.Threads(c.Request.Context(), movieID)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, threads)
}

// Replies 一条评论的直接回复
func (h *Handler) Replies(c *gin.Context) {
	reviewID, ok := paramID(c, "id")
	if !ok {
		utils.BadRequest(c, "无效的评论 ID")
		return
	}
	replies, err := h.Services.Review.ListReplies(c.Request.Context(), reviewID)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, replies)
}
