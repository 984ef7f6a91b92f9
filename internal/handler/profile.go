package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moviesphere/internal/middleware"
	"github.com/user/moviesphere/internal/utils"
)

// profileRequest 个人资料修改
type profileRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Phone    string `form:"phone" json:"phone"`
}

// passwordRequest 修改密码
type passwordRequest struct {
	CurrentPassword string `form:"current_password" json:"current_password"`
	NewPassword     string `form:"new_password" json:"new_password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Profile 个人资料
func (h *Handler) Profile(c *gin.Context) {
	user, err := h.Services.Account.Profile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	su, _ := sessionUser(c)
	utils.Success(c, gin.H{
		"user":    user,
		"session": su,
	})
}

// UpdateProfile 修改用户名、邮箱与手机号，同步更新 Session
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}

	user, err := h.Services.Account.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), req.Username, req.Email, req.Phone)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := saveSessionUser(c, user); err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessWithMessage(c, "资料已更新", user)
}

// UpdatePassword 修改密码
func (h *Handler) UpdatePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}

	err := h.Services.Account.ChangePassword(c.Request.Context(), middleware.GetUserID(c),
		req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessWithMessage(c, "密码已修改", nil)
}
