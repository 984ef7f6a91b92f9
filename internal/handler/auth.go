package handler

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/user/moviesphere/internal/middleware"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/utils"
)

// registerRequest 注册请求
type registerRequest struct {
	Email           string `form:"email" json:"email"`
	Username        string `form:"username" json:"username"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// loginRequest 登录请求
type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Register 注册并直接登录
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}

	user, err := h.Services.Account.Register(c.Request.Context(), req.Email, req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.signIn(c, user); err != nil {
		h.fail(c, err)
		return
	}
	utils.Created(c, user)
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "参数错误")
		return
	}

	user, err := h.Services.Account.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.signIn(c, user); err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, user)
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)

	// 清理 Session
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		h.fail(c, err)
		return
	}
	utils.SuccessWithMessage(c, "已退出登录", nil)
}

// signIn 签发 JWT Cookie 并把用户信息写入 Session
func (h *Handler) signIn(c *gin.Context, user *model.User) error {
	token, err := middleware.GenerateToken(user.ID, user.Email, user.Role, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		return err
	}
	middleware.SetTokenCookie(c, token, h.Config.JWTExpiry)
	return saveSessionUser(c, user)
}
