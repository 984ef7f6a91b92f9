package handler

import (
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/user/moviesphere/internal/config"
	"github.com/user/moviesphere/internal/middleware"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/service"
	"github.com/user/moviesphere/internal/utils"
)

// Session 中保存用户信息的键
const sessionUserKey = "userinfo"

// Handler HTTP 处理器
type Handler struct {
	Services *service.Services
	Config   *config.Config
	log      *log.Helper
}

// NewHandler 创建处理器
func NewHandler(svcs *service.Services, cfg *config.Config, logger log.Logger) *Handler {
	return &Handler{
		Services: svcs,
		Config:   cfg,
		log:      log.NewHelper(log.With(logger, "module", "handler")),
	}
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	utils.Success(c, gin.H{"status": "ok", "site": h.Config.SiteName})
}

// fail 把业务错误转换为统一响应，未知错误记录日志后返回 500
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	e := errors.FromError(err)
	if e.Code >= 500 {
		h.log.WithContext(c.Request.Context()).Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.InternalServerError(c, "")
		return
	}
	utils.ErrorWithReason(c, int(e.Code), e.Reason, e.Message)
}

// viewer 当前访问者：登录用户与客户端地址
func (h *Handler) viewer(c *gin.Context) service.Viewer {
	return service.Viewer{
		UserID: middleware.GetUserID(c),
		Origin: c.ClientIP(),
	}
}

// sessionUser 读取 Session 中的用户信息
func sessionUser(c *gin.Context) (model.SessionUser, bool) {
	session := sessions.Default(c)
	su, ok := session.Get(sessionUserKey).(model.SessionUser)
	return su, ok
}

// saveSessionUser 写入 Session 中的用户信息
func saveSessionUser(c *gin.Context, user *model.User) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, model.SessionUser{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	})
	return session.Save()
}

// queryInt 读取整数查询参数，缺省或非法时返回 def
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// paramID 读取路径中的 ID 参数
func paramID(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
