package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/moviesphere/internal/middleware"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/utils"
)

// 列表路径中的复数写法
var flagLists = map[string]model.InteractionKind{
	"favorites": model.KindFavorite,
	"watched":   model.KindWatched,
	"planned":   model.KindPlanned,
}

// ToggleInteraction 切换收藏 / 已看 / 想看
func (h *Handler) ToggleInteraction(c *gin.Context) {
	movieID, ok := paramID(c, "movieId")
	if !ok {
		utils.BadRequest(c, "无效的影片 ID")
		return
	}
	kind := model.InteractionKind(c.Param("kind"))

	state, err := h.Services.Interaction.Toggle(c.Request.Context(), middleware.GetUserID(c), movieID, kind)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, gin.H{kind.Column(): state})
}

// ListInteractions 当前用户标记过的影片
func (h *Handler) ListInteractions(c *gin.Context) {
	kind, ok := flagLists[c.Param("kind")]
	if !ok {
		if kind, ok = model.ParseInteractionKind(c.Param("kind")); !ok {
			utils.NotFound(c, "")
			return
		}
	}

	page, err := h.Services.Interaction.ListByFlagPage(c.Request.Context(), middleware.GetUserID(c), kind,
		queryInt(c, "page", 1), queryInt(c, "page_size", 0))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, page)
}
