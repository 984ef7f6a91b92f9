package service

import (
	"fmt"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/user/moviesphere/internal/model"
	"github.com/user/moviesphere/internal/repository"
)

// 业务错误，errors.Is 按 code + reason 匹配
var (
	ErrMovieNotFound  = errors.NotFound("MOVIE_NOT_FOUND", "影片不存在")
	ErrReviewNotFound = errors.NotFound("REVIEW_NOT_FOUND", "评论不存在")
	ErrActorNotFound  = errors.NotFound("ACTOR_NOT_FOUND", "演员不存在")
	ErrUserNotFound   = errors.NotFound("USER_NOT_FOUND", "用户不存在")

	ErrInvalidStar     = errors.BadRequest("INVALID_STAR", fmt.Sprintf("评分必须在 %d 到 %d 之间", model.MinStar, model.MaxStar))
	ErrInvalidOrigin   = errors.BadRequest("INVALID_ORIGIN", "缺少评分来源")
	ErrInvalidKind     = errors.BadRequest("INVALID_KIND", "未知的互动类型")
	ErrInvalidEmail    = errors.BadRequest("INVALID_EMAIL", "邮箱格式不正确")
	ErrEmptyReview     = errors.BadRequest("EMPTY_REVIEW", "评论内容不能为空")
	ErrReviewTooLong   = errors.BadRequest("REVIEW_TOO_LONG", "评论内容过长")
	ErrParentMismatch  = errors.BadRequest("PARENT_MOVIE_MISMATCH", "回复的评论不属于该影片")
	ErrEmptyQuery      = errors.BadRequest("EMPTY_QUERY", "搜索关键词不能为空")
	ErrInvalidTitle    = errors.BadRequest("INVALID_TITLE", "标题不能为空")
	ErrInvalidUsername = errors.BadRequest("INVALID_USERNAME", "用户名不能为空")
	ErrInvalidPhone    = errors.BadRequest("INVALID_PHONE", "手机号格式不正确")
	ErrWeakPassword    = errors.BadRequest("WEAK_PASSWORD", "密码至少 6 位")
	ErrWrongPassword   = errors.BadRequest("WRONG_PASSWORD", "原密码错误")
	ErrPasswordDiffers = errors.BadRequest("PASSWORD_MISMATCH", "两次输入的密码不一致")

	ErrBadCredentials = errors.Unauthorized("BAD_CREDENTIALS", "邮箱或密码错误")
	ErrLoginRequired  = errors.Unauthorized("LOGIN_REQUIRED", "请先登录")

	ErrConflict      = errors.Conflict("CONFLICT", "数据已存在")
	ErrEmailTaken    = errors.Conflict("EMAIL_TAKEN", "该邮箱已被注册")
	ErrUsernameTaken = errors.Conflict("USERNAME_TAKEN", "该用户名已被使用")
)

// storageError 将唯一约束冲突转换为 ErrConflict，其余错误附加上下文后原样返回
func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	if repository.IsUniqueViolation(err) {
		return ErrConflict.WithCause(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
