package api_router

import (
	"github.com/haierkeys/note-share-service/internal/app"
	"github.com/haierkeys/note-share-service/internal/dto"
	pkgapp "github.com/haierkeys/note-share-service/pkg/app"
	"github.com/haierkeys/note-share-service/pkg/code"
	apperrors "github.com/haierkeys/note-share-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShareHandler note sharing API router handler
// ShareHandler 笔记分享 API 路由处理器
type ShareHandler struct {
	*Handler
}

// NewShareHandler creates ShareHandler instance
// NewShareHandler 创建 ShareHandler 实例
func NewShareHandler(a *app.App) *ShareHandler {
	return &ShareHandler{
		Handler: NewHandler(a),
	}
}

// Share grants read and append access to the named users
// @Summary Share note
// @Description Owner only. Every username must exist; unknown names fail the whole request and nothing is granted.
// @Description 仅所有者可操作，任一用户名不存在时整个请求失败且不做任何授权。
// @Tags Share
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param params body dto.NoteShareRequest true "Share Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 400 {object} pkgapp.Res "Shared Users Required"
// @Failure 403 {object} pkgapp.Res "Not Owner"
// @Failure 404 {object} pkgapp.Res "Note Or User Not Found"
// @Router /api/notes/share [post]
func (h *ShareHandler) Share(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteShareRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ShareHandler.Share.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	if err := h.App.ShareService.Share(ctx, uid, params); err != nil {
		h.logError(ctx, "ShareHandler.Share", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessNoteShare)
}

// Unshare revokes access from the named users
// @Summary Unshare note
// @Tags Share
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param params body dto.NoteUnshareRequest true "Unshare Parameters"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 403 {object} pkgapp.Res "Not Owner"
// @Router /api/notes/unshare [post]
func (h *ShareHandler) Unshare(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteUnshareRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ShareHandler.Unshare.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	if err := h.App.ShareService.Unshare(ctx, uid, params); err != nil {
		h.logError(ctx, "ShareHandler.Unshare", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessNoteUnshare)
}

// SharedUsers lists the users a note is shared with
// @Summary List shared users
// @Tags Share
// @Security UserAuthToken
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} pkgapp.Res{data=[]dto.NoteShareUserDTO} "Success"
// @Failure 403 {object} pkgapp.Res "Forbidden"
// @Router /api/notes/{id}/shares [get]
func (h *ShareHandler) SharedUsers(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteSharesRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ShareHandler.SharedUsers.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	users, err := h.App.ShareService.SharedUsers(ctx, uid, params.ID)
	if err != nil {
		h.logError(ctx, "ShareHandler.SharedUsers", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(users))
}
