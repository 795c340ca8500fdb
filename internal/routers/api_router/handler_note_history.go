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

// NoteHistoryHandler note history API router handler
// NoteHistoryHandler 笔记历史 API 路由处理器
type NoteHistoryHandler struct {
	*Handler
}

// NewNoteHistoryHandler creates NoteHistoryHandler instance
// NewNoteHistoryHandler 创建 NoteHistoryHandler 实例
func NewNoteHistoryHandler(a *app.App) *NoteHistoryHandler {
	return &NoteHistoryHandler{
		Handler: NewHandler(a),
	}
}

// List returns the change history of a note in creation order
// @Summary Note version history
// @Description Entries are ordered oldest first. Callers without read access get 403.
// @Description 按创建顺序返回历史记录，无读取权限返回 403。
// @Tags Note
// @Security UserAuthToken
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} pkgapp.Res{data=[]dto.NoteHistoryDTO} "Success"
// @Failure 403 {object} pkgapp.Res "Forbidden"
// @Failure 404 {object} pkgapp.Res "Note Not Found"
// @Router /api/notes/version-history/{id} [get]
func (h *NoteHistoryHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteHistoryListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHistoryHandler.List.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	list, err := h.App.NoteHistoryService.List(ctx, uid, params.ID)
	if err != nil {
		h.logError(ctx, "NoteHistoryHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(list))
}
