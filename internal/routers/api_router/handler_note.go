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

// NoteHandler note API router handler
// NoteHandler 笔记 API 路由处理器
type NoteHandler struct {
	*Handler
}

// NewNoteHandler creates NoteHandler instance
// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{
		Handler: NewHandler(a),
	}
}

// Create creates a note owned by the caller
// @Summary Create note
// @Description Create a note. The caller becomes its owner and a "Note created" history entry is recorded.
// @Description 创建笔记，调用者成为所有者并记录创建历史。
// @Tags Note
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param params body dto.NoteCreateRequest true "Note Parameters"
// @Success 201 {object} pkgapp.Res{data=dto.NoteDTO} "Success"
// @Failure 400 {object} pkgapp.Res "Content Required"
// @Router /api/notes/create [post]
func (h *NoteHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Create.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	noteDTO, err := h.App.NoteService.Create(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessNoteCreate.WithData(noteDTO))
}

// Get returns a note the caller owns or is shared with
// @Summary Get note
// @Tags Note
// @Security UserAuthToken
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "Success"
// @Failure 403 {object} pkgapp.Res "Forbidden"
// @Failure 404 {object} pkgapp.Res "Note Not Found"
// @Router /api/notes/{id} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Get.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	noteDTO, err := h.App.NoteService.Get(ctx, uid, params.ID)
	if err != nil {
		h.logError(ctx, "NoteHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(noteDTO))
}

// Append appends a line to a note
// @Summary Append note content
// @Description Append text as a new line. Allowed for the owner and shared users.
// @Description 以新行追加内容，所有者与被分享用户均可操作。
// @Tags Note
// @Security UserAuthToken
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param params body dto.NoteAppendRequest true "Append Parameters"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "Success"
// @Failure 403 {object} pkgapp.Res "Forbidden"
// @Failure 404 {object} pkgapp.Res "Note Not Found"
// @Failure 409 {object} pkgapp.Res "Concurrent Modification"
// @Router /api/notes/{id} [put]
func (h *NoteHandler) Append(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteAppendRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Append.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	noteDTO, err := h.App.NoteService.AppendContent(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "NoteHandler.Append", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessNoteUpdate.WithData(noteDTO))
}

// Delete deletes a note with its history
// @Summary Delete note
// @Description Only the owner may delete. History entries and shares are removed with the note.
// @Description 仅所有者可删除，同时删除历史记录与分享关系。
// @Tags Note
// @Security UserAuthToken
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} pkgapp.Res "Success"
// @Failure 403 {object} pkgapp.Res "Forbidden"
// @Failure 404 {object} pkgapp.Res "Note Not Found"
// @Router /api/notes/{id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteDeleteRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Delete.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	if err := h.App.NoteService.Delete(ctx, uid, params.ID); err != nil {
		h.logError(ctx, "NoteHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessNoteDelete)
}

// List lists notes the caller owns or is shared with, newest first
// @Summary List notes
// @Tags Note
// @Security UserAuthToken
// @Produce json
// @Param page query int false "Page"
// @Param pageSize query int false "Page Size"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]dto.NoteDTO}} "Success"
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	uid := pkgapp.GetUID(c)
	ctx := c.Request.Context()

	pager := &pkgapp.Pager{Page: pkgapp.GetPage(c), PageSize: pkgapp.GetPageSize(c)}

	notes, count, err := h.App.NoteService.List(ctx, uid, pager)
	if err != nil {
		h.logError(ctx, "NoteHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, notes, int(count))
}
