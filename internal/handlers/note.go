package handlers

import (
	"errors"
	"net/http"

	dom "Notes/internal/domain"
	"Notes/internal/dto"
	"Notes/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgCreated  = "Note created successfully"
	msgUpdated  = "Note updated successfully"
	msgDeleted  = "Note deleted successfully"
	msgNotFound = "Note not found"

	msgCreateRequired = "Title and content are required"
	msgUpdateRequired = "Title or content is required"
)

type NoteHandler struct {
	svc *service.NoteService
	log *zap.Logger
}

func NewNoteHandler(svc *service.NoteService, log *zap.Logger) *NoteHandler {
	return &NoteHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateNoteRequest  true  "Note body"
// @Success      201   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /notes [post]
func (h *NoteHandler) Create(c *gin.Context) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgCreateRequired})
		return
	}
	n, err := h.svc.Create(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		h.fail(c, err, msgCreateRequired, "Error creating note", "")
		return
	}
	c.JSON(http.StatusCreated, dto.MutationResponse{Message: msgCreated, NoteID: n.ID})
}

// List godoc
// @Summary      List all notes
// @Tags         notes
// @Produce      json
// @Success      200  {array}   dto.NoteResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "", "Error fetching notes", "")
		return
	}
	c.JSON(http.StatusOK, notesToResponses(list))
}

// GetByID godoc
// @Summary      Get a note by ID
// @Tags         notes
// @Produce      json
// @Param        note_id  path      string  true  "Note ID"
// @Success      200      {object}  dto.NoteResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /notes/{note_id} [get]
func (h *NoteHandler) GetByID(c *gin.Context) {
	id := c.Param("note_id")
	n, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "", "Error fetching note", id)
		return
	}
	c.JSON(http.StatusOK, noteToResponse(n))
}

// Update godoc
// @Summary      Update a note
// @Description  Only the supplied fields are changed.
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        note_id  path      string                 true  "Note ID"
// @Param        body     body      dto.UpdateNoteRequest  true  "Partial update"
// @Success      200      {object}  dto.MutationResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /notes/{note_id} [put]
func (h *NoteHandler) Update(c *gin.Context) {
	id := c.Param("note_id")
	var req dto.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msgUpdateRequired})
		return
	}
	if err := h.svc.Update(c.Request.Context(), id, req.Title, req.Content); err != nil {
		h.fail(c, err, msgUpdateRequired, "Error updating note", id)
		return
	}
	c.JSON(http.StatusOK, dto.MutationResponse{Message: msgUpdated, NoteID: id})
}

// Delete godoc
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Param        note_id  path      string  true  "Note ID"
// @Success      200      {object}  dto.MessageResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /notes/{note_id} [delete]
func (h *NoteHandler) Delete(c *gin.Context) {
	id := c.Param("note_id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "", "Error deleting note", id)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: msgDeleted})
}

// fail maps a service error onto the HTTP response. Storage errors are
// logged and replaced by serverMsg so driver details never reach clients.
func (h *NoteHandler) fail(c *gin.Context, err error, invalidMsg, serverMsg, id string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: invalidMsg})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: msgNotFound})
	default:
		fields := []zap.Field{zap.String("route", c.FullPath()), zap.Error(err)}
		if id != "" {
			fields = append(fields, zap.String("note_id", id))
		}
		if errors.Is(err, service.ErrDuplicateID) {
			h.log.Error("note id collision", fields...)
		} else {
			h.log.Error(serverMsg, fields...)
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: serverMsg})
	}
}

func noteToResponse(n dom.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
}

func notesToResponses(list []dom.Note) []dto.NoteResponse {
	out := make([]dto.NoteResponse, len(list))
	for i := range list {
		out[i] = noteToResponse(list[i])
	}
	return out
}
