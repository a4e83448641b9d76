package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appsvc "docuchat/internal/app"
	"docuchat/internal/model"
	"docuchat/internal/transport/http/response"
)

type SessionHandler struct {
	store *appsvc.ChatStoreService
}

type SaveChatRequest struct {
	ChatID   string              `json:"chat_id" binding:"required"`
	ChatName string              `json:"chat_name"`
	Messages []model.ChatMessage `json:"messages"`
	PDFName  string              `json:"pdf_name"`
	PDFPath  string              `json:"pdf_path"`
	PDFUUID  string              `json:"pdf_uuid"`
}

type DeleteChatRequest struct {
	ChatID string `json:"chat_id" binding:"required"`
}

func NewSessionHandler(store *appsvc.ChatStoreService) *SessionHandler {
	return &SessionHandler{store: store}
}

func (h *SessionHandler) Load(c *gin.Context) {
	records, err := h.store.LoadChats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *SessionHandler) Save(c *gin.Context) {
	var req SaveChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	err := h.store.SaveChat(c.Request.Context(), appsvc.SaveChatInput{
		ChatID:   req.ChatID,
		ChatName: req.ChatName,
		Messages: req.Messages,
		PDFName:  req.PDFName,
		PDFPath:  req.PDFPath,
		PDFUUID:  req.PDFUUID,
	})
	if err != nil {
		if errors.Is(err, appsvc.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	response.Message(c, "Chat saved successfully")
}

func (h *SessionHandler) Delete(c *gin.Context) {
	var req DeleteChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.store.DeleteChat(c.Request.Context(), req.ChatID); err != nil {
		switch {
		case errors.Is(err, appsvc.ErrChatNotFound):
			response.Error(c, http.StatusNotFound, "Chat not found")
		case errors.Is(err, appsvc.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	response.Message(c, "Chat deleted successfully")
}
