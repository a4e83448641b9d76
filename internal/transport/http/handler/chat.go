package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	appsvc "docuchat/internal/app"
	"docuchat/internal/model"
	"docuchat/internal/transport/http/response"
)

type ChatHandler struct {
	answers *appsvc.AnswerService
}

type ChatRequest struct {
	// Message shapes are forwarded to the provider untouched.
	Messages json.RawMessage `json:"messages"`
}

type RAGChatRequest struct {
	Messages []model.ChatMessage `json:"messages" binding:"required"`
	PDFUUID  string              `json:"pdf_uuid" binding:"required"`
}

func NewChatHandler(answers *appsvc.AnswerService) *ChatHandler {
	return &ChatHandler{answers: answers}
}

// Chat streams plain-text completion deltas for the supplied message list.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	streamer, ok := newTextStreamer(c)
	if !ok {
		return
	}

	err := h.answers.StreamChat(c.Request.Context(), req.Messages, streamer.write)
	streamer.finish(c, err)
}

// RAGChat streams a grounded answer for the latest message, retrieving only
// chunks of the named document.
func (h *ChatHandler) RAGChat(c *gin.Context) {
	var req RAGChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	streamer, ok := newTextStreamer(c)
	if !ok {
		return
	}

	err := h.answers.StreamRAGChat(c.Request.Context(), req.Messages, req.PDFUUID, streamer.write)
	streamer.finish(c, err)
}

// textStreamer pushes raw text fragments to the client as they arrive from
// the provider, flushing after every fragment so nothing is buffered.
type textStreamer struct {
	c       *gin.Context
	flusher http.Flusher
	started bool
}

func newTextStreamer(c *gin.Context) (*textStreamer, bool) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.Error(c, http.StatusInternalServerError, "streaming not supported")
		return nil, false
	}
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	return &textStreamer{c: c, flusher: flusher}, true
}

func (s *textStreamer) write(chunk string) error {
	if _, err := s.c.Writer.WriteString(chunk); err != nil {
		return err
	}
	s.flusher.Flush()
	s.started = true
	return nil
}

// finish maps a pipeline error to a JSON error response if the stream never
// started; once bytes are on the wire, the error can only be logged.
func (s *textStreamer) finish(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if s.started {
		log.Printf("stream aborted mid-response: %v", err)
		return
	}
	if errors.Is(err, appsvc.ErrInvalidInput) {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	response.Error(c, http.StatusInternalServerError, err.Error())
}
