package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"llm-council/internal/council"
	"llm-council/internal/store"
)

// SendMessageRequest is the body for both message endpoints. Images are
// base64 data URLs.
type SendMessageRequest struct {
	Content string   `json:"content" binding:"required"`
	Images  []string `json:"images"`
}

// SendMessageResponse is the batch endpoint's aggregate result.
type SendMessageResponse struct {
	Stage1   []council.ModelAnswer       `json:"stage1"`
	Stage2   []council.RankingSubmission `json:"stage2"`
	Stage3   council.ChairmanSynthesis   `json:"stage3"`
	Metadata council.Metadata            `json:"metadata"`
}

// prepareRun parses the request, verifies the conversation, and records
// the user message. It reports whether this is the conversation's first
// message.
func (s *Server) prepareRun(c *gin.Context) (request SendMessageRequest, conversation *store.Conversation, firstMessage bool, ok bool) {
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request: %v", err),
		})
		return request, nil, false, false
	}

	conversation, err := s.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to get conversation: %v", err),
		})
		return request, nil, false, false
	}
	if conversation == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return request, nil, false, false
	}

	return request, conversation, len(conversation.Messages) == 0, true
}

// sendMessage runs the full council synchronously and returns all stages
// at once. The streaming variant is sendMessageStream.
func (s *Server) sendMessage(c *gin.Context) {
	request, conversation, firstMessage, ok := s.prepareRun(c)
	if !ok {
		return
	}

	if err := s.store.AddUserMessage(conversation.ID, request.Content, request.Images); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to add user message: %v", err),
		})
		return
	}

	pipeline := council.New(s.gateway, s.config.Snapshot())
	result, err := pipeline.Run(c.Request.Context(), council.Query{
		Text:          request.Content,
		Images:        request.Images,
		GenerateTitle: firstMessage,
	}, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Council process failed: %v", err),
		})
		return
	}

	s.saveTitle(conversation.ID, firstMessage, result.Title)
	if err := s.store.AddAssistantMessage(conversation.ID, result); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to add assistant message: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, SendMessageResponse{
		Stage1: result.Stage1,
		Stage2: result.Stage2,
		Stage3: result.Stage3,
		Metadata: council.Metadata{
			LabelToModel:      result.LabelToModel,
			AggregateRankings: result.AggregateRankings,
		},
	})
}

// sendMessageStream runs the council while relaying every pipeline event
// as an SSE frame. Event order per run: stage1_start, stage1_response per
// model, stage1_complete, the stage 2 and 3 counterparts, optional
// title_complete, then a single terminal complete (or error).
func (s *Server) sendMessageStream(c *gin.Context) {
	request, conversation, firstMessage, ok := s.prepareRun(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	if err := s.store.AddUserMessage(conversation.ID, request.Content, request.Images); err != nil {
		sendSSEError(c, fmt.Sprintf("Failed to add user message: %v", err))
		return
	}

	log.Printf("[STREAM] New message in %.8s... (images: %d, first: %v)",
		conversation.ID, len(request.Images), firstMessage)

	pipeline := council.New(s.gateway, s.config.Snapshot())
	result, err := pipeline.Run(c.Request.Context(), council.Query{
		Text:          request.Content,
		Images:        request.Images,
		GenerateTitle: firstMessage,
	}, func(event council.Event) {
		sendSSEEvent(c, event)
	})
	if err != nil {
		log.Printf("[STREAM] Error: %v", err)
		sendSSEError(c, err.Error())
		return
	}

	s.saveTitle(conversation.ID, firstMessage, result.Title)
	if err := s.store.AddAssistantMessage(conversation.ID, result); err != nil {
		sendSSEError(c, fmt.Sprintf("Failed to save message: %v", err))
		return
	}

	sendSSEEvent(c, council.Event{Type: council.EventComplete})
}

// saveTitle persists the generated title, falling back to the default when
// generation produced nothing.
func (s *Server) saveTitle(conversationID string, firstMessage bool, title string) {
	if !firstMessage {
		return
	}
	if title == "" {
		title = "New Conversation"
	}
	if err := s.store.UpdateTitle(conversationID, title); err != nil {
		log.Printf("Failed to update title: %v", err)
	}
}
