// Package server exposes the council engine over HTTP: a REST surface for
// conversations and configuration, a batch message endpoint, and an SSE
// streaming endpoint that relays pipeline progress events.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"llm-council/internal/config"
	"llm-council/internal/council"
	"llm-council/internal/store"
	"llm-council/internal/webfetch"
)

// Server wires the HTTP handlers to their collaborators.
type Server struct {
	config  *config.Manager
	store   *store.Store
	gateway council.Gateway
	fetcher *webfetch.Fetcher

	corsAllowedOrigins []string
}

// New creates a server. corsAllowedOrigins may be empty, in which case any
// localhost origin is allowed for development.
func New(cfg *config.Manager, st *store.Store, gw council.Gateway, fetcher *webfetch.Fetcher, corsAllowedOrigins []string) *Server {
	return &Server{
		config:             cfg,
		store:              st,
		gateway:            gw,
		fetcher:            fetcher,
		corsAllowedOrigins: corsAllowedOrigins,
	}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, config.MaxRequestBodySize)
		c.Next()
	})

	router.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if len(s.corsAllowedOrigins) > 0 {
				for _, allowed := range s.corsAllowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			}
			// Development default: any localhost/127.0.0.1 origin.
			return len(origin) >= 16 && origin[:16] == "http://localhost" ||
				len(origin) >= 14 && origin[:14] == "http://127.0.0"
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
	}))

	router.GET("/", s.healthCheck)
	router.GET("/api/conversations", s.listConversations)
	router.POST("/api/conversations", s.createConversation)
	router.GET("/api/conversations/:id", s.getConversation)
	router.POST("/api/conversations/:id/message", s.sendMessage)
	router.POST("/api/conversations/:id/message/stream", s.sendMessageStream)
	router.GET("/api/config", s.getConfig)
	router.PUT("/api/config", s.updateConfig)
	router.POST("/api/fetch-url", s.fetchURL)

	return router
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "LLM Council API",
	})
}

func (s *Server) listConversations(c *gin.Context) {
	conversations, err := s.store.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to list conversations: %v", err),
		})
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func (s *Server) createConversation(c *gin.Context) {
	conversation, err := s.store.Create(uuid.New().String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to create conversation: %v", err),
		})
		return
	}
	c.JSON(http.StatusOK, conversation)
}

func (s *Server) getConversation(c *gin.Context) {
	conversation, err := s.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to get conversation: %v", err),
		})
		return
	}
	if conversation == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}
	c.JSON(http.StatusOK, conversation)
}

func (s *Server) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.config.Snapshot())
}

func (s *Server) updateConfig(c *gin.Context) {
	var update config.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request: %v", err),
		})
		return
	}

	updated, err := s.config.Apply(update)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) fetchURL(c *gin.Context) {
	var request struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request: %v", err),
		})
		return
	}

	content, err := s.fetcher.Content(c.Request.Context(), request.URL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to fetch URL content: %v", err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

// sendSSEEvent writes one SSE frame: "data: <JSON>\n\n".
func sendSSEEvent(c *gin.Context, event council.Event) {
	jsonData, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal SSE event: %v", err)
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", jsonData)
	c.Writer.Flush()
}

// sendSSEError emits the single terminal error event.
func sendSSEError(c *gin.Context, message string) {
	sendSSEEvent(c, council.Event{Type: council.EventError, Message: message})
}
