package main

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hdb-analytics/resale-chatbot/internal/chatlog"
	"github.com/hdb-analytics/resale-chatbot/internal/model"
)

// fallbackExamples is the final hardcoded reply when even the fallback
// advisor fails.
const fallbackExamples = "I'm sorry, I don't have data for that request.\n\nTry:\n- Show me 4-room flats in Tampines\n- Predict 4-room price in Bedok in 10 years\n- Compare Ang Mo Kio and Bedok\n\nI've logged your request!"

// The handler's collaborators, kept as small interfaces so the
// pipeline can be exercised with stubs.
type intentResolver interface {
	Resolve(ctx context.Context, message string) (*model.ParsedIntent, error)
}

type queryDispatcher interface {
	Dispatch(ctx context.Context, parsed *model.ParsedIntent) (*model.QueryResult, error)
}

type answerComposer interface {
	Compose(ctx context.Context, message string, parsed *model.ParsedIntent, data *model.QueryResult) (string, error)
	AdviseAlternatives(ctx context.Context, message string, availableTowns []string) (string, error)
}

type chatLogger interface {
	LogSuccess(ctx context.Context, rec chatlog.SuccessRecord) error
	LogFailure(ctx context.Context, rec chatlog.FailureRecord) error
	Ping(ctx context.Context) error
}

type townSource interface {
	AvailableTowns(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// ChatHandler is the HTTP-facing coordinator: it validates input, runs
// resolve, dispatch, compose in sequence, persists the interaction log
// best-effort, and converts every pipeline failure into a uniform
// 200-with-success:false envelope.
type ChatHandler struct {
	resolver   intentResolver
	dispatcher queryDispatcher
	composer   answerComposer
	logs       chatLogger
	towns      townSource
	jwtSecret  string
}

func NewChatHandler(resolver intentResolver, dispatcher queryDispatcher, composer answerComposer, logs chatLogger, towns townSource, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		resolver:   resolver,
		dispatcher: dispatcher,
		composer:   composer,
		logs:       logs,
		towns:      towns,
		jwtSecret:  jwtSecret,
	}
}

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// HandleChat is POST /api/chatbot.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message required"})
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = h.userIDFromToken(c)
	}

	ctx := c.Request.Context()
	log.Printf("chat message (user %q): %.60s", userID, req.Message)

	parsed, err := h.resolver.Resolve(ctx, req.Message)
	if err != nil {
		h.respondFailure(c, userID, req.Message, nil, err)
		return
	}

	data, err := h.dispatcher.Dispatch(ctx, parsed)
	if err != nil {
		h.respondFailure(c, userID, req.Message, parsed, err)
		return
	}

	answer, err := h.composer.Compose(ctx, req.Message, parsed, data)
	if err != nil {
		h.respondFailure(c, userID, req.Message, parsed, err)
		return
	}

	// Logging is best-effort: a store failure is operator-visible only
	// and never changes the response.
	dataCount := 0
	if data.Count != nil {
		dataCount = *data.Count
	}
	if err := h.logs.LogSuccess(ctx, chatlog.SuccessRecord{
		UserID:    userID,
		Message:   req.Message,
		Intent:    parsed.Intent,
		Filters:   parsed.Filters,
		Answer:    answer,
		DataType:  data.Type,
		DataCount: dataCount,
		CreatedAt: time.Now(),
		Success:   true,
	}); err != nil {
		log.Printf("WARNING: failed to log chat: %v", err)
	}

	var responseData *model.QueryResult
	if parsed.Intent != model.IntentGeneral {
		responseData = data
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"answer":  answer,
		"intent":  parsed.Intent,
		"filters": parsed.Filters,
		"data":    responseData,
		"logged":  true,
	})
}

// respondFailure is the failure branch of the state machine: record the
// interaction for human review, try the fallback advisor, and always
// answer 200 with success:false.
func (h *ChatHandler) respondFailure(c *gin.Context, userID, message string, parsed *model.ParsedIntent, cause error) {
	log.Printf("chat pipeline failed: %v", cause)
	ctx := c.Request.Context()

	rec := chatlog.FailureRecord{
		UserID:       userID,
		Message:      message,
		Intent:       "unknown",
		ErrorMessage: cause.Error(),
		CreatedAt:    time.Now(),
		Status:       chatlog.StatusPendingReview,
	}
	if parsed != nil {
		rec.Intent = parsed.Intent
		rec.Filters = parsed.Filters
	}
	if err := h.logs.LogFailure(ctx, rec); err != nil {
		log.Printf("WARNING: failed to log failed query: %v", err)
	}

	errorMessage := fallbackExamples
	if towns, err := h.towns.AvailableTowns(ctx); err == nil {
		if alt, err := h.composer.AdviseAlternatives(ctx, message, towns); err == nil {
			errorMessage = alt
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"error":   errorMessage,
		"logged":  true,
	})
}

// userIDFromToken extracts user_id from an optional bearer token.
// Absence or an invalid token is not an error; the request simply
// proceeds anonymously.
func (h *ChatHandler) userIDFromToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	switch v := claims["user_id"].(type) {
	case string:
		return v
	case float64:
		return strconv.Itoa(int(v))
	}
	return ""
}

// HandleTestConnections is GET /api/chatbot/test-connections: a
// diagnostic that reports connectivity of both stores.
func (h *ChatHandler) HandleTestConnections(c *gin.Context) {
	ctx := c.Request.Context()

	supabase := gin.H{"connected": false}
	if err := h.towns.Ping(ctx); err != nil {
		supabase["error"] = err.Error()
	} else {
		supabase["connected"] = true
	}

	mongodb := gin.H{"connected": false}
	if err := h.logs.Ping(ctx); err != nil {
		mongodb["error"] = err.Error()
	} else {
		mongodb["connected"] = true
	}

	c.JSON(http.StatusOK, gin.H{
		"success": supabase["connected"] == true && mongodb["connected"] == true,
		"connections": gin.H{
			"supabase": supabase,
			"mongodb":  mongodb,
		},
	})
}
