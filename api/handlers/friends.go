package handlers

import (
	"net/http"
	"strconv"
	"time"

	"socialnet/api/middleware"
	"socialnet/services"

	"github.com/gin-gonic/gin"
)

var (
	relationshipService = services.NewRelationshipService()
	mutualService       = services.NewMutualFriendService(relationshipService)
	suggestionService   = services.NewSuggestionService(relationshipService)
)

// GetFriends - список друзей текущего пользователя
func GetFriends(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	friends, err := relationshipService.GetFriends(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

// Unfriend - удаление установленной дружбы
func Unfriend(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	friendID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	start := time.Now()
	err = relationshipService.RemoveFriendship(c.Request.Context(), userID, friendID)
	status := "ok"
	if err != nil {
		status = "error"
	}
	middleware.RecordRelationshipOperation("unfriend", status, "socialnet", time.Since(start))

	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend removed"})
}

// GetMutualFriends - общие друзья текущего пользователя и указанного
func GetMutualFriends(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	otherID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	mutuals, err := mutualService.MutualFriends(c.Request.Context(), userID, otherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mutual_friends": mutuals})
}

// GetSuggestions - рекомендации друзей по числу общих друзей
func GetSuggestions(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := services.DefaultSuggestionLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	suggestions, err := suggestionService.Suggest(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
