package handlers

import (
	"net/http"
	"strconv"
	"time"

	"socialnet/api/middleware"
	"socialnet/models"
	"socialnet/services"

	"github.com/gin-gonic/gin"
)

var followService = services.NewFollowService()

// FollowUser - подписка на пользователя
func FollowUser(c *gin.Context) {
	followerID := c.GetInt64("user_id")
	if followerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	start := time.Now()
	err = followService.Follow(c.Request.Context(), followerID, userID)
	status := "ok"
	if err != nil {
		status = "error"
	}
	middleware.RecordRelationshipOperation("follow", status, "socialnet", time.Since(start))

	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "followed"})
}

// UnfollowUser - отписка от пользователя
func UnfollowUser(c *gin.Context) {
	followerID := c.GetInt64("user_id")
	if followerID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := followService.Unfollow(c.Request.Context(), followerID, userID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unfollowed"})
}

// GetFollowers - подписчики пользователя, с пагинацией и поиском по нику
func GetFollowers(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var page models.PageParams
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination"})
		return
	}

	result, err := followService.GetFollowers(c.Request.Context(), userID, page, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetFollowing - на кого подписан пользователь
func GetFollowing(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var page models.PageParams
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination"})
		return
	}

	result, err := followService.GetFollowing(c.Request.Context(), userID, page, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
