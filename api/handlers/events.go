package handlers

import (
	"net/http"

	"socialnet/models"
	"socialnet/services"

	"github.com/gin-gonic/gin"
)

var fanoutService = services.NewFanoutService(followService, services.NewCounterService(nil))

// NotifyFollowersHandler - рассылка события текущего пользователя по его
// подписчикам. Используется коллабораторами (посты, комментарии, события),
// которым нужен фан-аут без собственной логики аудитории.
func NotifyFollowersHandler(c *gin.Context) {
	actorID := c.GetInt64("user_id")
	if actorID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	type req struct {
		Type           models.NotificationType `json:"type" binding:"required"`
		Message        string                  `json:"message" binding:"required"`
		PostID         *int64                  `json:"post_id"`
		ExcludeUserIDs []int64                 `json:"exclude_user_ids"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := fanoutService.NotifyFollowers(c.Request.Context(), actorID, r.Type, r.Message, r.PostID, r.ExcludeUserIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "fan-out scheduled"})
}

// QueueStats - состояние очереди фан-аута
func QueueStats(c *gin.Context) {
	if services.QueueServiceInstance == nil {
		c.JSON(http.StatusOK, gin.H{"error": "queue not running"})
		return
	}
	c.JSON(http.StatusOK, services.QueueServiceInstance.GetStats())
}
