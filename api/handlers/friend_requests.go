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

var friendRequestService = services.NewFriendRequestService(
	relationshipService,
	mutualService,
	services.NewCounterService(nil),
)

// CreateFriendRequest - отправка заявки в друзья
func CreateFriendRequest(c *gin.Context) {
	actingUserID := c.GetInt64("user_id")
	if actingUserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	type req struct {
		ReceiverUserID int64 `json:"receiver_user_id" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	start := time.Now()
	request, err := friendRequestService.Create(c.Request.Context(), actingUserID, r.ReceiverUserID, actingUserID)
	status := "ok"
	if err != nil {
		status = "error"
	}
	middleware.RecordRelationshipOperation("friend_request_create", status, "socialnet", time.Since(start))

	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": request.ID, "created_at": request.CreatedAt})
}

// UpdateFriendRequest - принятие или отклонение заявки получателем
func UpdateFriendRequest(c *gin.Context) {
	actingUserID := c.GetInt64("user_id")
	if actingUserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	type req struct {
		Status models.FriendRequestStatus `json:"status" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if r.Status != models.FriendRequestAccepted && r.Status != models.FriendRequestRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be accepted or rejected"})
		return
	}

	start := time.Now()
	err = friendRequestService.Update(c.Request.Context(), requestID, r.Status, actingUserID)
	status := "ok"
	if err != nil {
		status = "error"
	}
	middleware.RecordRelationshipOperation("friend_request_update", status, "socialnet", time.Since(start))

	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend request " + string(r.Status)})
}

// DeleteFriendRequest - удаление заявки любой из сторон
func DeleteFriendRequest(c *gin.Context) {
	actingUserID := c.GetInt64("user_id")
	if actingUserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	if err := friendRequestService.Remove(c.Request.Context(), requestID, actingUserID); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend request deleted"})
}

// ListFriendRequests - листинг заявок с фильтрами и обогащениями
func ListFriendRequests(c *gin.Context) {
	actingUserID := c.GetInt64("user_id")
	if actingUserID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var page models.PageParams
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination"})
		return
	}

	filter := services.FriendRequestFilter{
		Status:     models.FriendRequestStatus(c.Query("status")),
		SearchText: c.Query("search"),
	}
	if raw := c.Query("sender_user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sender_user_id"})
			return
		}
		filter.SenderUserID = &id
	}
	if raw := c.Query("receiver_user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receiver_user_id"})
			return
		}
		filter.ReceiverUserID = &id
	}

	opts := services.FriendRequestOptions{
		WithSender:        c.Query("with_sender") == "true",
		WithMutualFriends: c.Query("with_mutual_friends") == "true",
	}

	result, err := friendRequestService.FindAll(c.Request.Context(), filter, opts, page, actingUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
