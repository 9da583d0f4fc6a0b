package handlers

import (
	"net/http"
	"strconv"

	"socialnet/models"

	"github.com/gin-gonic/gin"
)

// UserGet - получение анкеты пользователя по id
func UserGet(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UserSearch - поиск пользователей по префиксу имени/фамилии
func UserSearch(c *gin.Context) {
	var page models.PageParams
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination"})
		return
	}

	result, err := userService.Search(
		c.Request.Context(),
		c.Query("first_name"),
		c.Query("last_name"),
		page,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
