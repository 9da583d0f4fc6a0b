package handlers

import (
	"net/http"
	"time"

	"socialnet/models"
	"socialnet/services"

	"github.com/gin-gonic/gin"
)

var userService = services.NewUserService()

// Register - регистрация нового пользователя
func Register(c *gin.Context) {
	type req struct {
		Nickname  string     `json:"nickname" binding:"required"`
		Password  string     `json:"password" binding:"required"`
		FirstName string     `json:"first_name"`
		LastName  string     `json:"last_name"`
		Birthday  *time.Time `json:"birthday"`
		Sex       string     `json:"sex"`
		City      string     `json:"city"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user := &models.User{
		Nickname:  r.Nickname,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Sex:       models.Sex(r.Sex),
		City:      r.City,
	}
	if r.Birthday != nil {
		user.Birthday = *r.Birthday
	}

	userID, err := userService.Register(c.Request.Context(), user)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user_id": userID})
}

// Login - вход по никнейму и паролю, выдает opaque токен
func Login(c *gin.Context) {
	type req struct {
		Nickname string `json:"nickname" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	var r req
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	token, err := userService.Login(c.Request.Context(), r.Nickname, r.Password)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout - сброс токенов пользователя
func Logout(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := userService.Logout(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
