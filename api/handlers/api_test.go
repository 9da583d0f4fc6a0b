package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialnet/api/routes"
	"socialnet/db"
	"socialnet/models"
	"socialnet/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(
		&models.User{},
		&models.UserTokens{},
		&models.Friendship{},
		&models.FriendRequest{},
		&models.Follow{},
		&models.Notification{},
	))

	db.ORM = database
	services.RedisClient = nil
	services.QueueServiceInstance = nil

	router := gin.New()
	routes.PublicApi(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

// registerAndLogin создает пользователя и возвращает его id и токен
func registerAndLogin(t *testing.T, router *gin.Engine, nickname string) (int64, string) {
	t.Helper()

	resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"nickname": nickname,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var registered struct {
		UserID int64 `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))

	resp = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"nickname": nickname,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var loggedIn struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loggedIn))
	return registered.UserID, loggedIn.Token
}

func TestAuthRequired(t *testing.T) {
	router := setupRouter(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/friends/list", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/friends/list", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestFriendRequestLifecycleOverHTTP(t *testing.T) {
	router := setupRouter(t)

	aliceID, aliceToken := registerAndLogin(t, router, "alice")
	bobID, bobToken := registerAndLogin(t, router, "bob")
	_, strangerToken := registerAndLogin(t, router, "stranger")

	// alice отправляет заявку bob
	resp := doJSON(t, router, http.MethodPost, "/api/v1/friend-requests", aliceToken, gin.H{
		"receiver_user_id": bobID,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	// Посторонний не может принять чужую заявку
	resp = doJSON(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/friend-requests/%d", created.ID), strangerToken,
		gin.H{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// bob принимает
	resp = doJSON(t, router, http.MethodPatch,
		fmt.Sprintf("/api/v1/friend-requests/%d", created.ID), bobToken,
		gin.H{"status": "accepted"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Оба видят друг друга в друзьях
	resp = doJSON(t, router, http.MethodGet, "/api/v1/friends/list", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "bob")

	resp = doJSON(t, router, http.MethodGet, "/api/v1/friends/list", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "alice")

	// Повторная заявка блокируется - они уже друзья
	resp = doJSON(t, router, http.MethodPost, "/api/v1/friend-requests", bobToken, gin.H{
		"receiver_user_id": aliceID,
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	// У bob заявок больше нет
	resp = doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/api/v1/friend-requests?receiver_user_id=%d", bobID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var listed models.Page[json.RawMessage]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listed))
	assert.Zero(t, listed.Meta.ItemCount)

	// bob разрывает дружбу
	resp = doJSON(t, router, http.MethodDelete,
		fmt.Sprintf("/api/v1/friends/%d", aliceID), bobToken, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = doJSON(t, router, http.MethodDelete,
		fmt.Sprintf("/api/v1/friends/%d", aliceID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSelfFriendRequestForbidden(t *testing.T) {
	router := setupRouter(t)

	aliceID, aliceToken := registerAndLogin(t, router, "alice")

	resp := doJSON(t, router, http.MethodPost, "/api/v1/friend-requests", aliceToken, gin.H{
		"receiver_user_id": aliceID,
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestFollowAndNotifyOverHTTP(t *testing.T) {
	router := setupRouter(t)

	authorID, authorToken := registerAndLogin(t, router, "author")
	_, aliceToken := registerAndLogin(t, router, "alice")

	resp := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/follows/%d", authorID), aliceToken, nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	// Повторная подписка - конфликт
	resp = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/follows/%d", authorID), aliceToken, nil)
	assert.Equal(t, http.StatusConflict, resp.Code)

	// Автор рассылает событие
	resp = doJSON(t, router, http.MethodPost, "/api/v1/events/notify", authorToken, gin.H{
		"type":    "CREATE_POST",
		"message": "author published a post",
	})
	require.Equal(t, http.StatusAccepted, resp.Code, resp.Body.String())

	// У alice одно непрочитанное уведомление
	resp = doJSON(t, router, http.MethodGet, "/api/v1/notifications/unread-count", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"unread":1`)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/notifications", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var notifications models.Page[models.Notification]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &notifications))
	require.Len(t, notifications.Data, 1)
	assert.Equal(t, models.NotificationPostCreated, notifications.Data[0].Type)

	// Отметка о прочтении
	resp = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/notifications/%d/read", notifications.Data[0].ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestSuggestionsOverHTTP(t *testing.T) {
	router := setupRouter(t)

	_, aliceToken := registerAndLogin(t, router, "alice")
	registerAndLogin(t, router, "bob")
	registerAndLogin(t, router, "carol")

	resp := doJSON(t, router, http.MethodGet, "/api/v1/friends/suggestions?limit=2", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body struct {
		Suggestions []models.User `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Suggestions, 2)
}
