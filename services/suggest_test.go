package services

import (
	"context"
	"testing"

	"socialnet/db"
	"socialnet/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestRanksByMutualFriends(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	svc := NewSuggestionService(NewRelationshipService())

	subject := createTestUser(t, "subject")
	friend1 := createTestUser(t, "friend1")
	friend2 := createTestUser(t, "friend2")
	strong := createTestUser(t, "strong") // два общих друга
	weak := createTestUser(t, "weak")     // один общий друг

	befriend(t, subject.ID, friend1.ID)
	befriend(t, subject.ID, friend2.ID)
	befriend(t, strong.ID, friend1.ID)
	befriend(t, strong.ID, friend2.ID)
	befriend(t, weak.ID, friend1.ID)

	suggestions, err := svc.Suggest(ctx, subject.ID, 2)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, strong.ID, suggestions[0].ID)
	assert.Equal(t, weak.ID, suggestions[1].ID)
}

func TestSuggestExcludesSelfAndFriends(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	svc := NewSuggestionService(NewRelationshipService())

	subject := createTestUser(t, "subject")
	friend := createTestUser(t, "friend")
	candidate := createTestUser(t, "candidate")

	befriend(t, subject.ID, friend.ID)
	befriend(t, friend.ID, candidate.ID)

	suggestions, err := svc.Suggest(ctx, subject.ID, 10)
	require.NoError(t, err)

	for _, u := range suggestions {
		assert.NotEqual(t, subject.ID, u.ID)
		assert.NotEqual(t, friend.ID, u.ID)
	}
	require.NotEmpty(t, suggestions)
	assert.Equal(t, candidate.ID, suggestions[0].ID)
}

func TestSuggestBackfillsWithRandomUsers(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	svc := NewSuggestionService(NewRelationshipService())

	// Ни одного друга: выборка целиком из случайного добора
	subject := createTestUser(t, "subject")
	createTestUser(t, "stranger1")
	createTestUser(t, "stranger2")
	createTestUser(t, "stranger3")

	suggestions, err := svc.Suggest(ctx, subject.ID, 2)
	require.NoError(t, err)
	assert.Len(t, suggestions, 2)

	seen := make(map[int64]struct{})
	for _, u := range suggestions {
		assert.NotEqual(t, subject.ID, u.ID)
		_, dup := seen[u.ID]
		assert.False(t, dup)
		seen[u.ID] = struct{}{}
	}
}

func TestSuggestSkipsDeletedCandidates(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	svc := NewSuggestionService(NewRelationshipService())

	subject := createTestUser(t, "subject")
	friend1 := createTestUser(t, "friend1")
	friend2 := createTestUser(t, "friend2")
	ghost := createTestUser(t, "ghost") // топ по общим друзьям, но удален
	live := createTestUser(t, "live")

	befriend(t, subject.ID, friend1.ID)
	befriend(t, subject.ID, friend2.ID)
	befriend(t, ghost.ID, friend1.ID)
	befriend(t, ghost.ID, friend2.ID)
	befriend(t, live.ID, friend1.ID)

	require.NoError(t, db.ORM.Delete(&models.User{}, ghost.ID).Error)

	// Удаленный кандидат не вытесняет живого при обрезке до лимита
	ranked, err := svc.rankedByMutuals(ctx, subject.ID, 1, []int64{friend1.ID, friend2.ID})
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, live.ID, ranked[0].ID)

	suggestions, err := svc.Suggest(ctx, subject.ID, 2)
	require.NoError(t, err)
	for _, u := range suggestions {
		assert.NotEqual(t, ghost.ID, u.ID)
	}
}

func TestSuggestDefaultLimit(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	svc := NewSuggestionService(NewRelationshipService())

	subject := createTestUser(t, "subject")
	for _, nickname := range []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7"} {
		createTestUser(t, nickname)
	}

	suggestions, err := svc.Suggest(ctx, subject.ID, 0)
	require.NoError(t, err)
	assert.Len(t, suggestions, DefaultSuggestionLimit)
}
