package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutualFriendsSymmetric(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	mutual := NewMutualFriendService(NewRelationshipService())

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	carol := createTestUser(t, "carol")
	dave := createTestUser(t, "dave")

	// carol и dave дружат с обоими, eve ни с кем
	befriend(t, alice.ID, carol.ID)
	befriend(t, bob.ID, carol.ID)
	befriend(t, alice.ID, dave.ID)
	befriend(t, bob.ID, dave.ID)
	createTestUser(t, "eve")

	ab, err := mutual.MutualFriendIDs(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	ba, err := mutual.MutualFriendIDs(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{carol.ID, dave.ID}, ab)
	assert.ElementsMatch(t, ab, ba)
}

func TestMutualFriendsExcludesThemselves(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	mutual := NewMutualFriendService(NewRelationshipService())

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	carol := createTestUser(t, "carol")

	// alice и bob дружат между собой и оба дружат с carol
	befriend(t, alice.ID, bob.ID)
	befriend(t, alice.ID, carol.ID)
	befriend(t, bob.ID, carol.ID)

	ids, err := mutual.MutualFriendIDs(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	assert.NotContains(t, ids, alice.ID)
	assert.NotContains(t, ids, bob.ID)
	assert.ElementsMatch(t, []int64{carol.ID}, ids)
}

func TestMutualFriendsEmpty(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	mutual := NewMutualFriendService(NewRelationshipService())

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	users, err := mutual.MutualFriends(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, users)
}
