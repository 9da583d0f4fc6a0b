package services

import (
	"context"
	"fmt"

	"socialnet/db"
	"socialnet/models"
)

// MutualFriendService вычисляет общих друзей двух пользователей.
// Чисто читающий сервис, без побочных эффектов.
type MutualFriendService struct {
	rels *RelationshipService
}

func NewMutualFriendService(rels *RelationshipService) *MutualFriendService {
	return &MutualFriendService{rels: rels}
}

// MutualFriendIDs computes friend-set(a) ∩ friend-set(b) by id. Membership
// goes through a map, so cost is O(|friends(a)| + |friends(b)|) and neither
// list is assumed sorted.
func (ms *MutualFriendService) MutualFriendIDs(ctx context.Context, userA, userB int64) ([]int64, error) {
	friendsA, err := ms.rels.GetFriendIDs(ctx, userA)
	if err != nil {
		return nil, err
	}
	friendsB, err := ms.rels.GetFriendIDs(ctx, userB)
	if err != nil {
		return nil, err
	}

	inA := make(map[int64]struct{}, len(friendsA))
	for _, id := range friendsA {
		inA[id] = struct{}{}
	}

	common := make([]int64, 0)
	for _, id := range friendsB {
		if _, ok := inA[id]; ok {
			common = append(common, id)
		}
	}
	return common, nil
}

// MutualFriends возвращает общих друзей как пользователей.
func (ms *MutualFriendService) MutualFriends(ctx context.Context, userA, userB int64) ([]models.User, error) {
	ids, err := ms.MutualFriendIDs(ctx, userA, userB)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	err = db.GetReadOnlyDB(ctx).
		Where("id IN (?)", ids).
		Select("id, nickname, first_name, last_name, city, friend_count, created_at").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load mutual friends: %w", err)
	}
	return users, nil
}
