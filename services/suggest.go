package services

import (
	"context"
	"fmt"
	"sort"

	"socialnet/db"
	"socialnet/models"
)

const DefaultSuggestionLimit = 5

// SuggestionService ранжирует не-друзей по числу общих друзей
// (двухшаговый обход графа) и добирает случайных пользователей,
// если кандидатов не хватает.
type SuggestionService struct {
	rels *RelationshipService
}

func NewSuggestionService(rels *RelationshipService) *SuggestionService {
	return &SuggestionService{rels: rels}
}

// Suggest returns up to limit users ordered by mutual-friend count,
// highest first. Ties break arbitrarily. Candidates short of limit are
// backfilled with uniformly random strangers.
func (s *SuggestionService) Suggest(ctx context.Context, userID int64, limit int) ([]models.User, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	friendIDs, err := s.rels.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.rankedByMutuals(ctx, userID, limit, friendIDs)
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = make([]models.User, 0, limit)
	}

	if len(suggestions) < limit {
		excludeIDs := append([]int64{userID}, friendIDs...)
		for _, u := range suggestions {
			excludeIDs = append(excludeIDs, u.ID)
		}

		var backfill []models.User
		err = db.GetReadOnlyDB(ctx).
			Where("id NOT IN (?)", excludeIDs).
			Select("id, nickname, first_name, last_name, city, friend_count, created_at").
			Order("random()").
			Limit(limit - len(suggestions)).
			Find(&backfill).Error
		if err != nil {
			return nil, fmt.Errorf("failed to backfill suggestions: %w", err)
		}
		suggestions = append(suggestions, backfill...)
	}

	return suggestions, nil
}

// rankedByMutuals returns up to limit live users ranked by mutual-friend
// count with userID, highest first. The cut to limit happens after the
// user load, so a soft-deleted candidate cannot displace a live one.
func (s *SuggestionService) rankedByMutuals(ctx context.Context, userID int64, limit int, friendIDs []int64) ([]models.User, error) {
	if len(friendIDs) == 0 {
		return nil, nil
	}

	isFriend := make(map[int64]struct{}, len(friendIDs))
	for _, id := range friendIDs {
		isFriend[id] = struct{}{}
	}

	// Друзья друзей: каждое вхождение кандидата = один общий друг
	mutualCount := make(map[int64]int)
	var edges []models.Friendship
	err := db.GetReadOnlyDB(ctx).
		Where("user_id1 IN (?) OR user_id2 IN (?)", friendIDs, friendIDs).
		Find(&edges).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load two-hop edges: %w", err)
	}

	for _, e := range edges {
		for _, candidate := range []int64{e.UserID1, e.UserID2} {
			if candidate == userID {
				continue
			}
			if _, friend := isFriend[candidate]; friend {
				continue
			}
			// Ребро должно исходить из друга userID, иначе кандидат
			// попал в выборку лишь второй стороной чужого ребра
			other := e.UserID1
			if other == candidate {
				other = e.UserID2
			}
			if _, friend := isFriend[other]; friend {
				mutualCount[candidate]++
			}
		}
	}
	if len(mutualCount) == 0 {
		return nil, nil
	}

	candidateIDs := make([]int64, 0, len(mutualCount))
	for id := range mutualCount {
		candidateIDs = append(candidateIDs, id)
	}
	sort.Slice(candidateIDs, func(i, j int) bool {
		return mutualCount[candidateIDs[i]] > mutualCount[candidateIDs[j]]
	})

	// Soft-deleted кандидаты отпадают здесь, размер выборки ограничен
	// двухшаговой окрестностью
	var users []models.User
	err = db.GetReadOnlyDB(ctx).
		Where("id IN (?)", candidateIDs).
		Select("id, nickname, first_name, last_name, city, friend_count, created_at").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load suggested users: %w", err)
	}
	byID := make(map[int64]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	// Сохраняем порядок ранжирования
	ranked := make([]models.User, 0, limit)
	for _, id := range candidateIDs {
		if u, ok := byID[id]; ok {
			ranked = append(ranked, u)
			if len(ranked) == limit {
				break
			}
		}
	}
	return ranked, nil
}
