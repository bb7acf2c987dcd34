package service

import (
	"context"

	"referral_rewards/internal/domain"
)

// DefaultMaxDepth is how many referrer levels earn from a deposit.
const DefaultMaxDepth = 3

// ParentLookup resolves a user's referred_by pointer. found is false when the
// user row does not exist.
type ParentLookup interface {
	GetParentID(ctx context.Context, userID int64) (parent *int64, found bool, err error)
}

// AncestorsOf walks referred_by pointers up from userID and returns at most
// maxDepth ancestors, nearest first. The walk stops early at a root, at a
// pointer to a missing user, or when it would revisit a user.
func AncestorsOf(ctx context.Context, q ParentLookup, userID int64, maxDepth int) ([]domain.Ancestor, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	visited := map[int64]bool{userID: true}
	ancestors := make([]domain.Ancestor, 0, maxDepth)

	parent, found, err := q.GetParentID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return ancestors, nil
	}

	for level := 1; level <= maxDepth && parent != nil; level++ {
		candidate := *parent
		if visited[candidate] {
			break
		}

		// a dangling pointer ends the walk; the lookup doubles as the next hop
		next, exists, err := q.GetParentID(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}

		visited[candidate] = true
		ancestors = append(ancestors, domain.Ancestor{UserID: candidate, Level: level})
		parent = next
	}

	return ancestors, nil
}
