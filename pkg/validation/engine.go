// Package validation holds the precondition checks run before any recipe
// composition, membership toggle or subscription is written. Checks only read
// from the store.
package validation

import (
	"context"
	"fmt"

	"foodgram/domain"
)

type (
	IngredientLookup interface {
		ExistingIngredientIDs(ctx context.Context, ids []uint) (map[uint]struct{}, error)
	}

	TagLookup interface {
		ExistingTagIDs(ctx context.Context, ids []uint) (map[uint]struct{}, error)
	}

	MembershipLookup interface {
		HasMembership(ctx context.Context, kind domain.MembershipKind, userID, recipeID uint) (bool, error)
	}

	FollowLookup interface {
		IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error)
	}

	Lookups struct {
		Ingredients IngredientLookup
		Tags        TagLookup
		Memberships MembershipLookup
		Follows     FollowLookup
	}

	Engine struct {
		lookups Lookups
	}
)

func NewEngine(lookups Lookups) *Engine {
	return &Engine{lookups: lookups}
}

// ValidateIngredients checks, in order: the list is not empty, no id repeats,
// every amount is positive, every id resolves to an ingredient.
func (e *Engine) ValidateIngredients(ctx context.Context, items []domain.RecipeIngredientRequest) error {
	if len(items) == 0 {
		return domain.NewFieldError("ingredients", nil, domain.ErrEmptyCollection)
	}

	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for i, item := range items {
		if _, ok := seen[item.ID]; ok {
			return domain.NewFieldError(fmt.Sprintf("ingredients[%d].id", i), item.ID, domain.ErrDuplicateEntry)
		}
		seen[item.ID] = struct{}{}
		ids = append(ids, item.ID)
	}

	for i, item := range items {
		if item.Amount <= 0 {
			return domain.NewFieldError(fmt.Sprintf("ingredients[%d].amount", i), item.Amount, domain.ErrInvalidAmount)
		}
	}

	existing, err := e.lookups.Ingredients.ExistingIngredientIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i, item := range items {
		if _, ok := existing[item.ID]; !ok {
			return domain.NewFieldError(fmt.Sprintf("ingredients[%d].id", i), item.ID, domain.ErrUnknownReference)
		}
	}
	return nil
}

// ValidateTags checks the list is not empty, has no repeated id and only
// names existing tags.
func (e *Engine) ValidateTags(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return domain.NewFieldError("tags", nil, domain.ErrEmptyCollection)
	}

	seen := make(map[uint]struct{}, len(ids))
	for i, id := range ids {
		if _, ok := seen[id]; ok {
			return domain.NewFieldError(fmt.Sprintf("tags[%d]", i), id, domain.ErrDuplicateEntry)
		}
		seen[id] = struct{}{}
	}

	existing, err := e.lookups.Tags.ExistingTagIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i, id := range ids {
		if _, ok := existing[id]; !ok {
			return domain.NewFieldError(fmt.Sprintf("tags[%d]", i), id, domain.ErrUnknownReference)
		}
	}
	return nil
}

func (e *Engine) ValidateFollow(ctx context.Context, followerID, authorID uint) error {
	exists, err := e.lookups.Follows.IsFollowing(ctx, followerID, authorID)
	if err != nil {
		return err
	}
	if exists {
		return domain.NewFieldError("author", authorID, domain.ErrDuplicateEntry)
	}
	if followerID == authorID {
		return domain.NewFieldError("author", authorID, domain.ErrSelfReferenceNotAllowed)
	}
	return nil
}

func (e *Engine) ValidateUnfollow(ctx context.Context, followerID, authorID uint) error {
	exists, err := e.lookups.Follows.IsFollowing(ctx, followerID, authorID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.NewFieldError("author", authorID, domain.ErrNotFound)
	}
	return nil
}

// ValidateMembershipToggle rejects adding an existing membership and removing
// a missing one.
func (e *Engine) ValidateMembershipToggle(ctx context.Context, kind domain.MembershipKind, userID, recipeID uint, intent domain.Intent) error {
	exists, err := e.lookups.Memberships.HasMembership(ctx, kind, userID, recipeID)
	if err != nil {
		return err
	}

	switch intent {
	case domain.IntentAdd:
		if exists {
			return domain.NewFieldError(string(kind), recipeID, domain.ErrDuplicateEntry)
		}
	case domain.IntentRemove:
		if !exists {
			return domain.NewFieldError(string(kind), recipeID, domain.ErrNotFound)
		}
	default:
		return fmt.Errorf("unknown membership intent %q", intent)
	}
	return nil
}
