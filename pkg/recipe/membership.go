package recipe

import (
	"context"

	"foodgram/domain"
	"foodgram/internal/logging"
	"foodgram/internal/metrics"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/policy"
	"foodgram/pkg/shoppinglist"
)

var membershipActions = map[domain.MembershipKind]policy.Action{
	domain.MembershipFavorite:     policy.ActionFavorite,
	domain.MembershipShoppingCart: policy.ActionShoppingCart,
}

// ToggleMembership adds or removes recipeID in one of the caller's
// collections. Adding a present recipe or removing an absent one is rejected
// before any write.
func (s *recipeService) ToggleMembership(ctx context.Context, viewer domain.Identity, kind domain.MembershipKind, recipeID uint, intent domain.Intent) (_ domain.ShortRecipe, err error) {
	defer func() {
		metrics.MembershipToggles.WithLabelValues(string(kind), string(intent), metrics.Result(err)).Inc()
	}()

	action, ok := membershipActions[kind]
	if !ok {
		return domain.ShortRecipe{}, unknownKind(kind)
	}
	if err := s.policy.Authorize(viewer, action, 0); err != nil {
		return domain.ShortRecipe{}, err
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.ShortRecipe{}, err
	}

	if err := s.validator.ValidateMembershipToggle(ctx, kind, viewer.UserID, recipeID, intent); err != nil {
		return domain.ShortRecipe{}, err
	}

	if intent == domain.IntentAdd {
		err = s.recipeRepository.AddMembership(ctx, kind, viewer.UserID, recipeID)
	} else {
		err = s.recipeRepository.RemoveMembership(ctx, kind, viewer.UserID, recipeID)
	}
	if err != nil {
		return domain.ShortRecipe{}, err
	}

	logging.Debug().Str("kind", string(kind)).Str("intent", string(intent)).
		Uint("user_id", viewer.UserID).Uint("recipe_id", recipeID).Msg("membership toggled")
	return ToShortRecipe(recipe), nil
}

func (s *recipeService) GetShoppingList(ctx context.Context, viewer domain.Identity) ([]shoppinglist.Line, error) {
	if err := s.policy.Authorize(viewer, policy.ActionDownloadShoppingCart, 0); err != nil {
		return nil, err
	}
	return s.aggregator.ShoppingListFor(ctx, viewer.UserID)
}

func (s *recipeService) DownloadShoppingList(ctx context.Context, viewer domain.Identity, format shoppinglist.Format) (Export, error) {
	lines, err := s.GetShoppingList(ctx, viewer)
	if err != nil {
		return Export{}, err
	}

	owner, err := s.userRepository.GetUserByID(ctx, viewer.UserID)
	if err != nil {
		return Export{}, err
	}
	return Render(owner.FullName(), owner.Username, lines, format)
}

// SendShoppingList mails the text export to the caller's address.
func (s *recipeService) SendShoppingList(ctx context.Context, viewer domain.Identity) error {
	lines, err := s.GetShoppingList(ctx, viewer)
	if err != nil {
		return err
	}

	owner, err := s.userRepository.GetUserByID(ctx, viewer.UserID)
	if err != nil {
		return err
	}

	export, err := Render(owner.FullName(), owner.Username, lines, shoppinglist.FormatText)
	if err != nil {
		return err
	}

	body := "<p>Your Foodgram shopping list is attached.</p>"
	if err := s.mailer.SendMail(owner.Email, "Your Foodgram shopping list", body, mailing.Attachment{
		Filename:    export.Filename,
		ContentType: export.ContentType,
		Content:     export.Body,
	}); err != nil {
		logging.Error().Err(err).Uint("user_id", owner.ID).Msg("failed to send shopping list")
		return err
	}

	logging.Info().Uint("user_id", owner.ID).Int("lines", export.Lines).Msg("shopping list sent")
	return nil
}
