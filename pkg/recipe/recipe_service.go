package recipe

import (
	"context"
	"fmt"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/logging"
	"foodgram/internal/metrics"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/policy"
	"foodgram/pkg/shoppinglist"
	"foodgram/pkg/shortlink"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"
	"foodgram/pkg/validation"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, viewer domain.Identity, filter domain.RecipeFilter, page, limit int) (domain.RecipeListResponse, error)
		GetRecipe(ctx context.Context, viewer domain.Identity, id uint) (domain.Recipe, error)
		CreateRecipe(ctx context.Context, viewer domain.Identity, req domain.RecipeRequest) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, viewer domain.Identity, id uint, req domain.RecipeRequest) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, viewer domain.Identity, id uint) error

		ToggleMembership(ctx context.Context, viewer domain.Identity, kind domain.MembershipKind, recipeID uint, intent domain.Intent) (domain.ShortRecipe, error)
		GetShoppingList(ctx context.Context, viewer domain.Identity) ([]shoppinglist.Line, error)
		DownloadShoppingList(ctx context.Context, viewer domain.Identity, format shoppinglist.Format) (Export, error)
		SendShoppingList(ctx context.Context, viewer domain.Identity) error

		GetLink(ctx context.Context, id uint) (domain.ShortLinkResponse, error)
		ResolveShortLink(ctx context.Context, token string) (string, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		userRepository   user.UserRepository
		composer         *Composer
		aggregator       *Aggregator
		validator        *validation.Engine
		policy           policy.Policy
		mailer           mailing.Mailer
		appURL           string
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	userRepository user.UserRepository,
	composer *Composer,
	aggregator *Aggregator,
	validator *validation.Engine,
	policy policy.Policy,
	mailer mailing.Mailer,
	appURL string,
) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		userRepository:   userRepository,
		composer:         composer,
		aggregator:       aggregator,
		validator:        validator,
		policy:           policy,
		mailer:           mailer,
		appURL:           strings.TrimRight(appURL, "/"),
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, viewer domain.Identity, filter domain.RecipeFilter, page, limit int) (domain.RecipeListResponse, error) {
	filter.ViewerID = 0
	if viewer.Authenticated {
		filter.ViewerID = viewer.UserID
	}

	recipes, total, err := s.recipeRepository.GetRecipes(ctx, filter, page, limit)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	marks, err := s.viewerMarks(ctx, viewer, recipes)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	res := make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		item, err := s.toDomain(ctx, r, marks)
		if err != nil {
			return domain.RecipeListResponse{}, err
		}
		res = append(res, item)
	}

	return domain.RecipeListResponse{
		Recipes:    res,
		Pagination: domain.NewPagination(page, limit, total),
	}, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, viewer domain.Identity, id uint) (domain.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	return s.render(ctx, viewer, recipe)
}

func (s *recipeService) CreateRecipe(ctx context.Context, viewer domain.Identity, req domain.RecipeRequest) (domain.Recipe, error) {
	if err := s.policy.Authorize(viewer, policy.ActionCreate, 0); err != nil {
		return domain.Recipe{}, err
	}

	created, err := s.composer.Create(ctx, viewer.UserID, req)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, created.ID)
	if err != nil {
		return domain.Recipe{}, err
	}
	return s.render(ctx, viewer, recipe)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, viewer domain.Identity, id uint, req domain.RecipeRequest) (domain.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	if err := s.policy.Authorize(viewer, policy.ActionUpdate, recipe.AuthorID); err != nil {
		return domain.Recipe{}, err
	}

	if _, err := s.composer.Update(ctx, recipe, req); err != nil {
		return domain.Recipe{}, err
	}

	updated, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	return s.render(ctx, viewer, updated)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, viewer domain.Identity, id uint) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.policy.Authorize(viewer, policy.ActionDelete, recipe.AuthorID); err != nil {
		return err
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, id); err != nil {
		logging.Error().Err(err).Uint("recipe_id", id).Msg("failed to delete recipe")
		return err
	}
	s.composer.discard(ctx, recipe.ImageKey)

	logging.Info().Uint("recipe_id", id).Uint("user_id", viewer.UserID).Msg("recipe deleted")
	return nil
}

func (s *recipeService) GetLink(ctx context.Context, id uint) (domain.ShortLinkResponse, error) {
	if _, err := s.recipeRepository.GetRecipeByID(ctx, id); err != nil {
		return domain.ShortLinkResponse{}, err
	}

	token, err := shortlink.Encode(uint64(id))
	if err != nil {
		return domain.ShortLinkResponse{}, err
	}
	return domain.ShortLinkResponse{ShortLink: fmt.Sprintf("%s/s/%s", s.appURL, token)}, nil
}

// ResolveShortLink returns the canonical path of the recipe token points to.
func (s *recipeService) ResolveShortLink(ctx context.Context, token string) (path string, err error) {
	defer func() {
		metrics.ShortLinkResolutions.WithLabelValues(metrics.Result(err)).Inc()
	}()

	id, err := shortlink.Decode(token)
	if err != nil {
		return "", err
	}
	if uint64(uint(id)) != id {
		return "", domain.ErrRecipeNotFound
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, uint(id))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/recipes/%d/", recipe.ID), nil
}

type viewerMarks struct {
	favorites map[uint]struct{}
	cart      map[uint]struct{}
	following map[uint]struct{}
}

// viewerMarks resolves the per-caller flags for a page of recipes. Anonymous
// callers get empty sets, so every flag renders false.
func (s *recipeService) viewerMarks(ctx context.Context, viewer domain.Identity, recipes []*entities.Recipe) (viewerMarks, error) {
	marks := viewerMarks{
		favorites: map[uint]struct{}{},
		cart:      map[uint]struct{}{},
		following: map[uint]struct{}{},
	}
	if !viewer.Authenticated || len(recipes) == 0 {
		return marks, nil
	}

	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	var err error
	if marks.favorites, err = s.recipeRepository.MembershipRecipeIDs(ctx, domain.MembershipFavorite, viewer.UserID, recipeIDs); err != nil {
		return marks, err
	}
	if marks.cart, err = s.recipeRepository.MembershipRecipeIDs(ctx, domain.MembershipShoppingCart, viewer.UserID, recipeIDs); err != nil {
		return marks, err
	}
	if marks.following, err = s.userRepository.FollowedAuthorIDs(ctx, viewer.UserID, authorIDs); err != nil {
		return marks, err
	}
	return marks, nil
}

func (s *recipeService) render(ctx context.Context, viewer domain.Identity, recipe *entities.Recipe) (domain.Recipe, error) {
	marks, err := s.viewerMarks(ctx, viewer, []*entities.Recipe{recipe})
	if err != nil {
		return domain.Recipe{}, err
	}
	return s.toDomain(ctx, recipe, marks)
}

func (s *recipeService) toDomain(ctx context.Context, recipe *entities.Recipe, marks viewerMarks) (domain.Recipe, error) {
	ingredients, err := s.aggregator.IngredientsOf(ctx, recipe.ID)
	if err != nil {
		return domain.Recipe{}, err
	}

	tags, err := s.recipeRepository.GetRecipeTags(ctx, recipe.ID)
	if err != nil {
		return domain.Recipe{}, err
	}
	domainTags := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		domainTags = append(domainTags, tag.ToDomain(t))
	}

	var author domain.User
	if recipe.Author != nil {
		_, following := marks.following[recipe.AuthorID]
		author = user.ToDomain(recipe.Author, following)
	}

	_, favorited := marks.favorites[recipe.ID]
	_, inCart := marks.cart[recipe.ID]

	return domain.Recipe{
		ID:               recipe.ID,
		Tags:             domainTags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		CreatedAt:        recipe.CreatedAt,
	}, nil
}

func ToShortRecipe(recipe *entities.Recipe) domain.ShortRecipe {
	return domain.ShortRecipe{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}
