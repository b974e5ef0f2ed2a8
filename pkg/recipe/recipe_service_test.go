package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/pkg/shoppinglist"
	"foodgram/pkg/shortlink"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeService_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "author")
	flour := testutil.CreateIngredient(t, f.db, "flour", "g")
	baking := testutil.CreateTag(t, f.db, "baking")

	_, err := f.svc.CreateRecipe(ctx, domain.Anonymous(), request("Bread", []uint{baking.ID}, item(flour.ID, 1)))
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	created, err := f.svc.CreateRecipe(ctx, domain.Authenticated(author.ID), request("Bread", []uint{baking.ID}, item(flour.ID, 500)))
	require.NoError(t, err)
	assert.Equal(t, "Bread", created.Name)
	assert.Equal(t, author.ID, created.Author.ID)
	require.Len(t, created.Ingredients, 1)
	assert.Equal(t, 500, created.Ingredients[0].Amount)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "baking", created.Tags[0].Slug)

	got, err := f.svc.GetRecipe(ctx, domain.Anonymous(), created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsFavorited)
	assert.False(t, got.IsInShoppingCart)
	assert.False(t, got.Author.IsSubscribed)

	_, err = f.svc.GetRecipe(ctx, domain.Anonymous(), 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecipeService_OnlyAuthorMutates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "author")
	stranger := testutil.CreateUser(t, f.db, "stranger")
	flour := testutil.CreateIngredient(t, f.db, "flour", "g")
	baking := testutil.CreateTag(t, f.db, "baking")
	recipe := f.createRecipe(t, author, request("Bread", []uint{baking.ID}, item(flour.ID, 500)))

	update := request("Stolen bread", []uint{baking.ID}, item(flour.ID, 1))

	_, err := f.svc.UpdateRecipe(ctx, domain.Authenticated(stranger.ID), recipe.ID, update)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.ErrorIs(t, f.svc.DeleteRecipe(ctx, domain.Authenticated(stranger.ID), recipe.ID), domain.ErrPermissionDenied)
	assert.ErrorIs(t, f.svc.DeleteRecipe(ctx, domain.Anonymous(), recipe.ID), domain.ErrUnauthenticated)

	// a rejected caller never reaches validation
	invalid := request("x", []uint{}, item(flour.ID, 0))
	_, err = f.svc.UpdateRecipe(ctx, domain.Authenticated(stranger.ID), recipe.ID, invalid)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	updated, err := f.svc.UpdateRecipe(ctx, domain.Authenticated(author.ID), recipe.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Stolen bread", updated.Name)

	require.NoError(t, f.svc.DeleteRecipe(ctx, domain.Authenticated(author.ID), recipe.ID))
	_, err = f.svc.GetRecipe(ctx, domain.Anonymous(), recipe.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecipeService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "author")
	fan := testutil.CreateUser(t, f.db, "fan")
	flour := testutil.CreateIngredient(t, f.db, "flour", "g")
	baking := testutil.CreateTag(t, f.db, "baking")
	recipe := f.createRecipe(t, author, request("Bread", []uint{baking.ID}, item(flour.ID, 500)))

	fanID := domain.Authenticated(fan.ID)
	_, err := f.svc.ToggleMembership(ctx, fanID, domain.MembershipFavorite, recipe.ID, domain.IntentAdd)
	require.NoError(t, err)
	_, err = f.svc.ToggleMembership(ctx, fanID, domain.MembershipShoppingCart, recipe.ID, domain.IntentAdd)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteRecipe(ctx, domain.Authenticated(author.ID), recipe.ID))

	assert.Zero(t, f.count(t, &entities.RecipeIngredient{}))
	assert.Zero(t, f.count(t, &entities.RecipeTag{}))
	assert.Zero(t, f.count(t, &entities.Favorite{}))
	assert.Zero(t, f.count(t, &entities.ShoppingCartEntry{}))
	assert.Equal(t, int64(1), f.count(t, &entities.Ingredient{}))
	assert.Empty(t, f.storage.Files)
}

func TestRecipeService_ToggleFavorite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "author")
	fan := testutil.CreateUser(t, f.db, "fan")
	flour := testutil.CreateIngredient(t, f.db, "flour", "g")
	baking := testutil.CreateTag(t, f.db, "baking")
	recipe := f.createRecipe(t, author, request("Bread", []uint{baking.ID}, item(flour.ID, 500)))
	viewer := domain.Authenticated(fan.ID)

	_, err := f.svc.ToggleMembership(ctx, viewer, domain.MembershipFavorite, recipe.ID, domain.IntentRemove)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	short, err := f.svc.ToggleMembership(ctx, viewer, domain.MembershipFavorite, recipe.ID, domain.IntentAdd)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, short.ID)
	assert.Equal(t, "Bread", short.Name)

	_, err = f.svc.ToggleMembership(ctx, viewer, domain.MembershipFavorite, recipe.ID, domain.IntentAdd)
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)

	got, err := f.svc.GetRecipe(ctx, viewer, recipe.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorited)
	assert.False(t, got.IsInShoppingCart)

	_, err = f.svc.ToggleMembership(ctx, viewer, domain.MembershipFavorite, recipe.ID, domain.IntentRemove)
	require.NoError(t, err)
	has, err := f.repo.HasMembership(ctx, domain.MembershipFavorite, fan.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = f.svc.ToggleMembership(ctx, domain.Anonymous(), domain.MembershipFavorite, recipe.ID, domain.IntentAdd)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = f.svc.ToggleMembership(ctx, viewer, domain.MembershipShoppingCart, 9999, domain.IntentAdd)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_DuplicateMembershipIsTranslated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "author")
	flour := testutil.CreateIngredient(t, f.db, "flour", "g")
	baking := testutil.CreateTag(t, f.db, "baking")
	recipe := f.createRecipe(t, author, request("Bread", []uint{baking.ID}, item(flour.ID, 500)))

	require.NoError(t, f.repo.AddMembership(ctx, domain.MembershipFavorite, author.ID, recipe.ID))
	err := f.repo.AddMembership(ctx, domain.MembershipFavorite, author.ID, recipe.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicateEntry)
}

func TestRecipeService_GetRecipesFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")
	flour := testutil.CreateIngredient(t, f.db, "flour", "g")
	breakfast := testutil.CreateTag(t, f.db, "breakfast")
	dinner := testutil.CreateTag(t, f.db, "dinner")

	pancakes := f.createRecipe(t, alice, request("Pancakes", []uint{breakfast.ID}, item(flour.ID, 100)))
	stew := f.createRecipe(t, bob, request("Stew", []uint{dinner.ID}, item(flour.ID, 10)))
	toast := f.createRecipe(t, bob, request("Toast", []uint{breakfast.ID, dinner.ID}, item(flour.ID, 50)))

	ids := func(res domain.RecipeListResponse) []uint {
		out := make([]uint, 0, len(res.Recipes))
		for _, r := range res.Recipes {
			out = append(out, r.ID)
		}
		return out
	}

	all, err := f.svc.GetRecipes(ctx, domain.Anonymous(), domain.RecipeFilter{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{toast.ID, stew.ID, pancakes.ID}, ids(all))
	assert.Equal(t, int64(3), all.Pagination.Total)

	byAuthor, err := f.svc.GetRecipes(ctx, domain.Anonymous(), domain.RecipeFilter{AuthorID: bob.ID}, 1, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{stew.ID, toast.ID}, ids(byAuthor))

	byTag, err := f.svc.GetRecipes(ctx, domain.Anonymous(), domain.RecipeFilter{TagSlugs: []string{"breakfast"}}, 1, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{pancakes.ID, toast.ID}, ids(byTag))

	viewer := domain.Authenticated(alice.ID)
	_, err = f.svc.ToggleMembership(ctx, viewer, domain.MembershipFavorite, stew.ID, domain.IntentAdd)
	require.NoError(t, err)

	favorites, err := f.svc.GetRecipes(ctx, viewer, domain.RecipeFilter{IsFavorited: true}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{stew.ID}, ids(favorites))
	assert.True(t, favorites.Recipes[0].IsFavorited)

	ignored, err := f.svc.GetRecipes(ctx, domain.Anonymous(), domain.RecipeFilter{IsFavorited: true}, 1, 10)
	require.NoError(t, err)
	assert.Len(t, ignored.Recipes, 3)

	cart, err := f.svc.GetRecipes(ctx, viewer, domain.RecipeFilter{IsInShoppingCart: true}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, cart.Recipes)

	paged, err := f.svc.GetRecipes(ctx, domain.Anonymous(), domain.RecipeFilter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint{pancakes.ID}, ids(paged))
	assert.Equal(t, int64(2), paged.Pagination.TotalPages)
}

func TestRecipeService_AuthorSubscriptionFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "author")
	reader := testutil.CreateUser(t, f.db, "reader")
	flour := testutil.CreateIngredient(t, f.db, "flour", "g")
	baking := testutil.CreateTag(t, f.db, "baking")
	recipe := f.createRecipe(t, author, request("Bread", []uint{baking.ID}, item(flour.ID, 500)))
	require.NoError(t, f.users.CreateFollow(ctx, reader.ID, author.ID))

	got, err := f.svc.GetRecipe(ctx, domain.Authenticated(reader.ID), recipe.ID)
	require.NoError(t, err)
	assert.True(t, got.Author.IsSubscribed)

	got, err = f.svc.GetRecipe(ctx, domain.Anonymous(), recipe.ID)
	require.NoError(t, err)
	assert.False(t, got.Author.IsSubscribed)
}

func TestRecipeService_ShoppingListExports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "author")
	flour := testutil.CreateIngredient(t, f.db, "Flour", "g")
	sugar := testutil.CreateIngredient(t, f.db, "Sugar", "g")
	baking := testutil.CreateTag(t, f.db, "baking")
	viewer := domain.Authenticated(author.ID)

	_, err := f.svc.DownloadShoppingList(ctx, viewer, shoppinglist.FormatText)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.ErrorIs(t, f.svc.SendShoppingList(ctx, viewer), domain.ErrEmptyCart)

	bread := f.createRecipe(t, author, request("Bread", []uint{baking.ID}, item(flour.ID, 200)))
	cake := f.createRecipe(t, author, request("Cake", []uint{baking.ID}, item(flour.ID, 300), item(sugar.ID, 50)))
	for _, id := range []uint{bread.ID, cake.ID} {
		_, err := f.svc.ToggleMembership(ctx, viewer, domain.MembershipShoppingCart, id, domain.IntentAdd)
		require.NoError(t, err)
	}

	txt, err := f.svc.DownloadShoppingList(ctx, viewer, shoppinglist.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "author_shopping_list.txt", txt.Filename)
	assert.Equal(t, "Shopping list for: First author Last author\n\nFlour (g) — 500\nSugar (g) — 50\n", string(txt.Body))

	csv, err := f.svc.DownloadShoppingList(ctx, viewer, shoppinglist.FormatCSV)
	require.NoError(t, err)
	assert.Contains(t, string(csv.Body), "Flour,g,500")

	require.NoError(t, f.svc.SendShoppingList(ctx, viewer))
	require.Len(t, f.mailer.Sent, 1)
	assert.Equal(t, author.Email, f.mailer.Sent[0].To)
	require.Len(t, f.mailer.Sent[0].Attachments, 1)
	assert.Equal(t, txt.Body, f.mailer.Sent[0].Attachments[0].Content)

	f.mailer.Err = errors.New("smtp down")
	assert.Error(t, f.svc.SendShoppingList(ctx, viewer))

	_, err = f.svc.DownloadShoppingList(ctx, domain.Anonymous(), shoppinglist.FormatText)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRecipeService_ShortLinks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "author")
	flour := testutil.CreateIngredient(t, f.db, "flour", "g")
	baking := testutil.CreateTag(t, f.db, "baking")
	recipe := f.createRecipe(t, author, request("Bread", []uint{baking.ID}, item(flour.ID, 500)))

	link, err := f.svc.GetLink(ctx, recipe.ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link.ShortLink, "https://foodgram.test/s/"))

	token := strings.TrimPrefix(link.ShortLink, "https://foodgram.test/s/")
	path, err := f.svc.ResolveShortLink(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("/recipes/%d/", recipe.ID), path)

	_, err = f.svc.ResolveShortLink(ctx, "!!!")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	missing, err := shortlink.Encode(4242)
	require.NoError(t, err)
	_, err = f.svc.ResolveShortLink(ctx, missing)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetLink(ctx, 4242)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
