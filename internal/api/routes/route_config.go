package routes

import (
	"foodgram/internal/api/handlers"
	"foodgram/internal/metrics"
	"foodgram/internal/middleware"
	"foodgram/pkg/jwt"
	"foodgram/pkg/policy"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	RecipeHandler     handlers.RecipeHandler
	IngredientHandler handlers.IngredientHandler
	TagHandler        handlers.TagHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Reference()
	c.User()
	c.Recipe()
	c.ShortLink()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", metrics.Handler())
}

func (c *Config) Reference() {
	tags := c.App.Group("/api/tags")
	tags.Get("/", c.TagHandler.GetTags)
	tags.Get("/:id", c.TagHandler.GetTag)

	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("/", c.IngredientHandler.GetIngredients)
	ingredients.Get("/:id", c.IngredientHandler.GetIngredient)
}

func (c *Config) User() {
	m := c.Middleware
	c.App.Post("/api/auth/token/login", c.UserHandler.Login)

	users := c.App.Group("/api/users", m.AuthMiddleware(c.JWTService))
	{
		users.Post("/", c.UserHandler.Register)
		users.Get("/", m.Require(policy.ActionList), c.UserHandler.GetUsers)
		users.Get("/me", m.Require(policy.ActionMe), c.UserHandler.Me)
		users.Put("/me/avatar", m.Require(policy.ActionAvatar), c.UserHandler.SetAvatar)
		users.Delete("/me/avatar", m.Require(policy.ActionAvatar), c.UserHandler.DeleteAvatar)
		users.Get("/subscriptions", m.Require(policy.ActionSubscriptions), c.UserHandler.GetSubscriptions)
		users.Get("/:id", m.Require(policy.ActionRetrieve), c.UserHandler.GetUser)
		users.Post("/:id/subscribe", m.Require(policy.ActionSubscribe), c.UserHandler.Subscribe)
		users.Delete("/:id/subscribe", m.Require(policy.ActionSubscribe), c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Recipe() {
	m := c.Middleware
	recipes := c.App.Group("/api/recipes", m.AuthMiddleware(c.JWTService))
	{
		recipes.Get("/", m.Require(policy.ActionList), c.RecipeHandler.GetRecipes)
		recipes.Post("/", m.Require(policy.ActionCreate), c.RecipeHandler.CreateRecipe)

		recipes.Get("/download_shopping_cart", m.Require(policy.ActionDownloadShoppingCart), c.RecipeHandler.DownloadShoppingCart)
		recipes.Post("/download_shopping_cart/email", m.Require(policy.ActionDownloadShoppingCart), c.RecipeHandler.SendShoppingCart)

		recipes.Get("/:id", m.Require(policy.ActionRetrieve), c.RecipeHandler.GetRecipe)
		recipes.Patch("/:id", m.Require(policy.ActionUpdate), c.RecipeHandler.UpdateRecipe)
		recipes.Put("/:id", m.Require(policy.ActionUpdate), c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", m.Require(policy.ActionDelete), c.RecipeHandler.DeleteRecipe)
		recipes.Get("/:id/get-link", m.Require(policy.ActionGetLink), c.RecipeHandler.GetLink)

		recipes.Post("/:id/favorite", m.Require(policy.ActionFavorite), c.RecipeHandler.AddFavorite)
		recipes.Delete("/:id/favorite", m.Require(policy.ActionFavorite), c.RecipeHandler.RemoveFavorite)
		recipes.Post("/:id/shopping_cart", m.Require(policy.ActionShoppingCart), c.RecipeHandler.AddShoppingCart)
		recipes.Delete("/:id/shopping_cart", m.Require(policy.ActionShoppingCart), c.RecipeHandler.RemoveShoppingCart)
	}
}

func (c *Config) ShortLink() {
	c.App.Get("/s/:token", c.Middleware.Require(policy.ActionResolveLink), c.RecipeHandler.ResolveShortLink)
}
