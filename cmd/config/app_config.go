package config

import (
	"os"
	"path/filepath"
	"time"

	"foodgram/internal/api/handlers"
	"foodgram/internal/api/routes"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/jwt"
	"foodgram/pkg/policy"
	"foodgram/pkg/recipe"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"
	"foodgram/pkg/validation"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Dependencies are the outbound adapters NewApp wires into the services.
// Nil fields fall back to the production implementations. An empty LogFile
// disables the access log and a zero RateLimit disables the limiter.
type Dependencies struct {
	Storage    storage.Storage
	Mailer     mailing.Mailer
	JWTService jwt.JWTService
	LogFile    string
	RateLimit  int
}

func NewApp(db *gorm.DB, deps Dependencies) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	validator := utils.NewValidator()

	// setting up logging and limiter
	if deps.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(deps.LogFile), os.ModePerm); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(
			deps.LogFile,
			os.O_RDWR|os.O_CREATE|os.O_APPEND,
			0666,
		)
		if err != nil {
			return nil, err
		}
		app.Use(logger.New(logger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			TimeZone:   "UTC",
			Output:     file,
		}))
	}
	if deps.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        deps.RateLimit,
			Expiration: 1 * time.Second,
		}))
	}
	app.Use(recover.New())

	// utils
	if deps.Storage == nil {
		deps.Storage = storage.NewAwsS3()
	}
	if deps.Mailer == nil {
		deps.Mailer = mailing.NewMailer()
	}
	if deps.JWTService == nil {
		deps.JWTService = jwt.NewJWTService()
	}
	accessPolicy, err := policy.NewPolicy()
	if err != nil {
		return nil, err
	}
	middlewares := middleware.NewMiddleware(accessPolicy)

	// Repository
	userRepository := user.NewUserRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	tagRepository := tag.NewTagRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)

	engine := validation.NewEngine(validation.Lookups{
		Ingredients: ingredientRepository,
		Tags:        tagRepository,
		Memberships: recipeRepository,
		Follows:     userRepository,
	})

	// Service
	userService := user.NewUserService(userRepository, recipeRepository, engine, deps.JWTService, deps.Storage)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	tagService := tag.NewTagService(tagRepository)
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		userRepository,
		recipe.NewComposer(recipeRepository, engine, deps.Storage),
		recipe.NewAggregator(recipeRepository),
		engine,
		accessPolicy,
		deps.Mailer,
		utils.GetConfig("APP_URL"),
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)
	tagHandler := handlers.NewTagHandler(tagService)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		RecipeHandler:     recipeHandler,
		IngredientHandler: ingredientHandler,
		TagHandler:        tagHandler,
		Middleware:        middlewares,
		JWTService:        deps.JWTService,
	}
	routesConfig.Setup()
	return app, nil
}
