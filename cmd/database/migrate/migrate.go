package migration

import (
	"fmt"

	"foodgram/entities"
	"foodgram/internal/logging"

	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&entities.User{},
		&entities.Follow{},
		&entities.Ingredient{},
		&entities.Tag{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.RecipeTag{},
		&entities.Favorite{},
		&entities.ShoppingCartEntry{},
	}
}

func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			logging.Error().Err(err).Str("model", fmt.Sprintf("%T", model)).Msg("error migrating database")
			return err
		}
	}

	logging.Info().Msg("database migration complete")
	return nil
}
