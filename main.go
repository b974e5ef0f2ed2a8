package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"foodgram/cmd/config"
	migration "foodgram/cmd/database/migrate"
	"foodgram/cmd/database/seed"
	"foodgram/internal/logging"
	"foodgram/internal/utils"
	"foodgram/pkg/ingredient"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "foodgram",
		Short: "Recipe sharing backend",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.LoadConfigFrom(configPath)
			logging.Init(logging.Config{
				Level:  utils.GetConfig("LOG_LEVEL"),
				Format: utils.GetConfig("LOG_FORMAT"),
			})
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path (YAML)")

	cmd.AddCommand(serveCmd(), migrateCmd(), seedCmd(), ingredientCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		logFile   string
		rateLimit int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.ConnectDB()
			if err != nil {
				return err
			}

			app, err := config.NewApp(db, config.Dependencies{
				LogFile:   logFile,
				RateLimit: rateLimit,
			})
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- app.Listen(":" + utils.GetConfig("APP_PORT"))
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				logging.Info().Str("signal", sig.String()).Msg("shutting down")
			}
			return app.ShutdownWithTimeout(10 * time.Second)
		},
	}
	cmd.Flags().StringVar(&logFile, "access-log", "./logs/app.log", "HTTP access log file, empty to disable")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", 20, "Requests per second per client, 0 to disable")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.ConnectDB()
			if err != nil {
				return err
			}
			return migration.Migrate(db)
		},
	}
}

func seedCmd() *cobra.Command {
	var ingredients, tags string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load ingredient and tag fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.ConnectDB()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			_, err = seed.Seed(ctx, db, ingredients, tags)
			return err
		},
	}
	cmd.Flags().StringVar(&ingredients, "ingredients", "data/ingredients.json", "Ingredient fixture (JSON)")
	cmd.Flags().StringVar(&tags, "tags", "data/tags.json", "Tag fixture (JSON)")
	return cmd
}

func ingredientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredient",
		Short: "Manage ingredient reference data",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an ingredient no recipe uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.ConnectDB()
			if err != nil {
				return err
			}
			svc := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db))
			return deleteIngredient(cmd.Context(), svc, args[0])
		},
	})
	return cmd
}

func deleteIngredient(ctx context.Context, svc ingredient.IngredientService, arg string) error {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid ingredient id %q", arg)
	}
	if err := svc.DeleteIngredient(ctx, uint(id)); err != nil {
		return err
	}
	logging.Info().Uint64("ingredient_id", id).Msg("ingredient deleted")
	return nil
}
