package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hyperlocal/internal/cache"
	"hyperlocal/internal/config"
	"hyperlocal/internal/db"
	"hyperlocal/internal/legacy"
	"hyperlocal/internal/location"
	"hyperlocal/internal/logging"
	"hyperlocal/internal/model"
	"hyperlocal/internal/repository"
	"hyperlocal/internal/service"
)

var (
	cfg    *config.Config
	logger *zap.Logger

	pinCode  string
	area     string
	allKnown bool

	usersFile string
	postsFile string
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed and import data for the hyperlocal feed",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		var err error
		logger, err = logging.New(cfg.IsProduction())
		return err
	},
	SilenceUsage: true,
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Insert starter posts into empty location feeds",
	Long: `Inserts the default notices for a location whose feed is empty.
Locations that already have posts are left untouched.

Example:
  seed posts --pin-code 400072 --area "Jari Mari"
  seed posts --all`,
	RunE: seedPosts,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import legacy users and posts CSV tables",
	Long: `Reads the flat-file users and posts tables and appends them to the database.
Missing or corrupt files are treated as empty tables. Users whose email
already exists and posts already present are skipped, so the import can be
run again safely.`,
	RunE: importLegacy,
}

func init() {
	postsCmd.Flags().StringVar(&pinCode, "pin-code", "", "pin code of the location")
	postsCmd.Flags().StringVar(&area, "area", "", "area of the location")
	postsCmd.Flags().BoolVar(&allKnown, "all", false, "seed every location in the directory")

	importCmd.Flags().StringVar(&usersFile, "users", "users.csv", "legacy users table")
	importCmd.Flags().StringVar(&postsFile, "posts", "posts.csv", "legacy posts table")

	rootCmd.AddCommand(postsCmd, importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, error) {
	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, err
	}
	return gormDB, nil
}

func seedPosts(cmd *cobra.Command, args []string) error {
	directory := location.NewDirectory(location.Defaults{})

	var targets []model.Location
	switch {
	case allKnown:
		targets = directory.All()
	case pinCode != "" && area != "":
		targets = []model.Location{{PinCode: pinCode, Area: area}}
	default:
		return fmt.Errorf("either --all or both --pin-code and --area are required")
	}

	gormDB, err := openDB()
	if err != nil {
		return err
	}
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()

	posts := service.NewPostService(repository.NewPostRepository(gormDB), cacheClient, logger)
	ctx := context.Background()

	total := 0
	for _, loc := range targets {
		if !directory.Known(loc) {
			logger.Warn("location not in directory, seeding anyway", zap.String("location", loc.String()))
		}
		inserted, err := posts.SeedDefaultPostsIfEmpty(ctx, loc.PinCode, loc.Area)
		if err != nil {
			return fmt.Errorf("seed %s: %w", loc, err)
		}
		if inserted == 0 {
			logger.Info("location already has posts", zap.String("location", loc.String()))
		}
		total += inserted
	}

	logger.Info("seed completed", zap.Int("locations", len(targets)), zap.Int("posts_created", total))
	return nil
}

func importLegacy(cmd *cobra.Command, args []string) error {
	loader := legacy.NewLoader(logger)
	users := loader.LoadUsers(usersFile)
	posts := loader.LoadPosts(postsFile)
	logger.Info("legacy tables loaded", zap.Int("users", len(users)), zap.Int("posts", len(posts)))

	gormDB, err := openDB()
	if err != nil {
		return err
	}
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()

	importer := service.NewImportService(repository.NewUserRepository(gormDB), repository.NewPostRepository(gormDB), cacheClient)
	result, err := importer.Import(context.Background(), users, posts)
	if err != nil {
		return err
	}

	logger.Info("import completed",
		zap.Int("users_created", result.UsersCreated),
		zap.Int("users_skipped", result.UsersSkipped),
		zap.Int("posts_created", result.PostsCreated),
		zap.Int("posts_skipped", result.PostsSkipped))
	return nil
}
