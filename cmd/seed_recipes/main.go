package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/mealmatch/backend/config"
	"github.com/pageza/mealmatch/backend/internal/app"
	"github.com/pageza/mealmatch/backend/internal/logger"
	"github.com/pageza/mealmatch/backend/internal/types"
)

//go:embed recipes.json
var defaultCatalog []byte

// loadCatalog reads recipes from path, or the embedded sample catalog when path is empty
func loadCatalog(path string) ([]types.CreateRecipeRequest, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
	}
	var recipes []types.CreateRecipeRequest
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return recipes, nil
}

func main() {
	file := flag.String("file", "", "JSON file of recipes (defaults to the built-in sample catalog)")
	flag.Parse()

	recipes, err := loadCatalog(*file)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zl, err := logger.NewLogger(cfg.Environment.String(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	owner := uuid.New()
	created := 0
	for _, req := range recipes {
		recipe, err := a.Recipes.CreateRecipe(ctx, req.ToModel(owner))
		if err != nil {
			zl.Warn("skipping recipe", zap.String("name", req.Name), zap.Error(err))
			continue
		}
		created++
		zl.Debug("created recipe", zap.String("id", recipe.ID.String()), zap.String("name", recipe.Name))
	}

	// One training pass for the whole batch
	result, err := a.Engine.Retrain(ctx)
	if err != nil {
		zl.Error("model training failed", zap.Error(err))
		return
	}
	zl.Info("seeded recipes",
		zap.Int("created", created),
		zap.Int("corpus_size", result.CorpusSize),
		zap.Int("vocabulary_size", result.VocabularySize),
	)
}
