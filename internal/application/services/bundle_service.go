package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/domain/providers"
	"github.com/yachtdrop/backend/internal/domain/repositories"
	apperrors "github.com/yachtdrop/backend/pkg/errors"
)

const bundleSampleSize = 50

// Curated kits for the storefront landing page. Keywords, not product IDs,
// so the kits survive catalog churn.
var defaultBundleDefinitions = []entities.BundleDefinition{
	{
		ID:          "weekend-cruise",
		Name:        "Weekend Cruise Kit",
		Description: "Everything for a relaxing weekend on the water",
		Icon:        "⛵",
		Keywords:    []string{"sunscreen", "cooler", "rope", "fender", "snack", "drink", "towel", "first aid"},
		MaxProducts: 6,
	},
	{
		ID:          "safety-essentials",
		Name:        "Safety Essentials",
		Description: "Must-have safety gear for every voyage",
		Icon:        "🚨",
		Keywords:    []string{"life jacket", "fire extinguisher", "flare", "first aid", "whistle", "light", "safety"},
		MaxProducts: 6,
	},
	{
		ID:          "docking-package",
		Name:        "Docking Package",
		Description: "Dock like a pro every time",
		Icon:        "⚓",
		Keywords:    []string{"dock line", "fender", "cleat", "boat hook", "bumper", "mooring", "rope"},
		MaxProducts: 6,
	},
	{
		ID:          "engine-care",
		Name:        "Engine Care",
		Description: "Keep your engine running smooth",
		Icon:        "🔧",
		Keywords:    []string{"oil", "filter", "spark plug", "fuel", "engine", "coolant", "impeller", "belt"},
		MaxProducts: 6,
	},
	{
		ID:          "deck-maintenance",
		Name:        "Deck Maintenance",
		Description: "Keep your deck clean and protected",
		Icon:        "🧹",
		Keywords:    []string{"cleaner", "polish", "wax", "brush", "teak", "soap", "sponge", "protectant"},
		MaxProducts: 6,
	},
}

// BundleDraft is the raw model output of a definition generation run plus
// the catalog snapshot the model saw
type BundleDraft struct {
	Raw         string   `json:"raw"`
	Categories  []string `json:"categories"`
	SampleCount int      `json:"sampleCount"`
}

// BundleService assembles themed product kits by resolving keyword
// definitions against the live catalog
type BundleService struct {
	products   repositories.ProductSearchRepository
	categories repositories.CategoryRepository
	ai         providers.AIProvider
	defs       []entities.BundleDefinition
}

// NewBundleService creates a bundle service over the built-in definitions.
// ai may be nil; listing works without it, only draft generation needs it.
func NewBundleService(
	products repositories.ProductSearchRepository,
	categories repositories.CategoryRepository,
	ai providers.AIProvider,
) *BundleService {
	return &BundleService{
		products:   products,
		categories: categories,
		ai:         ai,
		defs:       defaultBundleDefinitions,
	}
}

// List resolves every definition against the catalog. Definitions whose
// keywords match nothing are dropped rather than shown empty.
func (s *BundleService) List(ctx context.Context) []*entities.Bundle {
	bundles := make([]*entities.Bundle, 0, len(s.defs))
	for _, def := range s.defs {
		products := s.resolve(ctx, def)
		if len(products) == 0 {
			continue
		}

		total := 0.0
		for _, p := range products {
			total += p.Price
		}

		bundles = append(bundles, &entities.Bundle{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Products:    products,
			TotalPrice:  math.Round(total*100) / 100,
		})
	}
	return bundles
}

// resolve runs the single any-keyword query; when it fails the keywords are
// scanned one by one with the extension-free substring search instead
func (s *BundleService) resolve(ctx context.Context, def entities.BundleDefinition) []*entities.Product {
	rows, err := s.products.ListByNameKeywords(ctx, def.Keywords, def.MaxProducts)
	if err == nil {
		return rows
	}
	log.Warn().Err(err).Str("bundle", def.ID).Msg("Bundle keyword query failed, scanning per keyword")

	seen := map[string]bool{}
	merged := []*entities.Product{}
	for _, kw := range def.Keywords {
		if len(merged) >= def.MaxProducts {
			break
		}
		matches, err := s.products.SearchSubstring(ctx, kw, def.MaxProducts)
		if err != nil {
			continue
		}
		for _, p := range matches {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			merged = append(merged, p)
			if len(merged) >= def.MaxProducts {
				break
			}
		}
	}
	return merged
}

// GenerateDefinitions asks the model for fresh definition drafts based on
// the current categories and a catalog sample. The output is returned raw
// for a human to review; drafts never go live unvetted.
func (s *BundleService) GenerateDefinitions(ctx context.Context) (*BundleDraft, error) {
	if s.ai == nil {
		return nil, apperrors.NewUnavailableError("bundle generation requires the AI provider")
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	samples, err := s.products.ListAvailable(ctx, bundleSampleSize)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	sampleNames := make([]string, len(samples))
	for i, p := range samples {
		sampleNames[i] = p.Name
	}

	prompt := fmt.Sprintf(`Given these marine supply categories: %s

And sample products: %s

Generate 5 themed bundle kits for yacht/boat crew. For each bundle return JSON:
{ "id": "slug", "name": "Bundle Name", "description": "Short desc", "icon": "emoji", "keywords": ["keyword1", "keyword2", ...], "maxProducts": 6 }

Return ONLY a JSON array, no explanation.`, strings.Join(names, ", "), strings.Join(sampleNames, ", "))

	raw, err := s.ai.Complete(ctx, providers.CompletionRequest{
		System:      "You are a marine supply expert. Return only valid JSON.",
		User:        prompt,
		MaxTokens:   800,
		Temperature: 0.5,
	})
	if err != nil {
		return nil, err
	}

	return &BundleDraft{
		Raw:         raw,
		Categories:  names,
		SampleCount: len(samples),
	}, nil
}
