package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/yachtdrop/backend/internal/adapters/database"
	"github.com/yachtdrop/backend/internal/domain/entities"
	"github.com/yachtdrop/backend/internal/infrastructure/clients/postgres"
	"github.com/yachtdrop/backend/pkg/config"
)

type seedProduct struct {
	sku       string
	name      string
	shortDesc string
	price     float64
	brand     string
	category  string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()
	db := pgClient.DB()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := db.ExecContext(ctx, `
			TRUNCATE TABLE
				products,
				categories,
				marinas
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	// 1. Seed Categories
	categories := []struct {
		name string
		icon string
	}{
		{"Anchoring & Mooring", "anchor"},
		{"Covers & Canvas", "shield"},
		{"Deck Hardware", "wrench"},
		{"Electronics & Navigation", "compass"},
		{"Lighting", "lightbulb"},
		{"Maintenance & Cleaning", "droplet"},
		{"Safety Equipment", "life-buoy"},
		{"Ropes & Lines", "link"},
	}

	categoryIDs := map[string]string{}
	for order, c := range categories {
		id := uuid.New().String()
		categoryIDs[c.name] = id
		_, err := db.ExecContext(ctx,
			`INSERT INTO categories (id, name, slug, icon, display_order, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			 ON CONFLICT (slug) DO NOTHING`,
			id, c.name, slugify(c.name), c.icon, order,
		)
		if err != nil {
			log.Printf("Failed to create category %s: %v", c.name, err)
		}
	}

	// 2. Seed Products
	products := []seedProduct{
		{"ANC-GALV-10", "Galvanized Anchor 10kg", "Holds well in sand and mud", 89.90, "PLASTIMO", "Anchoring & Mooring"},
		{"ANC-FOLD-4", "Folding Grapnel Anchor 4kg", "Compact anchor for tenders", 34.50, "PLASTIMO", "Anchoring & Mooring"},
		{"MOOR-LINE-12", "Mooring Line 12mm x 10m", "Three-strand polyester with spliced eye", 24.90, "", "Ropes & Lines"},
		{"COV-BOAT-M", "Boat Cover Medium 5-6m", "Waterproof polyester, UV resistant", 119.00, "OCEANSOUTH", "Covers & Canvas"},
		{"COV-CONSOLE", "Console Cover", "Fits most centre consoles", 45.00, "OCEANSOUTH", "Covers & Canvas"},
		{"LED-NAV-SET", "LED Navigation Light Set", "Port, starboard and stern lights", 64.90, "HELLA MARINE", "Lighting"},
		{"LED-STRIP-2M", "Waterproof LED Strip 2m", "Warm white deck lighting", 29.90, "", "Lighting"},
		{"CLEAN-HULL-1L", "Hull Cleaner 1L", "Removes waterline stains and growth", 18.50, "STAR BRITE", "Maintenance & Cleaning"},
		{"SEAL-5200", "Marine Adhesive Sealant", "Permanent polyurethane bond, below waterline", 22.90, "3M", "Maintenance & Cleaning"},
		{"LIFE-VEST-ADULT", "Adult Life Vest 100N", "CE approved, adjustable straps", 39.90, "SECUMAR", "Safety Equipment"},
		{"FLARE-KIT", "Coastal Flare Kit", "SOLAS compliant distress signals", 54.00, "", "Safety Equipment"},
		{"GPS-CHART-7", "Chartplotter 7 inch", "Touchscreen with Mediterranean charts", 649.00, "GARMIN", "Electronics & Navigation"},
		{"VHF-HANDHELD", "Handheld VHF Radio", "Floating, IPX7 waterproof", 129.00, "STANDARD HORIZON", "Electronics & Navigation"},
		{"CLEAT-SS-150", "Stainless Steel Cleat 150mm", "Mirror polished AISI 316", 15.90, "", "Deck Hardware"},
		{"FENDER-F3", "Fender F3", "Ribbed marine vinyl, 22x76cm", 26.50, "POLYFORM", "Deck Hardware"},
	}

	for _, p := range products {
		categoryID, ok := categoryIDs[p.category]
		if !ok {
			log.Printf("Skipping product %s: unknown category %s", p.name, p.category)
			continue
		}
		_, err := db.ExecContext(ctx,
			`INSERT INTO products (id, external_id, sku, name, slug, short_desc, price, currency, stock_status, category_id, brand, available, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, 'EUR', $8, $9, $10, true, NOW(), NOW())
			 ON CONFLICT (sku) DO NOTHING`,
			uuid.New().String(), p.sku, p.sku, p.name, slugify(p.name), p.shortDesc,
			p.price, string(entities.StockStatusInStock), categoryID, p.brand,
		)
		if err != nil {
			log.Printf("Failed to create product %s: %v", p.name, err)
		}
	}

	// 3. Seed Marinas (western Mediterranean)
	marinaRepo := database.NewMarinaAdapter(pgClient)
	marinas := []struct {
		name    string
		city    string
		country string
		lat     float64
		lng     float64
	}{
		{"Port Vell", "Barcelona", "Spain", 41.3751, 2.1840},
		{"Port Olimpic", "Barcelona", "Spain", 41.3874, 2.2003},
		{"Marina Port de Mallorca", "Palma", "Spain", 39.5665, 2.6309},
		{"Port Hercule", "Monaco", "Monaco", 43.7347, 7.4263},
		{"Vieux Port de Marseille", "Marseille", "France", 43.2951, 5.3740},
		{"Marina di Portofino", "Portofino", "Italy", 44.3032, 9.2097},
		{"Marina Smir", "M'diq", "Morocco", 35.7508, -5.3428},
	}

	for _, m := range marinas {
		lat, lng := m.lat, m.lng
		marina := &entities.Marina{
			ID:      uuid.New().String(),
			Name:    m.name,
			City:    m.city,
			Country: m.country,
			Lat:     &lat,
			Lng:     &lng,
		}
		if err := marinaRepo.Create(ctx, marina); err != nil {
			log.Printf("Failed to create marina %s: %v", m.name, err)
		}
	}

	log.Println("Seeding completed successfully")
}

func slugify(name string) string {
	slug := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			slug = append(slug, r)
		case r >= 'A' && r <= 'Z':
			slug = append(slug, r+('a'-'A'))
		case r == ' ' || r == '-' || r == '&':
			if len(slug) > 0 && slug[len(slug)-1] != '-' {
				slug = append(slug, '-')
			}
		}
	}
	for len(slug) > 0 && slug[len(slug)-1] == '-' {
		slug = slug[:len(slug)-1]
	}
	return string(slug)
}
