package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/app/store"
	"github.com/ikkim/storefront/internal/seed"
	"github.com/ikkim/storefront/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [--yes]")
	}

	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && (os.Args[2] == "--yes" || os.Args[2] == "-y")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	entries, skipped, err := seed.ReadProductsFile(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	for _, rowErr := range skipped {
		fmt.Printf("  skipped %s\n", rowErr.Error())
	}
	fmt.Printf("Total products to import: %d\n", len(entries))

	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	ctx := context.Background()
	repos, err := store.Open(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer repos.Close(ctx)

	importer := seed.NewImporter(repos.Products, repos.Users)

	admin, created, err := importer.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword, cfg.Seed.AdminName)
	switch {
	case errors.Is(err, seed.ErrAdminPasswordRequired):
		fmt.Println("Skipping admin user: SEED_ADMIN_PASSWORD is not set")
	case err != nil:
		log.Fatal("Failed to ensure admin user:", err)
	case created:
		fmt.Printf("Created admin user %s\n", admin.Email)
	default:
		fmt.Printf("Admin user %s already present\n", admin.Email)
	}

	result, err := importer.ImportProducts(ctx, entries)
	if err != nil {
		log.Fatal("Failed to import products:", err)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Created: %d\n", result.Created)
	fmt.Printf("  Updated: %d\n", result.Updated)
	fmt.Printf("  Rejected: %d\n", len(result.Failed)+len(skipped))
	for _, rowErr := range result.Failed {
		fmt.Printf("  rejected %s\n", rowErr.Error())
	}
}
