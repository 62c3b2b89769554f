// Command seed loads the demo marketplace data, optionally padded with
// synthetic users and listings.
package main

import (
	"context"
	"flag"
	"log"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/seed"
)

func main() {
	// Parse command line flags
	extraUsers := flag.Int("users", 0, "Number of synthetic users to add on top of the demo dataset")
	listingsPerUser := flag.Int("listings", 3, "Number of listings per synthetic user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Build synthetic rows without writing them")
	randSeed := flag.Int64("rand-seed", 0, "Seed for synthetic data (0 picks a random one)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: demo dataset + %d users x %d listings, clean=%v\n", *extraUsers, *listingsPerUser, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() && *shouldClean {
		log.Fatal("❌ Refusing to clean a production database")
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	res, err := seed.Seed(context.Background(), db, seed.Options{
		ExtraUsers:      *extraUsers,
		ListingsPerUser: *listingsPerUser,
		ShouldClean:     *shouldClean,
		DryRun:          *dryRun,
		RandSeed:        *randSeed,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done! %d users and %d listings created.", res.Users, res.Listings)
}
