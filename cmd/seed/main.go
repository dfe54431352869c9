// Command seed populates the database with demo marketplace data.
package main

import (
	"flag"
	"log"

	"caerus/internal/config"
	"caerus/internal/database"
	"caerus/internal/seed"
)

func main() {
	numFounders := flag.Int("founders", 20, "Number of founders (each with a published pitch) to create")
	numInvestors := flag.Int("investors", 15, "Number of investors to create")
	numTalent := flag.Int("talent", 10, "Number of approved talent profiles to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	maxDays := flag.Int("max-days", 90, "Spread account creation over the last N days")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d founders, %d investors, %d talent, clean=%v\n",
		*numFounders, *numInvestors, *numTalent, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{MaxDays: *maxDays})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if err := s.SeedMarketplace(*numFounders, *numInvestors, *numTalent); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with demo data.")
}
