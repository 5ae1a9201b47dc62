// Command main runs the database seeder for Ummah Connect.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/bootstrap"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/config"
)

func main() {
	profilePath := flag.String("profile", "", "Path to a YAML seed profile (empty = built-in default)")
	clean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	_, _, err = bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{
		SeedDemo:        true,
		SeedProfilePath: *profilePath,
		CleanBeforeSeed: *clean,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
