// Command main runs the database seeder for QuietSpace.
package main

import (
	"flag"
	"log"

	"quietspace/internal/bootstrap"
	"quietspace/internal/config"
	"quietspace/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 10, "Number of users to create")
	numPosts := flag.Int("posts", 30, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	maxDays := flag.Int("days", 30, "Spread post timestamps over this many days")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	_, _, err = bootstrap.InitRuntime(cfg, bootstrap.Options{
		SeedDemoData: true,
		Seed: seed.Options{
			NumUsers:    *numUsers,
			NumPosts:    *numPosts,
			ShouldClean: *shouldClean,
			MaxDays:     *maxDays,
		},
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
