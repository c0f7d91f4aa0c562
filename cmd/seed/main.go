// Command seed fills the database with fixture categories and fake blog content.
package main

import (
	"context"
	"flag"
	"log"

	"blogapp/internal/config"
	"blogapp/internal/database"
	"blogapp/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of authors to create")
	numPosts := flag.Int("posts", 50, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for fake data (0 picks one)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	summary, err := seed.NewSeeder(db, *randSeed).Run(context.Background(), seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ Seeded %d categories, %d users, %d posts, %d comments, %d likes, %d bookmarks",
		summary.Categories, summary.Users, summary.Posts, summary.Comments, summary.Likes, summary.Bookmarks)
	log.Printf("📧 All seeded users have the password: %s", seed.DefaultPassword)
}
