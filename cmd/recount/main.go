// Command main recomputes post engagement counters from the detail
// tables. Run it after a restore, a migration, or whenever drift is
// suspected; recounting is idempotent.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/bootstrap"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/config"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/repository"
	"github.com/Sakhiur2022/Ummah-Connect-Project/internal/service"
)

func main() {
	postID := flag.Uint("post", 0, "Recount a single post ID (0 = all posts)")
	batchSize := flag.Int("batch", 200, "Posts per batch when recounting all")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall time budget")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, rdb, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	counters := service.NewCounterService(db, repository.NewCounterRepository(db, rdb))

	start := time.Now()
	if *postID != 0 {
		counter, err := counters.Recount(ctx, *postID, "cli")
		if err != nil {
			log.Fatalf("Recount of post %d failed: %v", *postID, err)
		}
		log.Printf("Post %d: reactions=%d comments=%d shares=%d version=%d",
			counter.PostID, counter.TotalReactions, counter.TotalComments,
			counter.TotalShares, counter.Version)
		return
	}

	visited, err := counters.RecountAll(ctx, *batchSize, "cli")
	if err != nil {
		log.Fatalf("Recount stopped after %d posts: %v", visited, err)
	}
	log.Printf("Recounted %d posts in %s", visited, time.Since(start).Round(time.Millisecond))
}
