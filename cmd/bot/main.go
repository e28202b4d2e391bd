package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gamenight/schnapsen-client/internal/config"
	"github.com/gamenight/schnapsen-client/internal/logger"
	"github.com/gamenight/schnapsen-client/internal/stats"
)

func main() {
	configPath := flag.String("config", "", "config file path (defaults applied when empty)")
	count := flag.Int("count", 0, "concurrent clients, overrides config")
	flag.Parse()

	if err := logger.Init(); err != nil {
		log.Printf("logger init failed: %v", err)
	} else {
		fmt.Printf("debug log: %s\n", logger.GetLogPath())
	}
	defer logger.Close()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *count > 0 {
		cfg.Bot.Count = *count
	}

	var recorder *stats.Recorder
	if cfg.Redis.Addr != "" {
		recorder = stats.NewRecorder(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	}

	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < cfg.Bot.Count; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()

			userID := fmt.Sprintf("bot-%s", uuid.NewString())
			bot := newBot(index, userID, cfg, recorder)
			if err := bot.run(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "client %d: %v\n", index, err)
			}
		}(i)
	}
	wg.Wait()
}
