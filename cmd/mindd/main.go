// Command mindd runs the NPC mind server: it hosts minds, exposes
// decide_action / consolidate_memories / get_state over WebSocket, and
// optionally persists mind snapshots to Redis.
package main

import (
	"flag"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/redis/go-redis/v9"

	"github.com/playhaven-ai/mind-go-sdk/genai"
	"github.com/playhaven-ai/mind-go-sdk/mind"
	"github.com/playhaven-ai/mind-go-sdk/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML server config")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg := mind.DefaultServerConfig()
	if *configPath != "" {
		var err error
		cfg, err = mind.LoadServerConfig(*configPath)
		if err != nil {
			log.Fatalf("[MINDD] %v", err)
		}
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	// Reads ANTHROPIC_API_KEY from the environment.
	api := anthropic.NewClient()
	var clientOpts []genai.AnthropicOption
	if cfg.Model != "" {
		clientOpts = append(clientOpts, genai.WithModel(cfg.Model))
	}
	client := genai.NewAnthropicClient(&api, clientOpts...)

	embedder, err := newEmbedder()
	if err != nil {
		log.Fatalf("[MINDD] embedder: %v", err)
	}

	var snapshots *mind.SnapshotStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		snapshots = mind.NewSnapshotStore(rdb, 0)
		log.Printf("[MINDD] snapshot persistence via redis at %s", cfg.Redis.Addr)
	}

	srv := server.New(cfg, client, embedder, snapshots)
	log.Fatal(srv.ListenAndServe())
}
