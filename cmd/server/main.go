package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"gridwraith/internal/api"
	"gridwraith/internal/config"
	"gridwraith/internal/game"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("👻 ================================")
	log.Println("👻  GRIDWRAITH - TURN ENGINE")
	log.Println("👻 ================================")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	serverCfg := appConfig.Server
	matchCfg := appConfig.Match
	paths := appConfig.Paths

	log.Printf("🕹️ Config: trap turns %d, cell size %dpx", matchCfg.TrapTurns, appConfig.Render.CellSize)

	// Create the turn engine
	engine := game.NewEngine(game.Options{
		TrapTurns: matchCfg.TrapTurns,
	})

	// Load the startup level
	level := game.DefaultLevel()
	if paths.LevelFile != "" {
		loaded, err := game.LoadLevelFile(paths.LevelFile)
		if err != nil {
			log.Fatalf("❌ Level file %s: %v", paths.LevelFile, err)
		}
		level = loaded
		log.Printf("🗺️ Level: %s (%dx%d, %d spawns)", paths.LevelFile, level.Width, level.Height, len(level.Spawns))
	} else {
		log.Printf("🗺️ Level: built-in (%dx%d, %d spawns)", level.Width, level.Height, len(level.Spawns))
	}
	if err := engine.SetupLevel(level); err != nil {
		log.Fatalf("❌ Level setup: %v", err)
	}

	// Start event log
	if err := engine.StartEventLog(paths.EventLogFile); err != nil {
		log.Printf("⚠️ Event log disabled: %v", err)
	} else {
		log.Printf("📝 Event log: %s", paths.EventLogFile)
	}

	// Start debug server
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	// Create the API server
	server := api.NewServer(engine)

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("🛑 Received %v, shutting down...", sig)
		server.Stop()
		engine.StopEventLog()
		os.Exit(0)
	}()

	addr := ":" + strconv.Itoa(serverCfg.Port)
	if err := server.Start(addr); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
}
