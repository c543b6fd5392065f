// Command contrast-server runs the Contrast REST/WebSocket API server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cwfinch/contrast/internal/ntuple"
	"github.com/cwfinch/contrast/pkg/api"
	"github.com/cwfinch/contrast/pkg/trainer"
)

const version = "0.1.0"

func main() {
	host := flag.String("host", "localhost", "host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", 8080, "port to listen on")
	weightsFile := flag.String("weights", "", "path to a trained network checkpoint (empty uses a fresh untrained network)")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	maxFastWorkers := flag.Int("max-fast-workers", 100, "max concurrent rules-engine operations")
	maxSlowWorkers := flag.Int("max-slow-workers", 4, "max concurrent MCTS searches")
	showVersion := flag.Bool("version", false, "show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("contrast-server v%s\n", version)
		os.Exit(0)
	}

	log.Printf("contrast-server v%s", version)

	var net *ntuple.Network
	if *weightsFile != "" {
		loaded, err := trainer.LoadCheckpoint(*weightsFile)
		if err != nil {
			log.Fatalf("Failed to load weights from %s: %v", *weightsFile, err)
		}
		net = loaded
		log.Printf("Loaded weights from %s", *weightsFile)
	} else {
		log.Printf("No weights file given, mcts ai_move requests will use an untrained network")
	}

	config := api.ServerConfig{
		Host:           *host,
		Port:           *port,
		ReadTimeout:    *readTimeout,
		WriteTimeout:   *writeTimeout,
		IdleTimeout:    60 * time.Second,
		MaxFastWorkers: *maxFastWorkers,
		MaxSlowWorkers: *maxSlowWorkers,
	}

	server := api.NewServer(net, config, version)
	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
