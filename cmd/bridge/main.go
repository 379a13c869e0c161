package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/davisromans/elliott-optimizer/internal/bridge"
)

const (
	AppName    = "MT5 Signal Bridge"
	AppVersion = "1.2.0"
)

func main() {
	var (
		addr        = flag.String("addr", "", "Listen address (default :3000, env BRIDGE_ADDR)")
		envFile     = flag.String("env", ".env", "Path to environment file")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("⚠️  Could not load %s (%v), using system environment", *envFile, err)
	}

	listenAddr := *addr
	if listenAddr == "" {
		listenAddr = os.Getenv("BRIDGE_ADDR")
	}

	evaluator := bridge.NewEvaluator(bridge.DefaultEvaluatorConfig())
	server := bridge.NewServer(listenAddr, evaluator)

	fmt.Printf("🎯 %s v%s\n", strings.ToUpper(AppName), AppVersion)
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Endpoints: POST /signal | GET /healthz | GET /metrics")

	if err := server.Run(); err != nil {
		log.Fatalf("❌ Bridge server stopped: %v", err)
	}
}
