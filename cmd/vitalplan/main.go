package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"vitalplan/internal/api"
	"vitalplan/internal/config"
	"vitalplan/internal/logging"
	"vitalplan/internal/storage"
)

// cli carries the shared dependencies of every command.
type cli struct {
	cfg     *config.Config
	client  *api.Client
	archive *storage.PlanArchive
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to read .env: %v", err)
	}
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	flush, err := logging.Setup(logging.Options{Mode: cfg.LogMode, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer flush()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	tokens, err := storage.NewFileTokenStore(cfg.TokenPath)
	if err != nil {
		log.Fatalf("Failed to open token store: %v", err)
	}
	archive, err := storage.NewPlanArchive(filepath.Join(filepath.Dir(cfg.DatabasePath), "plans"))
	if err != nil {
		log.Fatalf("Failed to open plan archive: %v", err)
	}
	c := &cli{
		cfg:     cfg,
		client:  api.NewClient(cfg.APIURL, tokens),
		archive: archive,
	}

	ctx := context.Background()
	args := os.Args[2:]

	switch os.Args[1] {
	case "login":
		err = c.login(ctx, args)
	case "register":
		err = c.register(ctx, args)
	case "logout":
		err = c.client.Logout()
		if err == nil {
			fmt.Println("Logged out.")
		}
	case "whoami":
		err = c.whoami(ctx)
	case "plan":
		err = c.plan(ctx, args)
	case "export-plan":
		err = c.exportPlan(ctx, args)
	case "catalog":
		err = c.catalog(args)
	case "scan":
		err = c.scan(ctx, args)
	case "order":
		err = c.order(ctx, args)
	case "orders":
		err = c.orders(ctx)
	case "metrics-cleanup":
		err = c.metricsCleanup(args)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		zap.S().Errorw("command failed", "command", os.Args[1], "error", err)
		flush()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: vitalplan <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  login             Sign in and store the session token")
	fmt.Println("  register          Create an account and sign in")
	fmt.Println("  logout            Forget the stored session")
	fmt.Println("  whoami            Show the signed-in user")
	fmt.Println("  plan              Generate a diet plan for the given goals")
	fmt.Println("  export-plan       Write the latest archived plan as PDF")
	fmt.Println("  catalog           Browse the marketplace")
	fmt.Println("  scan              Analyze a food photo")
	fmt.Println("  order             Buy marketplace products")
	fmt.Println("  orders            List orders from the backend")
	fmt.Println("  metrics-cleanup   Remove old metric records")
}
