package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/JFernando12/app-interviews-sub000/internal/app"
	"github.com/JFernando12/app-interviews-sub000/internal/config"
	"github.com/JFernando12/app-interviews-sub000/internal/logging"
	"github.com/JFernando12/app-interviews-sub000/internal/upload"
)

var commands = map[string]struct {
	args  int
	usage string
}{
	"pending":  {1, "pending"},
	"requeue":  {2, "requeue <interview_id>"},
	"seed":     {2, "seed <questions.json>"},
	"set-plan": {3, "set-plan <user_id> <free|pro>"},
}

func main() {
	envFile := flag.String("env", ".env", "Path to an optional .env file")
	flag.Usage = printUsageAndExit
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printUsageAndExit()
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsageAndExit()
	}
	if len(args) != cmd.args {
		fmt.Printf("Usage: %s\n", cmd.usage)
		os.Exit(1)
	}

	if err := run(*envFile, args); err != nil {
		slog.Error("command failed", "command", args[0], "error", err)
		os.Exit(1)
	}
}

// run executes one validated command. Everything it opens is closed before
// it returns.
func run(envFile string, args []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	closer, err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: "auto"})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closer.Close()

	ctx := context.Background()
	loader := app.NewAWSLoader(cfg.AWSRegion)

	st, err := app.OpenStore(ctx, cfg, loader)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	defer st.Close()

	a := &admin{store: st, out: os.Stdout}

	switch args[0] {
	case "pending":
		return a.pending(ctx)
	case "requeue":
		if a.uploads, err = uploadService(ctx, cfg, loader, a); err != nil {
			return err
		}
		return a.requeue(ctx, args[1])
	case "seed":
		return a.seedFile(ctx, args[1])
	case "set-plan":
		return a.setPlan(ctx, args[1], args[2])
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func printUsageAndExit() {
	fmt.Println("Usage: ./admin [-env FILE] COMMAND")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  pending                      - List interviews whose video has not finished processing")
	fmt.Println("  requeue <interview_id>       - Publish the upload descriptor of an interview again")
	fmt.Println("  seed <questions.json>        - Add global questions from a JSON array")
	fmt.Println("  set-plan <user_id> <plan>    - Change the subscription plan of a user")
	os.Exit(1)
}

func uploadService(ctx context.Context, cfg *config.Config, loader *app.AWSLoader, a *admin) (*upload.Service, error) {
	gateway, _, err := app.NewGateway(ctx, cfg, loader)
	if err != nil {
		return nil, err
	}
	publisher, err := app.NewPublisher(ctx, cfg, loader)
	if err != nil {
		return nil, err
	}
	return upload.NewService(a.store, gateway, publisher, cfg.UploadURLTTL), nil
}
