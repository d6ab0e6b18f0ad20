package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/wak-lab-e-v/jw-db-manager/pkg/config"
	"github.com/wak-lab-e-v/jw-db-manager/pkg/ingest"
	"github.com/wak-lab-e-v/jw-db-manager/pkg/logging"
	"github.com/wak-lab-e-v/jw-db-manager/pkg/match"
	"github.com/wak-lab-e-v/jw-db-manager/process"
)

var (
	cfg       *config.Config
	jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)
)

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	logger := logging.Initialize(cfg.Environment)

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	args := os.Args[2:]

	switch cmd {
	case "migrate":
		initDB(cfg)
		fmt.Println("migration and seeding completed")

	case "serve":
		initDB(cfg)
		if cfg.IsProduction() {
			gin.SetMode(gin.ReleaseMode)
		}
		r := gin.Default()
		setupRoutes(r)
		logger.Info("serving", "addr", cfg.HTTPAddr)
		if err := r.Run(cfg.HTTPAddr); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}

	case "import":
		fs := flag.NewFlagSet("import", flag.ExitOnError)
		sheet := fs.String("sheet", cfg.ImportSheet, "worksheet name (default: first sheet)")
		fs.Parse(args)
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "usage: import [-sheet name] <file.xlsx>")
			os.Exit(2)
		}
		res, err := ingest.ReadFile(fs.Arg(0), *sheet)
		if err != nil {
			logger.Error("read workbook failed", "path", fs.Arg(0), "error", err)
			os.Exit(1)
		}
		initDB(cfg)
		sum, err := process.Import(process.NewGormStore(db), res, logger)
		if err != nil {
			logger.Error("import failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(sum)

	case "checksrc":
		fs := flag.NewFlagSet("checksrc", flag.ExitOnError)
		root := fs.String("root", cfg.SourceRoot, "root path to search for source directories")
		fs.Parse(args)
		if *root == "" {
			fmt.Fprintln(os.Stderr, "usage: checksrc -root <path> (or set SOURCE_ROOT)")
			os.Exit(2)
		}
		initDB(cfg)
		sum, err := process.CheckSources(process.NewGormStore(db), *root, logger)
		if err != nil {
			logger.Error("source check failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(sum)

	case "checkpic":
		fs := flag.NewFlagSet("checkpic", flag.ExitOnError)
		target := fs.String("target", cfg.TargetRoot, "delivery tree root; empty counts matches only")
		mode := fs.String("mode", cfg.RelocateMode, "relocation mode: copy or move")
		fs.Parse(args)
		if *mode != "copy" && *mode != "move" {
			fmt.Fprintln(os.Stderr, "checkpic: -mode must be copy or move")
			os.Exit(2)
		}
		initDB(cfg)
		sum, err := process.CheckPictures(process.NewGormStore(db), *target, match.Mode(*mode), logger)
		if err != nil {
			logger.Error("picture check failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(sum)

	case "stats":
		initDB(cfg)
		sum, err := process.Stats(db)
		if err != nil {
			logger.Error("stats failed", "error", err)
			os.Exit(1)
		}
		fmt.Println(sum)

	case "watch":
		fs := flag.NewFlagSet("watch", flag.ExitOnError)
		inbox := fs.String("inbox", cfg.ImportInbox, "directory to watch for dropped xlsx exports")
		sheet := fs.String("sheet", cfg.ImportSheet, "worksheet name (default: first sheet)")
		fs.Parse(args)
		if *inbox == "" {
			fmt.Fprintln(os.Stderr, "usage: watch -inbox <path> (or set IMPORT_INBOX)")
			os.Exit(2)
		}
		initDB(cfg)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err := process.WatchInbox(ctx, process.NewGormStore(db), *inbox, *sheet, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("watch stopped", "error", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		fmt.Fprintln(os.Stderr, "commands: serve (default), migrate, import, checksrc, checkpic, stats, watch")
		os.Exit(2)
	}
}
