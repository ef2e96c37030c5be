package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newsmark/internal/bookmark"
	"newsmark/internal/config"
	"newsmark/internal/feed"
	"newsmark/internal/logging"
	"newsmark/internal/model"
	"newsmark/internal/reader"
	"newsmark/internal/server"
	"newsmark/internal/store"
	"newsmark/internal/worker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	logger     *zap.Logger
	cfg        config.Config
	configPath string
	backend    string
	redisAddr  string
	dataPath   string
	listenAddr string
)

var rootCmd = &cobra.Command{
	Use:   "newsmark",
	Short: "newsmark - top headlines with local bookmarks",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("backend") {
			cfg.Storage.Backend = backend
		}
		if flags.Changed("redis") {
			cfg.Storage.RedisAddr = redisAddr
		}
		if flags.Changed("data") {
			cfg.Storage.Path = dataPath
		}
		if flags.Changed("addr") {
			cfg.Server.Addr = listenAddr
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bookmark writer and the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Setup Signal Handling (Ctrl+C)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		// Setup Manual 'q' input handling
		go func() {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				if scanner.Text() == "q" {
					fmt.Println(" 'q' pressed. Stopping...")
					cancel()
					return
				}
			}
		}()

		go func() {
			select {
			case <-sigChan:
				logger.Info("Shutting down...")
				cancel()
			case <-ctx.Done():
			}
		}()

		kv, err := store.Open(cfg.Storage)
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		defer kv.Close()

		st := bookmark.New(kv, cfg.Storage.BookmarksKey, logger.Named("bookmarks"))
		w := worker.NewWriter(st, logger.Named("writer"))
		srv := server.NewServer(
			w,
			feed.NewNewsAPI(cfg.NewsAPI, logger.Named("newsapi")),
			reader.New(cfg.Reader, logger.Named("reader")),
			logger.Named("http"),
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			w.Start(gctx)
			return nil
		})
		g.Go(func() error {
			if err := srv.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Stop(shutdownCtx)
		})

		logger.Info("Server running.", zap.String("backend", cfg.Storage.Backend))
		fmt.Println("Press 'q' + Enter or Ctrl+C to stop.")

		err = g.Wait()
		logger.Info("Goodbye!")
		return err
	},
}

var headlinesPage int

var headlinesCmd = &cobra.Command{
	Use:   "headlines",
	Short: "Print one page of top headlines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		src := feed.NewNewsAPI(cfg.NewsAPI, logger.Named("newsapi"))
		h := src.TopHeadlines(cmd.Context(), headlinesPage)
		if h.Status != model.StatusOK {
			fmt.Fprintln(os.Stderr, "no headlines available")
		}
		return printJSON(h)
	},
}

var readCmd = &cobra.Command{
	Use:   "read [url]",
	Short: "Print the readable body of an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		art, err := reader.New(cfg.Reader, logger.Named("reader")).Read(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(art)
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", config.BackendBadger, "Storage backend: redis, badger, bolt or sqlite")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis", "localhost:6379", "Address of Redis server")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "./newsmark-data", "Path to badger dir or bolt/sqlite file")

	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "HTTP listen address")
	headlinesCmd.Flags().IntVar(&headlinesPage, "page", 1, "Page number")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(headlinesCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(bookmarksCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
