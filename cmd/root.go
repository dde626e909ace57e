package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/blancasnz/personal-book-tracker/internal/config"
	"github.com/blancasnz/personal-book-tracker/internal/datastore"
	"github.com/blancasnz/personal-book-tracker/internal/googlebooks"
	"github.com/blancasnz/personal-book-tracker/internal/nyt"
	"github.com/blancasnz/personal-book-tracker/internal/openlibrary"
	"github.com/blancasnz/personal-book-tracker/internal/search"
	"github.com/blancasnz/personal-book-tracker/internal/server"
)

// CLI represents the complete command structure for the tracker application
type CLI struct {
	// Global flags
	Addr              string `help:"Address the HTTP server listens on" default:":8080"`
	DBFile            string `help:"Path to SQLite database file" default:"./tracker.db"`
	GoogleBooksAPIKey string `help:"Google Books API key (overrides GOOGLE_BOOKS_API_KEY)"`
	NYTAPIKey         string `help:"NYT Books API key (overrides NYT_API_KEY)"`

	Serve       ServeCmd       `cmd:"" help:"Run the HTTP API server"`
	Search      SearchCmd      `cmd:"" help:"Search the external catalogs from the command line"`
	Bestsellers BestsellersCmd `cmd:"" help:"Show the current NYT bestseller list"`
}

// ServeCmd runs the HTTP API server
type ServeCmd struct{}

// SearchCmd searches the external catalogs and prints the results
type SearchCmd struct {
	Query      []string `arg:"" help:"Search query (title, author, or qualified like inauthor:herbert)"`
	MaxResults int      `short:"n" help:"Maximum number of results" default:"10"`
}

// BestsellersCmd prints a NYT bestseller list
type BestsellersCmd struct {
	List string `help:"Encoded list name (defaults to combined print and e-book fiction)"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("tracker"),
		kong.Description("A personal book tracker with aggregated catalog search."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	// A local .env file is optional; real environment variables win.
	_ = godotenv.Load()

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("database.file", "./tracker.db")

	viper.AutomaticEnv()
	if err := viper.BindEnv("GoogleBooksAPIKey", "GOOGLE_BOOKS_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}
	if err := viper.BindEnv("NYTAPIKey", "NYT_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("No config file found, using defaults and environment")
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	viper.Set("server.addr", cli.Addr)
	viper.Set("database.file", cli.DBFile)

	// Flags beat environment and config file for API keys.
	if cli.GoogleBooksAPIKey != "" {
		config.SetGoogleBooksAPIKey(cli.GoogleBooksAPIKey)
	}
	if cli.NYTAPIKey != "" {
		config.SetNYTAPIKey(cli.NYTAPIKey)
	}
}

// newSearchService builds the aggregation pipeline from configured keys.
func newSearchService() (*search.Service, *openlibrary.Client) {
	ol := openlibrary.NewClient()
	gb := googlebooks.NewClient(config.GoogleBooksAPIKey)
	return search.NewService(gb, ol), ol
}

// Run methods for each command

func (s *ServeCmd) Run() error {
	store, err := datastore.Open(viper.GetString("database.file"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	svc, ol := newSearchService()
	srv := server.New(store, svc, ol, nyt.NewClient(config.NYTAPIKey))
	return srv.Run(viper.GetString("server.addr"))
}

func (s *SearchCmd) Run() error {
	query := strings.TrimSpace(strings.Join(s.Query, " "))

	svc, _ := newSearchService()
	results, err := svc.Search(context.Background(), query, s.MaxResults)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}
	for i, b := range results {
		line := fmt.Sprintf("%2d. %s - %s", i+1, b.Title, b.Author)
		if b.PublishedYear > 0 {
			line += fmt.Sprintf(" (%d)", b.PublishedYear)
		}
		if b.EditionCount > 0 {
			line += fmt.Sprintf(" [%d editions]", b.EditionCount)
		}
		fmt.Println(line)
	}
	return nil
}

func (b *BestsellersCmd) Run() error {
	client := nyt.NewClient(config.NYTAPIKey)
	books := client.Bestsellers(context.Background(), b.List)
	if len(books) == 0 {
		return fmt.Errorf("no bestsellers returned (is NYT_API_KEY set?)")
	}

	for _, entry := range books {
		fmt.Printf("%2d. %s - %s (%d weeks on list)\n", entry.Rank, entry.Title, entry.Author, entry.WeeksOnList)
	}
	return nil
}

func initLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("TRACKER_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
