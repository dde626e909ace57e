package cmd

import (
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blancasnz/personal-book-tracker/internal/config"
)

func resetCmdState(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"tracker"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("tracker"),
		kong.Description("A personal book tracker with aggregated catalog search."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)

	return cli, ctx
}

func TestCLIDefaultFlags(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "serve")

	assert.Equal(t, ":8080", cli.Addr)
	assert.Equal(t, "./tracker.db", cli.DBFile)
}

func TestCLIFlagsOverrideDefaults(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t,
		"--addr", ":9090",
		"--db-file", "/tmp/books.db",
		"serve")

	assert.Equal(t, ":9090", cli.Addr)
	assert.Equal(t, "/tmp/books.db", cli.DBFile)
}

func TestSearchCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "search", "-n", "5", "frank", "herbert")

	assert.Equal(t, []string{"frank", "herbert"}, cli.Search.Query)
	assert.Equal(t, 5, cli.Search.MaxResults)
}

func TestBestsellersCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "bestsellers", "--list", "hardcover-fiction")

	assert.Equal(t, "hardcover-fiction", cli.Bestsellers.List)
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	origGoogle := config.GoogleBooksAPIKey
	origNYT := config.NYTAPIKey
	t.Cleanup(func() {
		config.GoogleBooksAPIKey = origGoogle
		config.NYTAPIKey = origNYT
	})

	cli := &CLI{
		Addr:              ":9191",
		DBFile:            "/tmp/tracker.db",
		GoogleBooksAPIKey: "flag-google-key",
		NYTAPIKey:         "flag-nyt-key",
	}

	updateGlobalConfig(cli)

	assert.Equal(t, ":9191", viper.GetString("server.addr"))
	assert.Equal(t, "/tmp/tracker.db", viper.GetString("database.file"))
	assert.Equal(t, "flag-google-key", config.GoogleBooksAPIKey)
	assert.Equal(t, "flag-nyt-key", config.NYTAPIKey)
}

func TestUpdateGlobalConfigKeepsKeysWhenFlagsUnset(t *testing.T) {
	resetCmdState(t)

	origGoogle := config.GoogleBooksAPIKey
	origNYT := config.NYTAPIKey
	t.Cleanup(func() {
		config.GoogleBooksAPIKey = origGoogle
		config.NYTAPIKey = origNYT
	})

	config.SetGoogleBooksAPIKey("env-google-key")
	config.SetNYTAPIKey("env-nyt-key")

	updateGlobalConfig(&CLI{Addr: ":8080", DBFile: "./tracker.db"})

	assert.Equal(t, "env-google-key", config.GoogleBooksAPIKey)
	assert.Equal(t, "env-nyt-key", config.NYTAPIKey)
}

func TestEnvironmentVariableBinding(t *testing.T) {
	resetCmdState(t)

	t.Setenv("GOOGLE_BOOKS_API_KEY", "google-key")
	t.Setenv("NYT_API_KEY", "nyt-key")

	viper.AutomaticEnv()
	require.NoError(t, viper.BindEnv("GoogleBooksAPIKey", "GOOGLE_BOOKS_API_KEY"))
	require.NoError(t, viper.BindEnv("NYTAPIKey", "NYT_API_KEY"))

	assert.Equal(t, "google-key", viper.GetString("GoogleBooksAPIKey"))
	assert.Equal(t, "nyt-key", viper.GetString("NYTAPIKey"))
}

func TestInitLogging(t *testing.T) {
	for _, level := range []string{"", "debug", "DEBUG", "info", "warn", "error", "invalid"} {
		name := level
		if name == "" {
			name = "default"
		}
		t.Run(name, func(t *testing.T) {
			if level != "" {
				t.Setenv("TRACKER_LOG_LEVEL", level)
			}
			require.NotPanics(t, initLogging)
		})
	}
}
