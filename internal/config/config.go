package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// GoogleBooksAPIKey is the API key for the Google Books API.
	// Optional; anonymous requests work with lower quotas.
	GoogleBooksAPIKey string
	// NYTAPIKey is the API key for the New York Times Books API
	NYTAPIKey string
)

// InitConfig initializes the global configuration
func InitConfig() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("database.file", "./tracker.db")

	GoogleBooksAPIKey = viper.GetString("GoogleBooksAPIKey")
	NYTAPIKey = viper.GetString("NYTAPIKey")
}

// SetGoogleBooksAPIKey sets the Google Books API key
func SetGoogleBooksAPIKey(key string) {
	GoogleBooksAPIKey = key
}

// SetNYTAPIKey sets the NYT Books API key
func SetNYTAPIKey(key string) {
	NYTAPIKey = key
}
