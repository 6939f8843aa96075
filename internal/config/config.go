package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIURL        string
	DataDir       string
	DBPath        string
	LogPath       string
	PostListTTL   time.Duration
	PostTTL       time.Duration
	ProfileTTL    time.Duration
	PageSize      int
	ExplorePage   int
	ToastDuration time.Duration
}

// Load builds the config from defaults, a .env file in the working
// directory if present, and environment variables, in that order.
func Load() Config {
	godotenv.Load()

	dataDir := filepath.Join(userConfigDir(), "horizon")
	cfg := Config{
		APIURL:        "http://localhost:8000",
		DataDir:       dataDir,
		DBPath:        filepath.Join(dataDir, "horizon.db"),
		LogPath:       filepath.Join(dataDir, "debug.log"),
		PostListTTL:   60 * time.Second,
		PostTTL:       5 * time.Minute,
		ProfileTTL:    10 * time.Minute,
		PageSize:      20,
		ExplorePage:   100,
		ToastDuration: 3 * time.Second,
	}

	if v := os.Getenv("HORIZON_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("HORIZON_DATA_DIR"); v != "" {
		cfg.DataDir = v
		cfg.DBPath = filepath.Join(v, "horizon.db")
		cfg.LogPath = filepath.Join(v, "debug.log")
	}
	if v, err := strconv.Atoi(os.Getenv("HORIZON_PAGE_SIZE")); err == nil && v > 0 {
		cfg.PageSize = v
	}
	return cfg
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
