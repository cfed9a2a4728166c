package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultGenres is the reference allowlist: the eight goodbooks-10k tag
// names the feature matrix is built over. Override with GENRES.
var DefaultGenres = []string{
	"fantasy",
	"romance",
	"mystery",
	"thriller",
	"horror",
	"science-fiction",
	"historical-fiction",
	"classics",
}

// Config holds every knob of the pipeline. All stochastic steps take
// their seed from here so a run is reproducible end to end.
type Config struct {
	DataDir      string
	ArtifactsDir string

	Genres   []string
	Sentinel float64

	Seed int64

	// selectk
	KMin      int
	KMax      int
	SweepSize int

	// kmeans
	MaxIterations int
	Tolerance     float64

	// classify
	SampleSize    int
	TrainFraction float64
	ForestSize    int
	ForestSplit   int
	SVMCost       float64
	SVMGamma      float64
}

// Load reads .env (if present) and the environment, falling back to
// built-in defaults.
func Load() *Config {
	_ = godotenv.Load() // a missing .env just means defaults

	return &Config{
		DataDir:      getEnv("DATA_DIR", "data"),
		ArtifactsDir: getEnv("ARTIFACTS_DIR", "artifacts"),

		Genres:   getEnvList("GENRES", DefaultGenres),
		Sentinel: getEnvFloat("SENTINEL", -5),

		Seed: int64(getEnvInt("SEED", 320)),

		KMin:      getEnvInt("K_MIN", 2),
		KMax:      getEnvInt("K_MAX", 20),
		SweepSize: getEnvInt("SWEEP_SAMPLE", 1000),

		MaxIterations: getEnvInt("KMEANS_MAX_ITER", 200),
		Tolerance:     getEnvFloat("KMEANS_TOLERANCE", 1e-6),

		SampleSize:    getEnvInt("CLASSIFY_SAMPLE", 5000),
		TrainFraction: getEnvFloat("TRAIN_FRACTION", 0.75),
		ForestSize:    getEnvInt("FOREST_SIZE", 200),
		ForestSplit:   getEnvInt("FOREST_SPLIT", 3),
		SVMCost:       getEnvFloat("SVM_COST", 1.0),
		SVMGamma:      getEnvFloat("SVM_GAMMA", 0.125),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
