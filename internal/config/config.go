package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                  int
	CamerasPort           int
	Password              string
	ModelPath             string
	ConfigPath            string
	LabelsPath            string
	DetectorMinConfidence float64 // Floor applied inside the detector; class thresholds are applied later
	ImageDirectory        string
	DatabasePath          string
	LogDirectory          string
	LogMaxSizeMB          int
	BufferSize            int     // Frames aggregated per capture
	ConfirmationFrames    int     // Distinct frames needed to confirm an object
	GroupingDistance      float64 // Max anchor distance in pixels for clustering
	NearThreshold         float64 // Pixel distance below which a pair is "near"
	PreviewInterval       int     // Run a single-frame preview every N frames (0 disables)
	PreviewWorkers        int
	TablesPath            string
	CameraNames           map[string]string // Camera IP -> name
}

// Load reads an optional .env file and builds the configuration from the environment.
func Load() *Config {
	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()

	return &Config{
		Port:                  getEnvAsInt("PORT", 8080),
		CamerasPort:           getEnvAsInt("CAMERAS_PORT", 9000),
		Password:              getEnv("PASSWORD", "sceneguard"),
		ModelPath:             getEnv("MODEL_PATH", filepath.Join(".", "models", "frozen_inference_graph.pb")),
		ConfigPath:            getEnv("CONFIG_PATH", filepath.Join(".", "models", "ssd_mobilenet_v2_coco.pbtxt")),
		LabelsPath:            getEnv("LABELS_PATH", filepath.Join(".", "models", "coco_labels.txt")),
		DetectorMinConfidence: getEnvAsFloat("DETECTOR_MIN_CONFIDENCE", 0.05),
		ImageDirectory:        getEnv("IMAGE_DIR", filepath.Join(".", "images")),
		DatabasePath:          getEnv("DB_PATH", filepath.Join(".", "data", "reports.db")),
		LogDirectory:          getEnv("LOG_DIR", filepath.Join(".", "logs")),
		LogMaxSizeMB:          getEnvAsInt("LOG_MAX_SIZE_MB", 10),
		BufferSize:            getEnvAsInt("BUFFER_SIZE", 5),
		ConfirmationFrames:    getEnvAsInt("CONFIRMATION_FRAMES", 2),
		GroupingDistance:      getEnvAsFloat("GROUPING_DISTANCE", 50),
		NearThreshold:         getEnvAsFloat("NEAR_THRESHOLD", 300), // tuned for live low-resolution video
		PreviewInterval:       getEnvAsInt("PREVIEW_INTERVAL", 5),
		PreviewWorkers:        getEnvAsInt("PREVIEW_WORKERS", 1),
		TablesPath:            getEnv("TABLES_PATH", ""),
		CameraNames:           parseCameraNames(getEnv("CAMERA_NAMES", "")),
	}
}

// LoadTables returns the built-in reference tables, overlaid with TablesPath when set.
func (c *Config) LoadTables() (Tables, error) {
	if c.TablesPath == "" {
		return DefaultTables(), nil
	}
	return LoadTables(c.TablesPath)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// parseCameraNames parses "10.0.0.5=kitchen,10.0.0.6=desk".
func parseCameraNames(value string) map[string]string {
	names := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		ip, name, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || ip == "" || name == "" {
			continue
		}
		names[ip] = name
	}
	return names
}
