package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dunamismax/spritesheet/internal/domain"
)

const (
	DefaultSourceDir  = "./frames"
	DefaultOutputFile = "./spritesheet.png"
)

var ErrUsage = errors.New("usage: spritesheet [source_dir [output_file [target_height]]]")

type Config struct {
	Sheet   SheetConfig
	Trace   TraceConfig
	Metrics MetricsConfig
	Publish PublishConfig
	Storage StorageConfig
}

// SheetConfig holds the build parameters. They come from positional
// arguments only, never from the environment.
type SheetConfig struct {
	SourceDir    string
	OutputFile   string
	TargetHeight int
	Filter       string
}

func (s SheetConfig) Request() domain.BuildRequest {
	return domain.BuildRequest{
		SourceDir:    s.SourceDir,
		OutputFile:   s.OutputFile,
		TargetHeight: s.TargetHeight,
	}
}

type TraceConfig struct {
	Exporter     string
	OTLPEndpoint string
	OTLPInsecure bool
}

type MetricsConfig struct {
	PushgatewayURL string
	Job            string
}

type PublishConfig struct {
	Enabled      bool
	ObjectPrefix string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() Config {
	return Config{
		Sheet: SheetConfig{
			SourceDir:    DefaultSourceDir,
			OutputFile:   DefaultOutputFile,
			TargetHeight: domain.DefaultTargetHeight,
			Filter:       env("SPRITESHEET_FILTER", "lanczos3"),
		},
		Trace: TraceConfig{
			Exporter:     env("SPRITESHEET_TRACE_EXPORTER", "none"),
			OTLPEndpoint: env("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			OTLPInsecure: envBool("SPRITESHEET_OTLP_INSECURE", false),
		},
		Metrics: MetricsConfig{
			PushgatewayURL: env("SPRITESHEET_PUSHGATEWAY_URL", ""),
			Job:            env("SPRITESHEET_METRICS_JOB", "spritesheet"),
		},
		Publish: PublishConfig{
			Enabled:      envBool("SPRITESHEET_PUBLISH", false),
			ObjectPrefix: env("SPRITESHEET_OBJECT_PREFIX", "spritesheets"),
		},
		Storage: StorageConfig{
			Endpoint:  env("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: env("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: env("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    env("MINIO_BUCKET", "spritesheets"),
			UseSSL:    envBool("MINIO_USE_SSL", false),
		},
	}
}

// ParseArgs overrides base with positional arguments in order: source
// directory, output file, target height. Missing arguments keep base values.
func ParseArgs(args []string, base SheetConfig) (SheetConfig, error) {
	if len(args) > 3 {
		return SheetConfig{}, fmt.Errorf("%w: too many arguments", ErrUsage)
	}

	out := base
	if len(args) > 0 {
		out.SourceDir = args[0]
	}
	if len(args) > 1 {
		out.OutputFile = args[1]
	}
	if len(args) > 2 {
		height, err := strconv.Atoi(args[2])
		if err != nil || height <= 0 {
			return SheetConfig{}, fmt.Errorf("%w: target_height must be a positive integer, got %q", ErrUsage, args[2])
		}
		out.TargetHeight = height
	}
	return out, nil
}

func env(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func envBool(key string, fallback bool) bool {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
