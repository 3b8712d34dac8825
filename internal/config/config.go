package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Storage       StorageConfig
	Fetch         FetchConfig
	Transcription TranscriptionConfig
	Worker        WorkerConfig
	Redis         RedisConfig
	S3            S3Config
	Logger        Logger
}

type ServerConfig struct {
	AppVersion   string
	Port         string `validate:"required"`
	Mode         string
	MaxUploadMB  int `validate:"min=1"`
	ReadTimeout  int
	WriteTimeout int
	Origins      []string
}

type StorageConfig struct {
	Dir string `validate:"required"`
}

type FetchConfig struct {
	YtDlpPath     string `validate:"required"`
	Retries       int    `validate:"min=0,max=10"`
	TimeoutSec    int    `validate:"min=1"`
	YouTubeNative bool
}

type TranscriptionConfig struct {
	Engine      string `validate:"oneof=local openai cloudflare"`
	Language    string
	Diarization string `validate:"oneof=none silence"`
	Local       LocalEngineConfig
	OpenAI      OpenAIConfig
	Cloudflare  CloudflareConfig
}

type LocalEngineConfig struct {
	ModelDir   string
	FFmpegPath string
	NumThreads int
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type CloudflareConfig struct {
	AccountID string
	APIToken  string
	BaseURL   string
	Model     string
}

type WorkerConfig struct {
	WorkerCount     int     `validate:"min=1,max=16"`
	MaxCPUUsage     float64 `validate:"min=0,max=100"`
	CPUWaitSec      int
	CPUCheckEveryMs int
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	TLS           bool
	EventChannel  string
}

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

var defaults = map[string]interface{}{
	"server.appversion":   "1.0.0",
	"server.port":         ":5000",
	"server.mode":         "development",
	"server.maxuploadmb":  500,
	"server.readtimeout":  10,
	"server.writetimeout": 0,
	"server.origins":      []string{"*"},

	"storage.dir": "downloads",

	"fetch.ytdlppath":     "yt-dlp",
	"fetch.retries":       3,
	"fetch.timeoutsec":    600,
	"fetch.youtubenative": false,

	"transcription.engine":           "local",
	"transcription.language":         "",
	"transcription.diarization":      "none",
	"transcription.local.modeldir":   "models/whisper-base",
	"transcription.local.ffmpegpath": "ffmpeg",
	"transcription.local.numthreads": 4,
	"transcription.openai.apikey":    "",
	"transcription.openai.baseurl":   "https://api.openai.com/v1",
	"transcription.openai.model":     "whisper-1",

	"transcription.cloudflare.accountid": "",
	"transcription.cloudflare.apitoken":  "",
	"transcription.cloudflare.baseurl":   "https://api.cloudflare.com/client/v4",
	"transcription.cloudflare.model":     "@cf/openai/whisper",

	"worker.workercount":     3,
	"worker.maxcpuusage":     100.0,
	"worker.cpuwaitsec":      30,
	"worker.cpucheckeveryms": 500,

	"redis.redisaddr":     "",
	"redis.redispassword": "",
	"redis.db":            0,
	"redis.minidleconns":  2,
	"redis.poolsize":      10,
	"redis.pooltimeout":   5,
	"redis.tls":           false,
	"redis.eventchannel":  "video_transcription_events",

	"s3.endpoint":  "",
	"s3.region":    "us-east-1",
	"s3.accesskey": "",
	"s3.secretkey": "",
	"s3.bucket":    "",
	"s3.prefix":    "videos",

	"logger.development":       true,
	"logger.disablecaller":     false,
	"logger.disablestacktrace": true,
	"logger.encoding":          "console",
	"logger.level":             "info",
}

// envAliases maps short environment names onto config keys.
var envAliases = map[string]string{
	"server.port":                        "PORT",
	"server.maxuploadmb":                 "MAX_UPLOAD_MB",
	"storage.dir":                        "DOWNLOAD_FOLDER",
	"transcription.engine":               "TRANSCRIPTION_ENGINE",
	"transcription.language":             "TRANSCRIPTION_LANGUAGE",
	"transcription.local.modeldir":       "WHISPER_MODEL_DIR",
	"transcription.openai.apikey":        "OPENAI_API_KEY",
	"transcription.cloudflare.accountid": "CLOUDFLARE_ACCOUNT_ID",
	"transcription.cloudflare.apitoken":  "CLOUDFLARE_API_TOKEN",
	"worker.workercount":                 "MAX_CONCURRENT_DOWNLOADS",
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", env)
		}
	}

	if filename == "" {
		return v, nil
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return v, nil
	}
	v.SetConfigFile(filename)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return v, nil
		}
		return nil, errors.Wrap(err, "read config")
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := validator.New().Struct(&c); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &c, nil
}
