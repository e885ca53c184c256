package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults: 2 s polling and 300 readings (about ten minutes of history).
const (
	DefaultAPIBase      = "http://localhost:5000"
	DefaultAPITimeout   = 10 * time.Second
	DefaultPollInterval = 2 * time.Second
	DefaultHistoryLimit = 300
	DefaultPort         = "8080"
	DefaultDBPath       = "dashboard.db"

	DefaultSimPort         = "5000"
	DefaultSimTick         = 2 * time.Second
	DefaultCalibrationFile = "configs/calibration.yml"
)

// Config is the dashboard configuration.
type Config struct {
	Port  string
	Log   LogConfig
	API   APIConfig
	Poll  PollConfig
	DB    DBConfig
	MQTT  MQTTConfig
	Kafka KafkaConfig
	Sim   SimConfig
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// APIConfig points at the remote sensor API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type PollConfig struct {
	Interval     time.Duration
	HistoryLimit int
}

type DBConfig struct {
	Path string
}

// MQTTConfig enables the MQTT reading publisher when Broker is set.
type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
	QoS      byte
}

// KafkaConfig enables the Kafka reading publisher when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// SimConfig configures cmd/sensorsim.
type SimConfig struct {
	Port            string
	Tick            time.Duration
	NullProbability float64
	CalibrationFile string
}

var (
	errBadInterval = errors.New("poll.interval must be positive")
	errBadHistory  = errors.New("poll.history_limit must be positive")
	errBadTimeout  = errors.New("api.timeout must be positive")
	errNoBaseURL   = errors.New("api.base_url must not be empty")
)

// Load reads configs/config.yml (or the directory given) and applies
// environment overrides. A .env file in the working directory is loaded first
// so SENSOR_API_BASE and DASHBOARD_* can live there during development.
// A missing config file is not an error.
func Load(dir string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if dir == "" {
		dir = "configs"
	}
	v.AddConfigPath(dir) // configs/config.yml
	v.SetConfigName("config")

	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the frontend historically read its base URL from its own variable
	if err := v.BindEnv("api.base_url", "SENSOR_API_BASE", "DASHBOARD_API_BASE_URL"); err != nil {
		return Config{}, fmt.Errorf("bind api.base_url env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", DefaultPort)
	v.SetDefault("log.level", "info")
	v.SetDefault("api.base_url", DefaultAPIBase)
	v.SetDefault("api.timeout", DefaultAPITimeout)
	v.SetDefault("poll.interval", DefaultPollInterval)
	v.SetDefault("poll.history_limit", DefaultHistoryLimit)
	v.SetDefault("db.path", DefaultDBPath)
	v.SetDefault("mqtt.topic", "blueroot/readings")
	v.SetDefault("mqtt.client_id", "water-dashboard")
	v.SetDefault("kafka.topic", "water.readings")
	v.SetDefault("sim.port", DefaultSimPort)
	v.SetDefault("sim.tick", DefaultSimTick)
	v.SetDefault("sim.null_probability", 0.0)
	v.SetDefault("sim.calibration_file", DefaultCalibrationFile)
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Port: v.GetString("port"),
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("api.base_url"), "/"),
			Timeout: v.GetDuration("api.timeout"),
		},
		Poll: PollConfig{
			Interval:     v.GetDuration("poll.interval"),
			HistoryLimit: v.GetInt("poll.history_limit"),
		},
		DB: DBConfig{Path: v.GetString("db.path")},
		MQTT: MQTTConfig{
			Broker:   v.GetString("mqtt.broker"),
			Topic:    v.GetString("mqtt.topic"),
			ClientID: v.GetString("mqtt.client_id"),
			QoS:      byte(v.GetInt("mqtt.qos")),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetStringSlice("kafka.brokers")),
			Topic:   v.GetString("kafka.topic"),
		},
		Sim: SimConfig{
			Port:            v.GetString("sim.port"),
			Tick:            v.GetDuration("sim.tick"),
			NullProbability: v.GetFloat64("sim.null_probability"),
			CalibrationFile: v.GetString("sim.calibration_file"),
		},
	}
}

// splitList flattens comma-separated entries, so a single env value such as
// "a:9092,b:9092" yields two brokers.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks the values the dashboard cannot run without.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return errNoBaseURL
	}
	if c.API.Timeout <= 0 {
		return errBadTimeout
	}
	if c.Poll.Interval <= 0 {
		return errBadInterval
	}
	if c.Poll.HistoryLimit <= 0 {
		return errBadHistory
	}
	return nil
}
