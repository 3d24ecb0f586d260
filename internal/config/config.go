// Package config loads the service configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	common "wisefido-sedentary/internal/common/config"

	"github.com/spf13/viper"
)

// Source kinds.
const (
	SourceSerial   = "serial"
	SourceTCP      = "tcp"
	SourceFile     = "file"
	SourceMQTT     = "mqtt"
	SourceSimulate = "simulate"
)

// Config is the sedentary tracker service configuration.
type Config struct {
	Database common.DatabaseConfig
	Redis    common.RedisConfig
	MQTT     common.MQTTConfig

	Source struct {
		Kind          string
		SerialPort    string
		BaudRate      int
		TCPAddr       string
		FilePath      string
		MQTTTopic     string
		SimulateRate  int
		MaxRetries    int
		RetryDelay    time.Duration
		MaxRetryDelay time.Duration
	}

	Tracker struct {
		SmoothingWindow int
		FidgetThreshold float64
		ActiveThreshold float64
		AlertSeconds    uint64
	}

	Cache struct {
		Key      string
		Capacity int
		Timeout  time.Duration
	}

	Hub struct {
		QueueSize int
	}

	Stream struct {
		Key    string
		MaxLen int64
	}

	Analytics struct {
		BufferCap         int
		Segments          int
		VarianceThreshold float64
	}

	HTTP struct {
		Addr      string
		StaticDir string
	}

	Alert struct {
		WebhookURL string
		Timeout    time.Duration
	}

	Report struct {
		Interval         time.Duration
		SamplesPerMinute int
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads .env (if present) and the environment. Environment variables win over .env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{}

	cfg.Database.Host = v.GetString("DB_HOST")
	cfg.Database.Port = v.GetInt("DB_PORT")
	cfg.Database.User = v.GetString("DB_USER")
	cfg.Database.Password = v.GetString("DB_PASSWORD")
	cfg.Database.Database = v.GetString("DB_NAME")
	cfg.Database.SSLMode = v.GetString("DB_SSLMODE")
	cfg.Database.MaxConns = v.GetInt("DB_MAX_CONNS")
	cfg.Database.MaxIdle = v.GetInt("DB_MAX_CONNS")

	cfg.Redis.Addr = v.GetString("REDIS_ADDR")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")

	cfg.MQTT.Broker = v.GetString("MQTT_BROKER")
	cfg.MQTT.ClientID = v.GetString("MQTT_CLIENT_ID")
	cfg.MQTT.Username = v.GetString("MQTT_USERNAME")
	cfg.MQTT.Password = v.GetString("MQTT_PASSWORD")
	cfg.MQTT.QoS = byte(v.GetUint("MQTT_QOS"))

	cfg.Source.Kind = strings.ToLower(strings.TrimSpace(v.GetString("SOURCE_KIND")))
	cfg.Source.SerialPort = v.GetString("SOURCE_SERIAL_PORT")
	cfg.Source.BaudRate = v.GetInt("SOURCE_BAUD_RATE")
	cfg.Source.TCPAddr = v.GetString("SOURCE_TCP_ADDR")
	cfg.Source.FilePath = v.GetString("SOURCE_FILE_PATH")
	cfg.Source.MQTTTopic = v.GetString("SOURCE_MQTT_TOPIC")
	cfg.Source.SimulateRate = v.GetInt("SOURCE_SIMULATE_RATE_HZ")
	cfg.Source.MaxRetries = v.GetInt("SOURCE_MAX_RETRIES")
	cfg.Source.RetryDelay = v.GetDuration("SOURCE_RETRY_DELAY")
	cfg.Source.MaxRetryDelay = v.GetDuration("SOURCE_MAX_RETRY_DELAY")

	cfg.Tracker.SmoothingWindow = v.GetInt("SMOOTHING_WINDOW")
	cfg.Tracker.FidgetThreshold = v.GetFloat64("FIDGET_THRESHOLD")
	cfg.Tracker.ActiveThreshold = v.GetFloat64("ACTIVE_THRESHOLD")
	cfg.Tracker.AlertSeconds = v.GetUint64("ALERT_SECONDS")

	cfg.Cache.Key = v.GetString("CACHE_KEY")
	cfg.Cache.Capacity = v.GetInt("CACHE_CAPACITY")
	cfg.Cache.Timeout = v.GetDuration("CACHE_TIMEOUT")

	cfg.Hub.QueueSize = v.GetInt("HUB_QUEUE_SIZE")

	cfg.Stream.Key = v.GetString("STREAM_KEY")
	cfg.Stream.MaxLen = v.GetInt64("STREAM_MAXLEN")

	cfg.Analytics.BufferCap = v.GetInt("ANALYTICS_BUFFER_CAP")
	cfg.Analytics.Segments = v.GetInt("STATIONARITY_SEGMENTS")
	cfg.Analytics.VarianceThreshold = v.GetFloat64("STATIONARITY_VARIANCE_THRESHOLD")

	cfg.HTTP.Addr = v.GetString("HTTP_ADDR")
	cfg.HTTP.StaticDir = v.GetString("STATIC_DIR")

	cfg.Alert.WebhookURL = v.GetString("ALERT_WEBHOOK_URL")
	cfg.Alert.Timeout = v.GetDuration("ALERT_WEBHOOK_TIMEOUT")

	cfg.Report.Interval = v.GetDuration("REPORT_INTERVAL")
	cfg.Report.SamplesPerMinute = v.GetInt("REPORT_SAMPLES_PER_MINUTE")

	cfg.Log.Level = v.GetString("LOG_LEVEL")
	cfg.Log.Format = v.GetString("LOG_FORMAT")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sedentary_data")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 5)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("MQTT_BROKER", "tcp://localhost:1883")
	v.SetDefault("MQTT_CLIENT_ID", "wisefido-sedentary")
	v.SetDefault("MQTT_USERNAME", "")
	v.SetDefault("MQTT_PASSWORD", "")
	v.SetDefault("MQTT_QOS", 1)

	v.SetDefault("SOURCE_KIND", SourceSerial)
	v.SetDefault("SOURCE_SERIAL_PORT", "/dev/ttyACM0")
	v.SetDefault("SOURCE_BAUD_RATE", 115200)
	v.SetDefault("SOURCE_TCP_ADDR", "")
	v.SetDefault("SOURCE_FILE_PATH", "")
	v.SetDefault("SOURCE_MQTT_TOPIC", "sedentary/+/frames")
	v.SetDefault("SOURCE_SIMULATE_RATE_HZ", 10)
	v.SetDefault("SOURCE_MAX_RETRIES", 5)
	v.SetDefault("SOURCE_RETRY_DELAY", "1s")
	v.SetDefault("SOURCE_MAX_RETRY_DELAY", "30s")

	v.SetDefault("SMOOTHING_WINDOW", 10)
	v.SetDefault("FIDGET_THRESHOLD", 0.020)
	v.SetDefault("ACTIVE_THRESHOLD", 0.040)
	v.SetDefault("ALERT_SECONDS", 1200)

	v.SetDefault("CACHE_KEY", "sensor_history")
	v.SetDefault("CACHE_CAPACITY", 100)
	v.SetDefault("CACHE_TIMEOUT", "1s")

	v.SetDefault("HUB_QUEUE_SIZE", 100)

	v.SetDefault("STREAM_KEY", "")
	v.SetDefault("STREAM_MAXLEN", 10000)

	v.SetDefault("ANALYTICS_BUFFER_CAP", 2000)
	v.SetDefault("STATIONARITY_SEGMENTS", 16)
	v.SetDefault("STATIONARITY_VARIANCE_THRESHOLD", 0.05)

	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("STATIC_DIR", "")

	v.SetDefault("ALERT_WEBHOOK_URL", "")
	v.SetDefault("ALERT_WEBHOOK_TIMEOUT", "5s")

	v.SetDefault("REPORT_INTERVAL", "24h")
	v.SetDefault("REPORT_SAMPLES_PER_MINUTE", 600)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Validate checks the values Load cannot default its way out of.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceSerial:
		if c.Source.SerialPort == "" {
			return errors.New("config: SOURCE_SERIAL_PORT must be set for the serial source")
		}
	case SourceTCP:
		if c.Source.TCPAddr == "" {
			return errors.New("config: SOURCE_TCP_ADDR must be set for the tcp source")
		}
	case SourceFile:
		if c.Source.FilePath == "" {
			return errors.New("config: SOURCE_FILE_PATH must be set for the file source")
		}
	case SourceMQTT:
		if c.Source.MQTTTopic == "" || c.MQTT.Broker == "" {
			return errors.New("config: MQTT_BROKER and SOURCE_MQTT_TOPIC must be set for the mqtt source")
		}
	case SourceSimulate:
	default:
		return fmt.Errorf("config: unknown SOURCE_KIND %q", c.Source.Kind)
	}

	if c.Tracker.FidgetThreshold < 0 || c.Tracker.FidgetThreshold >= c.Tracker.ActiveThreshold {
		return errors.New("config: FIDGET_THRESHOLD must be non-negative and below ACTIVE_THRESHOLD")
	}
	if c.Tracker.SmoothingWindow <= 0 {
		return errors.New("config: SMOOTHING_WINDOW must be positive")
	}
	if c.Tracker.AlertSeconds == 0 {
		return errors.New("config: ALERT_SECONDS must be positive")
	}
	if c.Cache.Capacity <= 0 || c.Hub.QueueSize <= 0 || c.Analytics.BufferCap <= 0 {
		return errors.New("config: CACHE_CAPACITY, HUB_QUEUE_SIZE and ANALYTICS_BUFFER_CAP must be positive")
	}
	if c.Analytics.Segments <= 0 {
		return errors.New("config: STATIONARITY_SEGMENTS must be positive")
	}
	if c.Report.Interval <= 0 || c.Report.SamplesPerMinute <= 0 {
		return errors.New("config: REPORT_INTERVAL and REPORT_SAMPLES_PER_MINUTE must be positive")
	}
	if c.MQTT.QoS > 2 {
		return errors.New("config: MQTT_QOS must be 0, 1 or 2")
	}
	return nil
}
