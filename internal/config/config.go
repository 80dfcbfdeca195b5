// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDCompass  string
	MQTTClientIDGPS      string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDProducer string

	// Topics
	TopicSensor  string // per-channel imu.Sample JSON
	TopicIMU     string // optional combined imu.IMURaw JSON from the inertial producers
	TopicGPS     string
	TopicTarget  string
	TopicBearing string

	// Fusion
	SmoothingAlpha   float64
	ThrottleInterval int // milliseconds

	// Raw IMU scaling (counts -> m/s², counts -> µT)
	AccelScale float64
	MagScale   float64

	// Initial target, optional
	TargetLat float64
	TargetLon float64
	HasTarget bool

	targetLatSet bool
	targetLonSet bool

	// GPS
	GPSSerialPort string
	GPSBaudRate   int

	// Mock producer
	MockSampleInterval    int // milliseconds
	MockRotationDegPerSec float64
	MockNoise             float64

	// Web Server
	WebServerPort    int
	CompassImageSize int // pixels

	// Logging
	LogLevel string
}

// Package-level unexported variables for the singleton:
//   - globalConfig: only reachable through InitGlobal/Get.
//   - configOnce: InitGlobal loads at most once.
//   - configMu: write lock for initialization, read lock for Get.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns a Config populated with defaults for every optional key.
func Default() *Config {
	return &Config{
		MQTTClientIDCompass:  "places-compass",
		MQTTClientIDGPS:      "places-compass-gps",
		MQTTClientIDConsole:  "places-compass-console",
		MQTTClientIDWeb:      "places-compass-web",
		MQTTClientIDProducer: "places-compass-producer",

		TopicSensor:  "compass/sensor",
		TopicGPS:     "inertial/gps",
		TopicTarget:  "compass/target",
		TopicBearing: "compass/bearing",

		SmoothingAlpha:   0.97,
		ThrottleInterval: 300,

		// MPU9250 at ±2g and AK8963 16-bit output
		AccelScale: 9.80665 / 16384.0,
		MagScale:   0.15,

		GPSBaudRate: 9600,

		MockSampleInterval:    20,
		MockRotationDegPerSec: 15,
		MockNoise:             0.2,

		WebServerPort:    8080,
		CompassImageSize: 240,

		LogLevel: "info",
	}
}

// Load reads a KEY=VALUE configuration file on top of the defaults.
func Load(configPath string) (*Config, error) {
	values, err := godotenv.Read(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return FromMap(values)
}

// FromMap builds a Config from already parsed KEY=VALUE pairs.
func FromMap(values map[string]string) (*Config, error) {
	cfg := Default()

	// sorted so the first reported error is stable
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := cfg.setValue(key, values[key]); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_COMPASS":
		c.MQTTClientIDCompass = value
	case "MQTT_CLIENT_ID_GPS":
		c.MQTTClientIDGPS = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value

	// Topics
	case "TOPIC_SENSOR":
		c.TopicSensor = value
	case "TOPIC_IMU":
		c.TopicIMU = value
	case "TOPIC_GPS":
		c.TopicGPS = value
	case "TOPIC_TARGET":
		c.TopicTarget = value
	case "TOPIC_BEARING":
		c.TopicBearing = value

	// Fusion
	case "SMOOTHING_ALPHA":
		alpha, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid SMOOTHING_ALPHA %q: %w", value, err)
		}
		if alpha < 0 || alpha >= 1 {
			return fmt.Errorf("SMOOTHING_ALPHA must be in [0, 1), got %g", alpha)
		}
		c.SmoothingAlpha = alpha
	case "THROTTLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid THROTTLE_INTERVAL %q: %w", value, err)
		}
		if interval <= 0 {
			return fmt.Errorf("THROTTLE_INTERVAL must be positive, got %d", interval)
		}
		c.ThrottleInterval = interval

	// Raw IMU scaling
	case "ACCEL_SCALE":
		scale, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_SCALE %q: %w", value, err)
		}
		c.AccelScale = scale
	case "MAG_SCALE":
		scale, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid MAG_SCALE %q: %w", value, err)
		}
		c.MagScale = scale

	// Initial target
	case "TARGET_LAT":
		lat, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid TARGET_LAT %q: %w", value, err)
		}
		if lat < -90 || lat > 90 {
			return fmt.Errorf("TARGET_LAT must be -90..90, got %g", lat)
		}
		c.TargetLat = lat
		c.targetLatSet = true
	case "TARGET_LON":
		lon, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid TARGET_LON %q: %w", value, err)
		}
		if lon < -180 || lon > 180 {
			return fmt.Errorf("TARGET_LON must be -180..180, got %g", lon)
		}
		c.TargetLon = lon
		c.targetLonSet = true

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// Mock producer
	case "MOCK_SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MOCK_SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.MockSampleInterval = interval
	case "MOCK_ROTATION_DEG_PER_SEC":
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid MOCK_ROTATION_DEG_PER_SEC %q: %w", value, err)
		}
		c.MockRotationDegPerSec = rate
	case "MOCK_NOISE":
		noise, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid MOCK_NOISE %q: %w", value, err)
		}
		c.MockNoise = noise

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port
	case "COMPASS_IMAGE_SIZE":
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid COMPASS_IMAGE_SIZE %q: %w", value, err)
		}
		if size < 64 || size > 2048 {
			return fmt.Errorf("COMPASS_IMAGE_SIZE must be 64-2048, got %d", size)
		}
		c.CompassImageSize = size

	// Logging
	case "LOG_LEVEL":
		c.LogLevel = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TopicSensor == "" && c.TopicIMU == "" {
		return fmt.Errorf("one of TOPIC_SENSOR or TOPIC_IMU is required")
	}
	if c.TopicBearing == "" {
		return fmt.Errorf("TOPIC_BEARING is required")
	}
	if c.targetLatSet != c.targetLonSet {
		return fmt.Errorf("TARGET_LAT and TARGET_LON must be set together")
	}
	c.HasTarget = c.targetLatSet && c.targetLonSet
	if c.MockSampleInterval <= 0 {
		return fmt.Errorf("MOCK_SAMPLE_INTERVAL must be positive")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads; later calls return the first result's error.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
