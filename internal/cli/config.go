package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	DeviceID   string
	DeviceFile string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("BGROUP_SERVER", "http://localhost:8080"),
		DeviceID:   os.Getenv("BGROUP_DEVICE_ID"),
		DeviceFile: getEnvOrDefault("BGROUP_DEVICE_FILE", defaultDeviceFile()),
		Output:     "text",
		Verbose:    false,
	}
}

// LoadDeviceID loads the device id from file, generating and persisting a
// fresh one on first use. A device id already set via flag or env wins.
func (c *Config) LoadDeviceID() error {
	if c.DeviceID != "" {
		return nil
	}

	data, err := os.ReadFile(c.DeviceFile)
	if err == nil {
		c.DeviceID = strings.TrimSpace(string(data))
		if c.DeviceID != "" {
			return nil
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	return c.SaveDeviceID(uuid.NewString())
}

// SaveDeviceID persists the device id to the device file
func (c *Config) SaveDeviceID(id string) error {
	c.DeviceID = id

	dir := filepath.Dir(c.DeviceFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.DeviceFile, []byte(id), 0600)
}

func defaultDeviceFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bgroup/device"
	}
	return filepath.Join(home, ".bgroup", "device")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
