package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Load loads environment variables from .env file
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}
}

// RequiredStringVariable returns the value of an environment variable or panics if not set
func RequiredStringVariable(name string) string {
	value := os.Getenv(name)
	if value == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", name))
	}
	return value
}

// RequiredIntVariable returns the value of an environment variable as int or panics if not set
func RequiredIntVariable(name string) int {
	value := RequiredStringVariable(name)
	intValue, err := strconv.Atoi(value)
	if err != nil {
		panic(fmt.Sprintf("environment variable %s must be an integer, got: %s", name, value))
	}
	return intValue
}

// StringVariable returns the value of an environment variable or a default value
func StringVariable(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}

// IntVariable panics on a value that is set but not an integer.
func IntVariable(name string, defaultValue int) int {
	if os.Getenv(name) == "" {
		return defaultValue
	}
	return RequiredIntVariable(name)
}

// DurationVariable accepts time.ParseDuration syntax, e.g. "20s" or "72h".
func DurationVariable(name string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		panic(fmt.Sprintf("environment variable %s must be a duration, got: %s", name, value))
	}
	return duration
}

func BoolVariable(name string, defaultValue bool) bool {
	value := os.Getenv(name)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		panic(fmt.Sprintf("environment variable %s must be a boolean, got: %s", name, value))
	}
	return boolValue
}

// ListVariable splits a comma separated value, dropping empty entries.
func ListVariable(name string) []string {
	var list []string
	for _, item := range strings.Split(os.Getenv(name), ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
