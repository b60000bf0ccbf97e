package utils

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const DEFAULT_ENV_FILENAME = ".env"

// InitEnvironmentVariables loads envFile into the process environment.
// Variables that are already set win over the file. A missing default file is
// not an error; a missing explicitly named file is.
func InitEnvironmentVariables(envFile string) error {
	if os.Getenv("ENV") == "production" {
		log.Debug("Running in production environment, skipping env file")
		return nil
	}

	explicit := envFile != ""
	if !explicit {
		envFile = DEFAULT_ENV_FILENAME
	}

	if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) && !explicit {
		log.Debugf("No %s file found", envFile)
		return nil
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load %s file: %w", envFile, err)
	}

	return nil
}
