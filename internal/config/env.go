package config

import "os"

// Environment variable names recognized by the CLI.
const (
	envConfigPath   = "MANAGE_GOOGLE_ONE_CONFIG"
	envClientSecret = "MANAGE_GOOGLE_ONE_CLIENT_SECRET"
	envTokenDir     = "MANAGE_GOOGLE_ONE_TOKEN_DIR"
)

// EnvOverrides holds configuration values read from the environment.
type EnvOverrides struct {
	ConfigPath       string
	ClientSecretFile string
	TokenDir         string
}

// ReadEnvOverrides captures the recognized environment variables.
func ReadEnvOverrides() EnvOverrides {
	return EnvOverrides{
		ConfigPath:       os.Getenv(envConfigPath),
		ClientSecretFile: os.Getenv(envClientSecret),
		TokenDir:         os.Getenv(envTokenDir),
	}
}

// CLIOverrides holds configuration values set via command-line flags.
type CLIOverrides struct {
	ConfigPath string
}
