package app

import (
	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
	"github.com/laser-thinhs/lt316-customizer-app/internal/utils"
)

type Config struct {
	Env                   string
	APIAuthRequired       bool
	APIAuthRequiredInTest bool
	APIKey                string
	Port                  string
	ProofDir              string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Env:                   utils.GetEnv("ENV", "development", log),
		APIAuthRequired:       utils.GetEnvAsBool("API_AUTH_REQUIRED", true, log),
		APIAuthRequiredInTest: utils.GetEnvAsBool("API_AUTH_REQUIRED_IN_TEST", false, log),
		APIKey:                utils.GetEnv("API_KEY", "", log),
		Port:                  utils.GetEnv("PORT", "8080", log),
		ProofDir:              utils.GetEnv("PROOF_DIR", "storage/proofs", log),
	}
}
