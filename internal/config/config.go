package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8085" validate:"min=1000,max=65535"`

	// Idle rooms older than RoomTTL are reclaimed; the sweep runs every
	// SweepInterval, which must stay well below the TTL.
	RoomTTL       time.Duration `env:"ROOM_TTL"       envDefault:"5m" validate:"min=1s"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5s" validate:"min=100ms,ltfield=RoomTTL"`

	RoomMaxMembers int `env:"ROOM_MAX_MEMBERS" envDefault:"2"  validate:"min=2,max=8"`
	RoomCodeMaxLen int `env:"ROOM_CODE_MAX_LEN" envDefault:"16" validate:"min=1,max=64"`

	WsReadLimit int64 `env:"WS_READ_LIMIT" envDefault:"32768" validate:"min=512"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
