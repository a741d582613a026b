package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBHost     string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName     string `env:"DB_NAME,required"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`

	JWTSecret        string `env:"SECRET_KEY,required"`
	AccessTokenLifeM int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"11520"`

	// Optional GCS bucket for attachment uploads. The upload endpoint is
	// disabled when empty.
	StorageBucket string `env:"STORAGE_BUCKET"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
