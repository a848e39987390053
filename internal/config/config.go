package config

import (
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Storage struct {
		Backend string // postgres | sqlite | memory
		DSN     string // postgres only
		Path    string // sqlite only
	} `mapstructure:"storage"`

	Seed struct {
		Enabled bool
		Target  int
	} `mapstructure:"seed"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func Load(path string) (Config, error) {
	// .env is optional; real deployments set APP_* directly
	_ = gotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("app.env", "dev")
	v.SetDefault("app.timezone", "Asia/Kolkata")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", "daybook.db")
	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.target", 33)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
