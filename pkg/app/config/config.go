package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	ServeRESTAddress string `envconfig:"serve_rest_address" default:":8000"`
	DatabaseDSN      string `envconfig:"database_dsn" required:"true"`
	MigrationsDir    string `envconfig:"migrations_dir" default:"migrations"`
	MediaDir         string `envconfig:"media_dir" default:"uploads"`

	AMQPURL      string `envconfig:"amqp_url"`
	AMQPExchange string `envconfig:"amqp_exchange" default:"rickbertfashion.events"`

	GatewayName        string `envconfig:"gateway_name" default:"paystack"`
	GatewayBaseURL     string `envconfig:"gateway_base_url" default:"https://api.paystack.co"`
	GatewaySecretKey   string `envconfig:"gateway_secret_key" required:"true"`
	GatewayCallbackURL string `envconfig:"gateway_callback_url" required:"true"`
}

func Parse(prefix string) (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process(prefix, cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment config")
	}
	return cfg, nil
}
