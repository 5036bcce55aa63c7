package config

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/raywall/bookmark-service/envloader"
	"github.com/raywall/bookmark-service/pkg/config/injector"
	"gopkg.in/yaml.v3"
)

// EnvConfigFile aponta para o arquivo YAML opcional
const EnvConfigFile = "CONFIG_FILE_PATH"

type loadOptions struct {
	lookup   func(string) (string, bool)
	injector *injector.Injector
}

type Option func(*loadOptions)

// WithLookup troca os.LookupEnv (testes)
func WithLookup(fn func(string) (string, bool)) Option {
	return func(o *loadOptions) { o.lookup = fn }
}

// WithInjector define o injector usado para ${ssm.}/${secret.}
func WithInjector(inj *injector.Injector) Option {
	return func(o *loadOptions) { o.injector = inj }
}

// Load monta a configuração na ordem: envDefault, arquivo YAML,
// variáveis de ambiente, interpolação ${...} e validação.
func Load(ctx context.Context, opts ...Option) (*Config, error) {
	o := &loadOptions{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(o)
	}

	cfg := &Config{}
	if err := envloader.ApplyDefaults(cfg); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}

	if path, ok := o.lookup(EnvConfigFile); ok && path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := envloader.Load(cfg, envloader.WithLookup(o.lookup), envloader.WithoutDefaults()); err != nil {
		return nil, fmt.Errorf("config: env: %w", err)
	}

	inj := o.injector
	if inj == nil {
		inj = injector.New(func(ctx context.Context) (aws.Config, error) {
			return LoadAWS(ctx, cfg.AWS)
		}, injector.WithLookup(o.lookup))
	}
	if err := inj.Inject(ctx, cfg); err != nil {
		return nil, fmt.Errorf("config: interpolação: %w", err)
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: lendo %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: YAML inválido em %s: %w", path, err)
	}
	return nil
}
