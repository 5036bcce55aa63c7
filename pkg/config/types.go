package config

import "time"

// Runtimes suportados
const (
	RuntimeLambda = "lambda"
	RuntimeLocal  = "local"
)

// Backends de armazenamento
const (
	BackendDynamoDB = "dynamodb"
	BackendBadger   = "badger"
)

// Config representa a configuração completa do serviço. Cada campo pode vir
// do arquivo YAML (CONFIG_FILE_PATH) e ser sobrescrito pela variável de
// ambiente indicada na tag env.
type Config struct {
	TableName string      `yaml:"table_name" env:"TABLE_NAME,required" validate:"required"`
	AWS       AWSConf     `yaml:"aws"`
	Server    ServerConf  `yaml:"server"`
	Store     StoreConf   `yaml:"store"`
	Logging   LoggingConf `yaml:"logging"`
	Metrics   MetricsConf `yaml:"metrics"`
}

type AWSConf struct {
	Region           string `yaml:"region" env:"AWS_REGION" envDefault:"ap-northeast-1" validate:"required"`
	DynamoDBEndpoint string `yaml:"dynamodb_endpoint" env:"DYNAMODB_ENDPOINT" validate:"omitempty,url"`
}

type ServerConf struct {
	Runtime string `yaml:"runtime" env:"RUNTIME" envDefault:"lambda" validate:"oneof=lambda local"`
	// Handler restringe o binário a uma única operação (um Lambda por rota)
	Handler         string        `yaml:"handler" env:"HANDLER" envDefault:"all" validate:"oneof=all create read update delete"`
	Port            int           `yaml:"port" env:"PORT" envDefault:"8080" validate:"gte=0,lte=65535"`
	Route           string        `yaml:"route" env:"ROUTE" envDefault:"/bookmarks" validate:"startswith=/"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" envDefault:"5s" validate:"gt=0"`
	CORSAllowOrigin string        `yaml:"cors_allow_origin" env:"CORS_ALLOW_ORIGIN"`
}

type StoreConf struct {
	Backend    string `yaml:"backend" env:"STORE_BACKEND" envDefault:"dynamodb" validate:"oneof=dynamodb badger"`
	BadgerPath string `yaml:"badger_path" env:"BADGER_PATH"` // vazio = em memória
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"LOG_ENABLED" envDefault:"true"`
	Level   string `yaml:"level" env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool   `yaml:"enabled" env:"DD_ENABLED" envDefault:"false"`
	Addr      string `yaml:"addr" env:"DD_AGENT_HOST" envDefault:"127.0.0.1:8125" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace" env:"DD_NAMESPACE" envDefault:"bookmarks."`
}
