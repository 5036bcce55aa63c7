package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *Config) error {
	// 1. Validação Estrutural (Tags do struct: required, oneof, etc)
	if err := cv.validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	// 2. Validação Semântica
	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *Config) error {
	if cfg.Server.Runtime == RuntimeLocal && cfg.Server.Port == 0 {
		return fmt.Errorf("runtime local exige 'port'")
	}

	// o Lambda perde o estado local entre execuções
	if cfg.Server.Runtime == RuntimeLambda && cfg.Store.Backend == BackendBadger {
		return fmt.Errorf("backend '%s' não é suportado no runtime '%s'", BackendBadger, RuntimeLambda)
	}

	if cfg.Store.Backend == BackendBadger && cfg.AWS.DynamoDBEndpoint != "" {
		return fmt.Errorf("'dynamodb_endpoint' só se aplica ao backend '%s'", BackendDynamoDB)
	}

	return nil
}
