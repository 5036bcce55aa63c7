// Package injector resolve referências ${env.X}, ${ssm./caminho} e
// ${secret.id} dentro dos campos string de uma struct de configuração.
package injector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.TABLE_NAME}, ${ssm./bookmarks/table}, ${secret.bookmarks#table}
var pattern = regexp.MustCompile(`\$\{(env|ssm|secret)\.([^}]+)\}`)

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSConfigFunc carrega a configuração da AWS sob demanda
type AWSConfigFunc func(ctx context.Context) (aws.Config, error)

type Option func(*Injector)

func WithSSMClient(c SSMClient) Option {
	return func(i *Injector) { i.ssm = c }
}

func WithSecretsClient(c SecretsClient) Option {
	return func(i *Injector) { i.secrets = c }
}

// WithLookup troca os.LookupEnv na resolução de ${env.X}
func WithLookup(fn func(string) (string, bool)) Option {
	return func(i *Injector) { i.lookup = fn }
}

// Injector só cria clientes AWS quando encontra uma referência ssm/secret.
type Injector struct {
	awsCfg AWSConfigFunc
	lookup func(string) (string, bool)

	mu      sync.Mutex
	ssm     SSMClient
	secrets SecretsClient
}

func New(awsCfg AWSConfigFunc, opts ...Option) *Injector {
	i := &Injector{awsCfg: awsCfg, lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Inject percorre target (ponteiro para struct) e substitui as referências.
func (i *Injector) Inject(ctx context.Context, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("injector: target deve ser um ponteiro para struct não nulo")
	}
	return i.injectRecursive(ctx, v.Elem())
}

func (i *Injector) injectRecursive(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		for k := 0; k < v.NumField(); k++ {
			if err := i.injectRecursive(ctx, v.Field(k)); err != nil {
				return err
			}
		}

	case reflect.String:
		if !v.CanSet() {
			return nil
		}
		newValue, err := i.interpolateString(ctx, v.String())
		if err != nil {
			return err
		}
		v.SetString(newValue)

	case reflect.Ptr:
		if !v.IsNil() {
			return i.injectRecursive(ctx, v.Elem())
		}

	case reflect.Slice:
		for j := 0; j < v.Len(); j++ {
			if err := i.injectRecursive(ctx, v.Index(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// interpolateString realiza a substituição baseada em Regex
func (i *Injector) interpolateString(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var firstErr error
	result := pattern.ReplaceAllStringFunc(input, func(match string) string {
		if firstErr != nil {
			return match
		}
		groups := pattern.FindStringSubmatch(match)
		val, err := i.fetchValue(ctx, groups[1], groups[2])
		if err != nil {
			firstErr = err
			return match
		}
		return val
	})

	return result, firstErr
}

// fetchValue centraliza a busca de dados
func (i *Injector) fetchValue(ctx context.Context, sourceType, key string) (string, error) {
	switch sourceType {
	case "env":
		// variável ausente vira string vazia
		val, _ := i.lookup(key)
		return val, nil

	case "ssm":
		client, err := i.ssmClient(ctx)
		if err != nil {
			return "", err
		}
		return getParameter(ctx, client, key)

	case "secret":
		client, err := i.secretsClient(ctx)
		if err != nil {
			return "", err
		}
		id, field, _ := strings.Cut(key, "#")
		return getSecret(ctx, client, id, field)
	}

	return "", fmt.Errorf("injector: fonte desconhecida %q", sourceType)
}

func (i *Injector) ssmClient(ctx context.Context) (SSMClient, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.ssm == nil {
		cfg, err := i.loadAWS(ctx)
		if err != nil {
			return nil, err
		}
		i.ssm = ssm.NewFromConfig(cfg)
	}
	return i.ssm, nil
}

func (i *Injector) secretsClient(ctx context.Context) (SecretsClient, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.secrets == nil {
		cfg, err := i.loadAWS(ctx)
		if err != nil {
			return nil, err
		}
		i.secrets = secretsmanager.NewFromConfig(cfg)
	}
	return i.secrets, nil
}

func (i *Injector) loadAWS(ctx context.Context) (aws.Config, error) {
	if i.awsCfg == nil {
		return aws.Config{}, fmt.Errorf("injector: configuração AWS indisponível")
	}
	cfg, err := i.awsCfg(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("injector: carregando configuração AWS: %w", err)
	}
	return cfg, nil
}

func getParameter(ctx context.Context, client SSMClient, path string) (string, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(path),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("erro no SSM GetParameter %s: %w", path, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("parâmetro SSM %s sem valor", path)
	}
	return *out.Parameter.Value, nil
}

// getSecret devolve o segredo inteiro ou, com field, a chave do JSON.
func getSecret(ctx context.Context, client SecretsClient, secretID, field string) (string, error) {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return "", fmt.Errorf("erro no SecretsManager %s: %w", secretID, err)
	}
	val := aws.ToString(out.SecretString)
	if field == "" {
		return val, nil
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return "", fmt.Errorf("segredo %s não é JSON: %w", secretID, err)
	}
	fieldVal, ok := data[field]
	if !ok {
		return "", fmt.Errorf("segredo %s não possui a chave %q", secretID, field)
	}
	return fmt.Sprintf("%v", fieldVal), nil
}
