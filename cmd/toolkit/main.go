package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/bookmark-service/bookmark"
	"github.com/raywall/bookmark-service/dyndb"
	"github.com/raywall/bookmark-service/pkg/config"
)

// Injetável para testes
var adminClient = func(ctx context.Context, c config.AWSConf) (dyndb.TableAdminClient, error) {
	awsCfg, err := config.LoadAWS(ctx, c)
	if err != nil {
		return nil, err
	}
	return config.NewDynamoDBClient(awsCfg, c), nil
}

// Report é a saída JSON do comando validate
type Report struct {
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors,omitempty"`
	Table   string   `json:"table,omitempty"`
	Runtime string   `json:"runtime,omitempty"`
	Backend string   `json:"backend,omitempty"`
	Handler string   `json:"handler,omitempty"`
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.LookupEnv))
}

func run(ctx context.Context, args []string, out io.Writer, lookup func(string) (string, bool)) int {
	if len(args) < 1 {
		fmt.Fprintln(out, "Comandos esperados: validate, create-table")
		return 1
	}

	switch args[0] {
	case "validate":
		cmd := flag.NewFlagSet("validate", flag.ContinueOnError)
		cmd.SetOutput(out)
		file := cmd.String("file", "", "Caminho do arquivo YAML (padrão: CONFIG_FILE_PATH)")
		if err := cmd.Parse(args[1:]); err != nil {
			return 1
		}
		if !runValidate(ctx, out, withFile(lookup, *file)) {
			return 1
		}
		return 0

	case "create-table":
		cmd := flag.NewFlagSet("create-table", flag.ContinueOnError)
		cmd.SetOutput(out)
		file := cmd.String("file", "", "Caminho do arquivo YAML (padrão: CONFIG_FILE_PATH)")
		table := cmd.String("table", "", "Nome da tabela (padrão: TABLE_NAME)")
		wait := cmd.Duration("wait", 2*time.Minute, "Tempo máximo aguardando a tabela ficar ACTIVE (0 não aguarda)")
		if err := cmd.Parse(args[1:]); err != nil {
			return 1
		}
		if err := runCreateTable(ctx, out, withFile(lookup, *file), *table, *wait); err != nil {
			fmt.Fprintf(out, "Erro: %v\n", err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(out, "Comando desconhecido: %s\n", args[0])
		return 1
	}
}

// withFile faz -file ter precedência sobre CONFIG_FILE_PATH
func withFile(lookup func(string) (string, bool), file string) func(string) (string, bool) {
	if file == "" {
		return lookup
	}
	return func(key string) (string, bool) {
		if key == config.EnvConfigFile {
			return file, true
		}
		return lookup(key)
	}
}

func runValidate(ctx context.Context, out io.Writer, lookup func(string) (string, bool)) bool {
	report := Report{Valid: true}

	cfg, err := config.Load(ctx, config.WithLookup(lookup))
	if err != nil {
		report.Valid = false
		report.Errors = splitErrors(err)
	} else {
		report.Table = cfg.TableName
		report.Runtime = cfg.Server.Runtime
		report.Backend = cfg.Store.Backend
		report.Handler = cfg.Server.Handler
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(report)
	return report.Valid
}

// splitErrors separa a lista "- ..." do validador estrutural
func splitErrors(err error) []string {
	var errs []string
	for _, line := range strings.Split(err.Error(), "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if line != "" {
			errs = append(errs, line)
		}
	}
	return errs
}

func runCreateTable(ctx context.Context, out io.Writer, lookup func(string) (string, bool), table string, wait time.Duration) error {
	if table != "" {
		base := lookup
		lookup = func(key string) (string, bool) {
			if key == "TABLE_NAME" {
				return table, true
			}
			return base(key)
		}
	}

	cfg, err := config.Load(ctx, config.WithLookup(lookup))
	if err != nil {
		return err
	}

	client, err := adminClient(ctx, cfg.AWS)
	if err != nil {
		return err
	}

	err = dyndb.CreateTable(ctx, client, bookmark.TableConfig(cfg.TableName), wait)
	if errors.Is(err, dyndb.ErrTableExists) {
		fmt.Fprintf(out, "Tabela %s já existe\n", cfg.TableName)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Tabela %s criada\n", cfg.TableName)
	return nil
}
