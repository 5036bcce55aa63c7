package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/raywall/bookmark-service/pkg/config"
	"github.com/rs/zerolog"
)

// Configure cria o logger do serviço escrevendo em stdout.
func Configure(cfg config.LoggingConf) zerolog.Logger {
	return New(cfg, os.Stdout)
}

// New cria o logger a partir da configuração. O nível fica no próprio
// logger; o nível global do zerolog não é alterado.
func New(cfg config.LoggingConf, out io.Writer) zerolog.Logger {
	// Define o nível de log (default: info)
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	// JSON para produção, Console "bonito" para local se solicitado
	output := out
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "bookmarks").
		Logger()
}
