package localdb

import (
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

type zerologAdapter struct {
	log zerolog.Logger
}

// NewLogger routes badger's internal logging through l. Badger's info
// messages are noisy, so they are emitted at debug level.
func NewLogger(l zerolog.Logger) badger.Logger {
	return zerologAdapter{log: l.With().Str("component", "badger").Logger()}
}

func (a zerologAdapter) Errorf(f string, v ...any)   { a.log.Error().Msgf(trim(f), v...) }
func (a zerologAdapter) Warningf(f string, v ...any) { a.log.Warn().Msgf(trim(f), v...) }
func (a zerologAdapter) Infof(f string, v ...any)    { a.log.Debug().Msgf(trim(f), v...) }
func (a zerologAdapter) Debugf(f string, v ...any)   { a.log.Debug().Msgf(trim(f), v...) }

func trim(f string) string { return strings.TrimSuffix(f, "\n") }
