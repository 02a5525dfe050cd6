package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"
)

// Config captures the settings for opening an embedded Badger store.
type Config struct {
	Path     string
	InMemory bool
}

// Open opens the Badger database described by cfg. Badger's own log output
// is routed through log.
func Open(cfg Config, log zerolog.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLogger(zerologAdapter{log: log})
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("").WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger open: %w", err)
	}
	return db, nil
}

type zerologAdapter struct {
	log zerolog.Logger
}

func (a zerologAdapter) Errorf(f string, v ...interface{})   { a.log.Error().Msgf(f, v...) }
func (a zerologAdapter) Warningf(f string, v ...interface{}) { a.log.Warn().Msgf(f, v...) }
func (a zerologAdapter) Infof(f string, v ...interface{})    { a.log.Debug().Msgf(f, v...) }
func (a zerologAdapter) Debugf(f string, v ...interface{})   { a.log.Trace().Msgf(f, v...) }
