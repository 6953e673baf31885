package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

// MaxProcsLogger adapts automaxprocs' printf-style logging callback to
// zerolog.
func MaxProcsLogger(format string, args ...interface{}) {
	log.Info().Msgf(format, args...)
}
