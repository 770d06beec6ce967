package testlog

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Start(t *testing.T) {
	t.Helper()
	log.Logger = zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	log.Debug().Str("test", t.Name()).Msg("logger ready")
}
