package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/arfaouiahmed1/stage/internal/app"
	"github.com/arfaouiahmed1/stage/internal/config"
	logpkg "github.com/arfaouiahmed1/stage/internal/logger"
)

// session bundles what a command needs once configuration is loaded.
type session struct {
	cfg    config.Config
	logger *zap.Logger
	engine *app.Engine
}

func (s *session) Close() {
	s.engine.Close()
	_ = s.logger.Sync()
}

// startSession is swapped out in tests.
var startSession = newSession

// newSession loads configuration, builds the logger and starts the engine.
// The corpus is indexed before it returns.
func newSession(ctx context.Context) (*session, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	env := config.GetEnv()
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}
	logger, err := logpkg.NewLogger(env, level)
	if err != nil {
		return nil, err
	}

	engine, err := app.NewEngine(ctx, app.Deps{Config: cfg, Logger: logger})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("start engine: %w", err)
	}
	return &session{cfg: cfg, logger: logger, engine: engine}, nil
}
