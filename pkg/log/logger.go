package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// current é o logger construído pelo último Init; Sync o descarrega.
var current = zap.NewNop()

// Init constrói o logger da aplicação e o instala como global do zap (zap.L).
// logLevel pode ser "debug", "info", "warn", "error", "dpanic", "panic", "fatal".
// env "development" usa o encoder de console; qualquer outro valor usa JSON de produção.
func Init(logLevel string, env string) (*zap.Logger, error) {
	var cfg zap.Config
	if strings.ToLower(env) == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level, err := zapcore.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		level = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("falha ao construir o logger zap: %w", err)
	}

	current = logger
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// Sync descarrega logs em buffer. Chamar via defer no main.
func Sync() {
	_ = current.Sync()
}
