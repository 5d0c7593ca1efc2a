package app

import (
	"github.com/Freeeeeet/wellness_client/internal/environment"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. Production gets JSON at info level,
// everything else the coloured console encoder. Entries with DebugEnabled log
// at debug level regardless of encoder.
func NewLogger(env environment.Environment, outputPath string) *zap.Logger {
	var config zap.Config

	if env.Name == environment.Production {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if env.DebugEnabled {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	if outputPath == "" {
		outputPath = "stdout"
	}
	config.OutputPaths = []string{outputPath}

	logger, err := config.Build()
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}

	return logger.With(zap.String("env", string(env.Name)))
}
