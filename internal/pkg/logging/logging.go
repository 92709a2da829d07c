package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production zap logger at the given level,
// an empty level means info
func New(level string) (*zap.Logger, error) {
	logConf := zap.NewProductionConfig()
	logConf.Sampling = nil
	logConf.EncoderConfig.TimeKey = "time"
	logConf.EncoderConfig.LevelKey = "severity"
	logConf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logConf.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	l := zapcore.InfoLevel
	if level != "" {
		var err error
		l, err = zapcore.ParseLevel(strings.TrimSpace(level))
		if err != nil {
			return nil, err
		}
	}
	logConf.Level = zap.NewAtomicLevelAt(l)

	return logConf.Build()
}
