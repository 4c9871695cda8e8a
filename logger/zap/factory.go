// Package zaplogger implements logger.Logger on top of
// go.uber.org/zap, grounded on the teacher's logger/drivers/zap and
// logger/main.go. Unlike the teacher's process-global
// filename-keyed singleton map, NewLogger here always builds a fresh
// *zap.Logger: stream_cache mints one logger per cache.Engine (one per
// open stream), and those streams come and go independently, so a
// shared-by-name cache would leak across unrelated streams that
// happen to pick the same service name.
package zaplogger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"stream_cache/logger/interfaces"
)

var Dir = "logs"

type Logger struct {
	logger  *zap.SugaredLogger
	service string
}

var _ interfaces.Logger = &Logger{}

func NewLogger(service string) (*Logger, error) {
	filename := strings.ToLower(strings.ReplaceAll(service, " ", "_")) + ".log"
	filePath := filepath.Join(Dir, filename)

	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return nil, fmt.Errorf("zaplogger: create log dir: %w", err)
	}

	logFile, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("zaplogger: open log file: %w", err)
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(logFile),
		zap.DebugLevel,
	)

	zl := zap.New(core, zap.AddCaller())

	return &Logger{logger: zl.Sugar(), service: service}, nil
}

func (l *Logger) Debug(message string) {
	l.logger.Debug(message)
}

func (l *Logger) Info(message string) {
	l.logger.Info(message)
}

func (l *Logger) Warn(message string) {
	l.logger.Warn(message)
}

func (l *Logger) Error(message string, err error) {
	l.logger.Error(fmt.Sprintf("%s: %v", message, err))
}

func (l *Logger) Fatal(message string, err error) {
	formatted := fmt.Sprintf("%s: %v", message, err)
	l.logger.Error(formatted)
	log.Fatal(formatted)
}

type Factory struct{}

var _ interfaces.LoggerFactory = &Factory{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) NewLogger(service string) (interfaces.Logger, error) {
	return NewLogger(service)
}
