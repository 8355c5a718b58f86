// Package log provides structured logging with filesystem-based persistence.
//
// Emission is a no-op unless logs.write is enabled, so library packages can log
// freely without producing output in tests or in the default CLI run.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/lo"
	"github.com/sbskip/sbskip/constant"
	"github.com/sbskip/sbskip/filesystem"
	"github.com/sbskip/sbskip/key"
	"github.com/sbskip/sbskip/where"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Fields is an alias kept so callers do not import logrus directly.
type Fields = logrus.Fields

var enabled bool

// Setup opens the daily log file and configures formatter and level from the global configuration.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.log", constant.App, time.Now().Format("2006-01-02")))
	if exists := lo.Must(filesystem.API().Exists(path)); !exists {
		lo.Must(filesystem.API().Create(path))
	}

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	configure(f, viper.GetBool(key.LogsJson), viper.GetString(key.LogsLevel))
	return nil
}

// SetupWriter enables logging to w, bypassing the log directory.
func SetupWriter(w io.Writer, json bool, level string) {
	enabled = true
	configure(w, json, level)
}

func configure(w io.Writer, json bool, level string) {
	logrus.SetOutput(w)

	if json {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// Logger is a component-scoped logger. Every entry carries a "component" field.
type Logger struct {
	fields Fields
}

// Component returns a Logger tagged with the given component name.
func Component(name string) Logger {
	return Logger{fields: Fields{"component": name}}
}

// With returns a copy of l carrying the extra fields.
func (l Logger) With(fields Fields) Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return Logger{fields: merged}
}

func (l Logger) entry() *logrus.Entry {
	return logrus.WithFields(l.fields)
}

func (l Logger) Errorf(format string, args ...interface{}) {
	if enabled {
		l.entry().Errorf(format, args...)
	}
}

func (l Logger) Warnf(format string, args ...interface{}) {
	if enabled {
		l.entry().Warnf(format, args...)
	}
}

func (l Logger) Infof(format string, args ...interface{}) {
	if enabled {
		l.entry().Infof(format, args...)
	}
}

func (l Logger) Debugf(format string, args ...interface{}) {
	if enabled {
		l.entry().Debugf(format, args...)
	}
}

// Package-level emissions for callers without a component.

func Error(args ...interface{}) {
	if enabled {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...interface{}) {
	if enabled {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...interface{}) {
	if enabled {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...interface{}) {
	if enabled {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...interface{}) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...interface{}) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debugf(format string, args ...interface{}) {
	if enabled {
		logrus.Debugf(format, args...)
	}
}
