package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ProgressLogger logs the main steps of the box tree construction.
var ProgressLogger *zap.SugaredLogger

// WarningLogger emits a warning for each non fatal error, like unsupported CSS
// properties or ignored declarations.
var WarningLogger *zap.SugaredLogger

// Config selects the level and the encoding of the loggers.
type Config struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console or json

	// File, if not empty, also receives the logs, JSON encoded,
	// rotated every MaxSize megabytes.
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
}

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

func init() {
	Configure(Config{Level: "info", Format: "console"})
}

// Configure rebuilds the loggers, writing to stderr (and to cfg.File).
func Configure(cfg Config) {
	cores := []zapcore.Core{newCore(cfg, zapcore.Lock(os.Stderr))}
	if cfg.File != "" {
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
		})
		cores = append(cores, newCore(Config{Level: cfg.Level, Format: "json"}, file))
	}
	ConfigureWithCore(zapcore.NewTee(cores...))
}

// ConfigureWithCore installs loggers writing to [core], which is
// useful to capture logs.
func ConfigureWithCore(core zapcore.Core) {
	base := zap.New(core)
	ProgressLogger = base.Named("boxtree.progress").Sugar()
	WarningLogger = base.Named("boxtree.warning").Sugar()
}

// Level returns the current minimum level of the loggers.
func Level() zapcore.Level { return level.Level() }

func newCore(cfg Config, out zapcore.WriteSyncer) zapcore.Core {
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewCore(enc, out, level)
}
