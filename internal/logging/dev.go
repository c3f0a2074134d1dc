//go:build dev
// +build dev

package logging

import (
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dim  = color.New(color.FgHiBlack).SprintFunc()
	inf  = color.New(color.FgGreen, color.Bold).SprintFunc()
	dbg  = color.New(color.FgCyan, color.Bold).SprintFunc()
	wrn  = color.New(color.FgMagenta, color.Bold).SprintFunc()
	errC = color.New(color.FgRed, color.Bold).SprintFunc()
	fat  = color.New(color.FgHiRed, color.Bold, color.BgBlack).SprintFunc()
)

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.DebugLevel:
		enc.AppendString(dbg("DBG"))
	case zapcore.InfoLevel:
		enc.AppendString(inf("INF"))
	case zapcore.WarnLevel:
		enc.AppendString(wrn("WRN"))
	case zapcore.ErrorLevel:
		enc.AppendString(errC("ERR"))
	default:
		enc.AppendString(fat(l.CapitalString()))
	}
}

// InitLogger tees a coloured console core (debug and up) with the JSON file core.
func InitLogger(logFilePath string) (*os.File, error) {
	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = encodeLevel
	consoleCfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(dim(t.Format("15:04:05")))
	}

	fileCfg := zap.NewProductionEncoderConfig()
	fileCfg.EncodeTime = zapcore.RFC3339TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stdout), zapcore.DebugLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(file), zapcore.DebugLevel),
	)
	SetLogger(zap.New(core, zap.AddCaller(), zap.Development()))

	return file, nil
}
