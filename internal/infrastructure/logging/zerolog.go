package logging

import (
	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var zeroLevelMap = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
}

type zeroLogger struct {
	cfg    *LoggerConfig
	logger zerolog.Logger
}

func newZeroLogger(cfg *LoggerConfig) *zeroLogger {
	l := &zeroLogger{cfg: cfg}
	l.Init()
	return l
}

func (l *zeroLogger) level() zerolog.Level {
	if lvl, ok := zeroLevelMap[l.cfg.Level]; ok {
		return lvl
	}
	return zerolog.DebugLevel
}

func (l *zeroLogger) Init() {
	w := &lumberjack.Logger{
		Filename:   l.cfg.FilePath,
		MaxSize:    l.cfg.MaxSizeMB,
		MaxBackups: l.cfg.MaxBackups,
		MaxAge:     l.cfg.MaxAgeDays,
		Compress:   true,
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	l.logger = zerolog.New(w).
		Level(l.level()).
		With().
		Timestamp().
		Str(string(AppName), "scrawl").
		Str(string(LoggerName), "zerolog").
		Logger()
}

func (l *zeroLogger) Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Debug(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Debugf(template string, args ...any) {
	l.logger.Debug().Msgf(template, args...)
}

func (l *zeroLogger) Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Info(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Infof(template string, args ...any) {
	l.logger.Info().Msgf(template, args...)
}

func (l *zeroLogger) Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Warn(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Warnf(template string, args ...any) {
	l.logger.Warn().Msgf(template, args...)
}

func (l *zeroLogger) Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Error(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Errorf(template string, args ...any) {
	l.logger.Error().Msgf(template, args...)
}

func (l *zeroLogger) Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Fatal(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Fatalf(template string, args ...any) {
	l.logger.Fatal().Msgf(template, args...)
}

func (l *zeroLogger) event(e *zerolog.Event, cat Category, sub SubCategory, extra map[ExtraKey]any) *zerolog.Event {
	e = e.Str("Category", string(cat)).Str("SubCategory", string(sub))
	return e.Fields(logParamsToZeroParams(extra))
}
