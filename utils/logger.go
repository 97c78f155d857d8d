// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package utils

import (
	"io"
	"os"
	"path"

	"github.com/sirupsen/logrus"
)

// Log is the process wide logger. it is replaced by the server once the log configuration is known.
var Log *GuardLogger

// LogConfig describes where the platform log, the HTTP access log and the HTTP error log are written to.
// each target is one of stdout, stderr, null or a file path relative to Root.
type LogConfig struct {
	AccessLog string          `mapstructure:"access_log" json:"access_log"`
	ErrorLog  string          `mapstructure:"error_log" json:"error_log"`
	OutputLog string          `mapstructure:"output_log" json:"output_log"`
	Format    LogFormatOption `mapstructure:"format" json:"format"`
	Root      string          `mapstructure:"root" json:"root"`

	accessLogFp io.Writer
	errorLogFp  io.Writer
	outputLogFp io.Writer
}

// LogFormatOption mirrors the serializable subset of logrus.TextFormatter
type LogFormatOption struct {
	ForceColors               bool   `mapstructure:"force_colors" json:"force_colors"`
	DisableColors             bool   `mapstructure:"disable_colors" json:"disable_colors"`
	ForceQuote                bool   `mapstructure:"force_quote" json:"force_quote"`
	DisableQuote              bool   `mapstructure:"disable_quote" json:"disable_quote"`
	EnvironmentOverrideColors bool   `mapstructure:"environment_override_colors" json:"environment_override_colors"`
	DisableTimestamp          bool   `mapstructure:"disable_timestamp" json:"disable_timestamp"`
	FullTimestamp             bool   `mapstructure:"full_timestamp" json:"full_timestamp"`
	TimestampFormat           string `mapstructure:"timestamp_format" json:"timestamp_format"`
	DisableSorting            bool   `mapstructure:"disable_sorting" json:"disable_sorting"`
	DisableLevelTruncation    bool   `mapstructure:"disable_level_truncation" json:"disable_level_truncation"`
	PadLevelText              bool   `mapstructure:"pad_level_text" json:"pad_level_text"`
	QuoteEmptyFields          bool   `mapstructure:"quote_empty_fields" json:"quote_empty_fields"`
}

// PrepareLogFiles opens (or creates) every configured log target. it must be called before any of the
// Get*LogFilePointer methods.
func (lc *LogConfig) PrepareLogFiles() error {
	var err error
	if lc.accessLogFp, err = lc.prepareLogFilePointer(lc.AccessLog); err != nil {
		return err
	}
	if lc.errorLogFp, err = lc.prepareLogFilePointer(lc.ErrorLog); err != nil {
		return err
	}
	if lc.outputLogFp, err = lc.prepareLogFilePointer(lc.OutputLog); err != nil {
		return err
	}
	return nil
}

// CloseLogFiles closes every log target that PrepareLogFiles opened as a file. closed targets fall back to
// io.Discard.
func (lc *LogConfig) CloseLogFiles() error {
	var firstErr error
	for _, fp := range []*io.Writer{&lc.accessLogFp, &lc.errorLogFp, &lc.outputLogFp} {
		f, ok := (*fp).(*os.File)
		if !ok || f == os.Stdout || f == os.Stderr {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		*fp = io.Discard
	}
	return firstErr
}

func (lc *LogConfig) GetAccessLogFilePointer() io.Writer {
	return lc.accessLogFp
}

func (lc *LogConfig) GetErrorLogFilePointer() io.Writer {
	return lc.errorLogFp
}

func (lc *LogConfig) GetPlatformLogFilePointer() io.Writer {
	return lc.outputLogFp
}

func (lc *LogConfig) prepareLogFilePointer(target string) (io.Writer, error) {
	switch target {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "null":
		return io.Discard, nil
	}
	return GetNewLogFilePointer(JoinBasePathIfRelativeRegularFilePath(lc.Root, target))
}

// GuardLogger decorates every entry with the goroutine, package and file it was logged from.
type GuardLogger struct {
	*logrus.Logger
}

func (l *GuardLogger) setCommonFields() *logrus.Entry {
	fr := getFrame(2)
	return l.WithFields(logrus.Fields{
		"goroutine": GetGoRoutineID(),
		"package":   path.Base(path.Dir(fr.File)),
		"fileName":  path.Base(fr.File),
	})
}

func (l *GuardLogger) Debugln(args ...interface{}) {
	l.setCommonFields().Debugln(args...)
}

func (l *GuardLogger) Debugf(format string, args ...interface{}) {
	l.setCommonFields().Debugf(format, args...)
}

func (l *GuardLogger) Infoln(args ...interface{}) {
	l.setCommonFields().Infoln(args...)
}

func (l *GuardLogger) Infof(format string, args ...interface{}) {
	l.setCommonFields().Infof(format, args...)
}

func (l *GuardLogger) Warnln(args ...interface{}) {
	l.setCommonFields().Warnln(args...)
}

func (l *GuardLogger) Warnf(format string, args ...interface{}) {
	l.setCommonFields().Warnf(format, args...)
}

func (l *GuardLogger) Errorln(args ...interface{}) {
	l.setCommonFields().Errorln(args...)
}

func (l *GuardLogger) Errorf(format string, args ...interface{}) {
	l.setCommonFields().Errorf(format, args...)
}

func init() {
	Log = &GuardLogger{logrus.New()}
}

// CreateTextFormatterFromFormatOptions takes *LogFormatOption and returns the pointer to a new logrus.TextFormatter
func CreateTextFormatterFromFormatOptions(opts *LogFormatOption) *logrus.TextFormatter {
	if opts == nil {
		opts = &LogFormatOption{}
	}
	return &logrus.TextFormatter{
		ForceColors:               opts.ForceColors,
		DisableColors:             opts.DisableColors,
		ForceQuote:                opts.ForceQuote,
		DisableQuote:              opts.DisableQuote,
		EnvironmentOverrideColors: opts.EnvironmentOverrideColors,
		DisableTimestamp:          opts.DisableTimestamp,
		FullTimestamp:             opts.FullTimestamp,
		TimestampFormat:           opts.TimestampFormat,
		DisableSorting:            opts.DisableSorting,
		DisableLevelTruncation:    opts.DisableLevelTruncation,
		PadLevelText:              opts.PadLevelText,
		QuoteEmptyFields:          opts.QuoteEmptyFields,
	}
}

// GetNewLogFilePointer returns the pointer to a new os.File instance given the file name
func GetNewLogFilePointer(file string) (*os.File, error) {
	return os.OpenFile(file, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0600)
}
