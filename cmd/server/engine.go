package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/sanctum-sweeper/internal/board"
	"github.com/vancomm/sanctum-sweeper/internal/clue"
	"github.com/vancomm/sanctum-sweeper/internal/config"
	"github.com/vancomm/sanctum-sweeper/internal/moves"
	"github.com/vancomm/sanctum-sweeper/internal/rival"
)

var engineLoggers = []*logrus.Logger{board.Log, moves.Log, clue.Log, rival.Log}

// setupEngineLogging applies one level to every engine logger and, when
// ENGINE_LOG_FILE is set, mirrors their output into a rotated JSON file.
func setupEngineLogging(development bool) error {
	level, err := logrus.ParseLevel(config.EngineLogLevel())
	if err != nil {
		return fmt.Errorf("invalid ENGINE_LOG_LEVEL: %w", err)
	}
	if development && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}

	var hook logrus.Hook
	if path, ok := config.EngineLogFile(); ok {
		hook, err = rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   path,
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return fmt.Errorf("unable to open engine log file: %w", err)
		}
	}

	for _, log := range engineLoggers {
		log.SetLevel(level)
		log.SetFormatter(&logrus.TextFormatter{ForceColors: development})
		if hook != nil {
			log.AddHook(hook)
		}
	}
	return nil
}
