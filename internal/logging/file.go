package logging

import (
	"io"
	"os"

	"github.com/dmitrijs2005/habitkeeper/internal/filex"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewFileLogger writes to a size-rotated file at path. With debug on,
// records are mirrored to stderr. Close the returned io.Closer on exit.
func NewFileLogger(path string, debug bool) (*SlogLogger, io.Closer, error) {
	if _, err := filex.EnsureParentDir(path); err != nil {
		return nil, nil, err
	}

	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	var w io.Writer = rotating
	if debug {
		w = io.MultiWriter(os.Stderr, rotating)
	}

	return NewTerminalLogger(w, debug), rotating, nil
}
