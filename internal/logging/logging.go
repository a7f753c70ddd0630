package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Session is a logger bound to one run of the program.
type Session struct {
	*logrus.Logger
	Path  string
	close func() error
}

// Close flushes and closes the session log file, if any.
func (s *Session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open starts a session log. With a dir, entries go to a timestamped
// geofind_YYYYMMDD_HHMMSS.log file in it; otherwise they go to fallback.
func Open(dir, level string, fallback io.Writer) (*Session, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if dir == "" {
		l.SetOutput(fallback)
		return &Session{Logger: l}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating log dir")
	}
	name := fmt.Sprintf("geofind_%s.log", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "opening log")
	}
	l.SetOutput(f)

	return &Session{Logger: l, Path: path, close: f.Close}, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
