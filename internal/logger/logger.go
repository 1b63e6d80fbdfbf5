// Package logger contains a leveled, multi-destination log handler.
package logger

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gookit/color"
)

type destination interface {
	log(t time.Time, level Level, format string, args ...any)
	close()
}

// Logger is a log handler. The zero value is not usable; set Destinations
// (and Level/Structured/File/SyslogPrefix as needed) and call Initialize,
// or use New.
type Logger struct {
	Level        Level
	Destinations []Destination
	Structured   bool
	File         string
	SyslogPrefix string

	stdout  io.Writer
	timeNow func() time.Time

	destinations []destination
	mutex        sync.Mutex
}

// New allocates and initializes a log handler.
func New(level Level, destinations []Destination, structured bool, filePath string, syslogPrefix string) (*Logger, error) {
	lh := &Logger{
		Level:        level,
		Destinations: destinations,
		Structured:   structured,
		File:         filePath,
		SyslogPrefix: syslogPrefix,
	}

	if err := lh.Initialize(); err != nil {
		return nil, err
	}

	return lh, nil
}

// Initialize opens every configured destination. Callers that build a
// Logger as a struct literal (tests, hot-reload) must call this before Log.
func (lh *Logger) Initialize() error {
	if lh.stdout == nil {
		lh.stdout = os.Stdout
	}
	if lh.timeNow == nil {
		lh.timeNow = time.Now
	}
	if lh.SyslogPrefix == "" {
		lh.SyslogPrefix = "smartscope"
	}

	for _, destType := range lh.Destinations {
		switch destType {
		case DestinationStdout:
			lh.destinations = append(lh.destinations, newDestinationStdout(lh.Structured, lh.stdout))

		case DestinationFile:
			dest, err := newDestinationFile(lh.Structured, lh.File)
			if err != nil {
				lh.Close()
				return err
			}
			lh.destinations = append(lh.destinations, dest)

		case DestinationSyslog:
			dest, err := newDestinationSyslog(lh.SyslogPrefix)
			if err != nil {
				lh.Close()
				return err
			}
			lh.destinations = append(lh.destinations, dest)
		}
	}

	return nil
}

// Close closes every destination.
func (lh *Logger) Close() {
	for _, dest := range lh.destinations {
		dest.close()
	}
	lh.destinations = nil
}

// https://golang.org/src/log/log.go#L78
func itoa(i int, wid int) []byte {
	var b [20]byte
	bp := len(b) - 1
	for i >= 10 || wid > 1 {
		wid--
		q := i / 10
		b[bp] = byte('0' + i - q*10)
		bp--
		i = q
	}
	b[bp] = byte('0' + i)
	return b[bp:]
}

// writePlainTime writes "YYYY/MM/DD HH:MM:SS " including the trailing
// separator space expected before the level marker.
func writePlainTime(buf *bytes.Buffer, t time.Time, useColor bool) {
	var intbuf bytes.Buffer

	year, month, day := t.Date()
	intbuf.Write(itoa(year, 4))
	intbuf.WriteByte('/')
	intbuf.Write(itoa(int(month), 2))
	intbuf.WriteByte('/')
	intbuf.Write(itoa(day, 2))
	intbuf.WriteByte(' ')

	hour, min, sec := t.Clock()
	intbuf.Write(itoa(hour, 2))
	intbuf.WriteByte(':')
	intbuf.Write(itoa(min, 2))
	intbuf.WriteByte(':')
	intbuf.Write(itoa(sec, 2))
	intbuf.WriteByte(' ')

	if useColor {
		buf.WriteString(color.RenderString(color.Gray.Code(), intbuf.String()))
	} else {
		buf.WriteString(intbuf.String())
	}
}

// writeLevel writes the bare three-letter level marker, no surrounding
// whitespace — callers add separators where the destination format needs them.
func writeLevel(buf *bytes.Buffer, level Level, useColor bool) {
	switch level {
	case Debug:
		if useColor {
			buf.WriteString(color.RenderString(color.Debug.Code(), "DEB"))
		} else {
			buf.WriteString("DEB")
		}

	case Info:
		if useColor {
			buf.WriteString(color.RenderString(color.Green.Code(), "INF"))
		} else {
			buf.WriteString("INF")
		}

	case Warn:
		if useColor {
			buf.WriteString(color.RenderString(color.Warn.Code(), "WAR"))
		} else {
			buf.WriteString("WAR")
		}

	case Error:
		if useColor {
			buf.WriteString(color.RenderString(color.Error.Code(), "ERR"))
		} else {
			buf.WriteString("ERR")
		}
	}
}

// Log writes a log entry to every configured destination.
func (lh *Logger) Log(level Level, format string, args ...interface{}) {
	if level < lh.Level {
		return
	}

	lh.mutex.Lock()
	defer lh.mutex.Unlock()

	t := lh.timeNow()

	for _, dest := range lh.destinations {
		dest.log(t, level, format, args...)
	}
}
