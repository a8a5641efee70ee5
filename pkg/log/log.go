package log

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gookit/color"
)

type Logger interface {
	Error(format string, v ...any)
	Warning(format string, v ...any)
	Info(format string, v ...any)
	Close() error
}

// New creates a logger writing to the file at path. With an empty path
// errors and warnings go to stderr and infos to stdout, with coloured
// level prefixes.
func New(path string) (Logger, error) {
	if path != "" {
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0666)
		if err != nil {
			return nil, fmt.Errorf("couldn't open log file: %w", err)
		}
		return &StdLog{
			err:  log.New(file, "ERROR ", log.Ldate|log.Ltime),
			wrn:  log.New(file, "WARN ", log.Ldate|log.Ltime),
			inf:  log.New(file, "INFO ", log.Ldate|log.Ltime),
			file: file,
		}, nil
	}
	return NewWriterLog(os.Stdout, os.Stderr), nil
}

// NewWriterLog creates a logger writing infos to out, errors and warnings
// to errOut.
func NewWriterLog(out, errOut io.Writer) *StdLog {
	return &StdLog{
		err: log.New(errOut, color.Red.Sprint("error: "), 0),
		wrn: log.New(errOut, color.Yellow.Sprint("warning: "), 0),
		inf: log.New(out, "", 0),
	}
}

type StdLog struct {
	err, wrn, inf *log.Logger
	file          *os.File
}

func (l *StdLog) Error(format string, v ...any) {
	_ = l.err.Output(2, fmt.Sprintf(format, v...))
}

func (l *StdLog) Info(format string, v ...any) {
	_ = l.inf.Output(2, fmt.Sprintf(format, v...))
}

func (l *StdLog) Warning(format string, v ...any) {
	_ = l.wrn.Output(2, fmt.Sprintf(format, v...))
}

func (l *StdLog) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

type EmptyLog struct{}

func NewEmptyLog() Logger { return EmptyLog{} }

func (l EmptyLog) Error(string, ...any)   {}
func (l EmptyLog) Warning(string, ...any) {}
func (l EmptyLog) Info(string, ...any)    {}
func (l EmptyLog) Close() error           { return nil }
