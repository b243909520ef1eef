package log

import (
	"context"
	"io"
	"log"
	"os"
)

// FileLogger ghi log song song ra console và file crawler.log
type FileLogger struct {
	logger *log.Logger
	file   *os.File
}

func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{
		logger: log.New(io.MultiWriter(os.Stderr, f), "", log.LstdFlags),
		file:   f,
	}, nil
}

func (l *FileLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *FileLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.logger.Printf("[INFO] "+format, args...)
}

func (l *FileLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.logger.Printf("[ERROR] "+format, args...)
}

func (l *FileLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.logger.Printf("[WARN] "+format, args...)
}

func (l *FileLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.logger.Printf("[DEBUG] "+format, args...)
}
