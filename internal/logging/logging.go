package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"gstassist/internal/config"
)

// Setup points the standard logger at a rotating file when one is
// configured and at stderr otherwise. The returned closer flushes the file.
func Setup(cfg config.Config) (io.Closer, error) {
	log.SetFlags(log.LstdFlags | log.LUTC)
	if cfg.Log.File == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}

	path, err := filepath.Abs(cfg.Log.File)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.Log.MaxSizeMB, // megabytes
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays, // days
		LocalTime:  true,
	}
	log.SetOutput(out)
	return out, nil
}
