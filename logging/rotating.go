package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	logFilePrefix      = "calendar-"
	defaultMaxFileSize = 100 * 1024 * 1024
)

// RotatingLogger is an io.Writer over weekly log files. A week's file that grows
// past maxFileSize continues in a numbered sibling (calendar-2026-W42_01.log).
// Files older than the retention period are removed once a day.
type RotatingLogger struct {
	logDir      string
	retention   time.Duration
	maxFileSize int64

	mu          sync.Mutex
	file        *os.File
	week        string
	part        int
	size        int64
	now         func() time.Time
	stop        chan struct{}
	cleanupDone chan struct{}
}

// OpenRotatingLogger creates logDir if needed, opens the current week's file and
// starts the retention cleanup.
func OpenRotatingLogger(logDir string, retentionWeeks int, maxFileSize int64) (*RotatingLogger, error) {
	if retentionWeeks <= 0 {
		retentionWeeks = 4
	}
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rl := &RotatingLogger{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		now:         time.Now,
		stop:        make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}

	rl.mu.Lock()
	err := rl.rotate(weekKey(rl.now()), 0)
	rl.mu.Unlock()
	if err != nil {
		return nil, err
	}

	go rl.cleanupLoop(24 * time.Hour)
	return rl, nil
}

// weekKey returns the ISO week in YYYY-Www form.
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (rl *RotatingLogger) fileName(week string, part int) string {
	if part == 0 {
		return logFilePrefix + week + ".log"
	}
	return fmt.Sprintf("%s%s_%02d.log", logFilePrefix, week, part)
}

// rotate switches to the first file of week at or after part that still has room.
// Caller holds mu.
func (rl *RotatingLogger) rotate(week string, part int) error {
	if rl.file != nil {
		if err := rl.file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file during rotation: %v\n", err)
		}
		rl.file = nil
	}

	for {
		path := filepath.Join(rl.logDir, rl.fileName(week, part))
		info, err := os.Stat(path)
		if err == nil && info.Size() >= rl.maxFileSize {
			part++
			continue
		}

		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		rl.file = file
		rl.week = week
		rl.part = part
		rl.size = 0
		if info != nil {
			rl.size = info.Size()
		}
		return nil
	}
}

// Write appends p to the current file, rotating first when the week changed or p
// would push the file past its size limit.
func (rl *RotatingLogger) Write(p []byte) (int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	week := weekKey(rl.now())
	switch {
	case week != rl.week:
		if err := rl.rotate(week, 0); err != nil {
			return 0, err
		}
	case rl.size > 0 && rl.size+int64(len(p)) > rl.maxFileSize:
		if err := rl.rotate(week, rl.part+1); err != nil {
			return 0, err
		}
	}

	if rl.file == nil {
		return 0, fmt.Errorf("no log file available")
	}

	n, err := rl.file.Write(p)
	rl.size += int64(n)
	return n, err
}

func (rl *RotatingLogger) cleanupLoop(every time.Duration) {
	defer close(rl.cleanupDone)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			if _, err := rl.cleanupOldLogs(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to clean up old logs: %v\n", err)
			}
		}
	}
}

// cleanupOldLogs removes log files last modified before the retention cutoff and
// returns how many it removed. The file being written is never removed.
func (rl *RotatingLogger) cleanupOldLogs() (int, error) {
	entries, err := os.ReadDir(rl.logDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	rl.mu.Lock()
	current := rl.fileName(rl.week, rl.part)
	rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.retention)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == current || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(rl.logDir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Close stops the cleanup goroutine and closes the current file.
func (rl *RotatingLogger) Close() error {
	select {
	case <-rl.stop:
		return nil
	default:
		close(rl.stop)
	}
	<-rl.cleanupDone

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.file == nil {
		return nil
	}
	err := rl.file.Close()
	rl.file = nil
	return err
}
