package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/natefinch/atomic"

	"github.com/sandeepkv93/tasktrack/internal/model"
)

// ResolvePath picks the output file. An empty target or a directory gets the
// dated default file name.
func ResolvePath(target string, now time.Time) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return FileName(now)
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return filepath.Join(target, FileName(now))
	}
	return target
}

// WriteFile atomically replaces path with the CSV rendering of tasks.
func WriteFile(path string, tasks []model.Task, categories []model.Category) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	if err := atomic.WriteFile(path, strings.NewReader(CSV(tasks, categories))); err != nil {
		return fmt.Errorf("write export %s: %w", path, err)
	}
	return nil
}

var ErrClipboardUnsupported = errors.New("export: clipboard unsupported on this system")

var clipboardWrite = func(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

func CopyToClipboard(tasks []model.Task, categories []model.Category) error {
	if err := clipboardWrite(CSV(tasks, categories)); err != nil {
		return fmt.Errorf("copy export: %w", err)
	}
	return nil
}
