package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Tail returns at most n non-blank lines from the end of the log at path.
// A missing file yields no lines.
func Tail(path string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, n)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, next := 0, 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		ring[next] = line
		next = (next + 1) % n
		count++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if count < n {
		return ring[:count], nil
	}
	// ring is full; next is the oldest line
	return append(ring[next:], ring[:next]...), nil
}

// Pretty writes JSON log lines to w as console output, dropping events below
// minLevel. Lines that are not log events are written unchanged.
func Pretty(w io.Writer, lines []string, minLevel zerolog.Level) error {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !isTerminal(w)}
	for _, line := range lines {
		var event struct {
			Level string `json:"level"`
		}
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
			continue
		}
		if lvl, err := zerolog.ParseLevel(event.Level); err == nil && lvl < minLevel {
			continue
		}
		if _, err := console.Write([]byte(line)); err != nil {
			return fmt.Errorf("format log line: %w", err)
		}
	}
	return nil
}
