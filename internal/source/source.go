package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/atikulmunna/loglens/internal/model"
)

// MaxLineSize bounds a single log line. Longer lines are delivered cut to
// this size with RawLine.Truncated set; the rest of the line is discarded.
const MaxLineSize = 1024 * 1024

const readBufferSize = 64 * 1024

// InputUnavailableError reports an input that cannot be opened or read. It is fatal for the run.
type InputUnavailableError struct {
	Path string
	Err  error
}

func (e *InputUnavailableError) Error() string {
	return fmt.Sprintf("input unavailable: %s: %v", e.Path, e.Err)
}

func (e *InputUnavailableError) Unwrap() error { return e.Err }

// Expand resolves glob patterns (including ** via doublestar) to file paths.
// A plain path is kept even when it does not exist, so that reading it reports
// an InputUnavailableError. Duplicates are dropped; order follows the patterns.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			add(filepath.Clean(pattern))
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			return nil, fmt.Errorf("expand pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, &InputUnavailableError{Path: pattern, Err: fmt.Errorf("no files matched")}
		}
		for _, m := range matches {
			add(m)
		}
	}

	return paths, nil
}

// Each reads path line by line and calls fn for every line. The file is
// closed on every return path. Errors from fn are returned unchanged; an
// overlong line is not an error.
func Each(ctx context.Context, path string, fn func(model.RawLine) error) error {
	f, err := os.Open(path)
	if err != nil {
		return &InputUnavailableError{Path: path, Err: err}
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, readBufferSize)

	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		text, truncated, err := readLine(r, MaxLineSize)
		if err != nil && !errors.Is(err, io.EOF) {
			return &InputUnavailableError{Path: path, Err: err}
		}
		if errors.Is(err, io.EOF) && len(text) == 0 && !truncated {
			return nil
		}

		n++
		if ferr := fn(model.RawLine{Text: string(text), Source: path, Number: n, Truncated: truncated}); ferr != nil {
			return ferr
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// readLine returns the next line without its terminator. At most limit bytes
// are kept; truncated reports that the remainder was dropped.
func readLine(r *bufio.Reader, limit int) ([]byte, bool, error) {
	var line []byte
	truncated := false
	for {
		frag, err := r.ReadSlice('\n')
		if err == nil {
			frag = frag[:len(frag)-1]
		}

		// one spare byte for a '\r' that belongs to the terminator
		if room := limit + 1 - len(line); len(frag) > room {
			line = append(line, frag[:room]...)
			truncated = true
		} else {
			line = append(line, frag...)
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if !truncated {
			line = bytes.TrimSuffix(line, []byte("\r"))
		}
		if len(line) > limit {
			line = line[:limit]
			truncated = true
		}
		return line, truncated, err
	}
}

// Stream sends every line of paths to out, in order, and closes out when done.
func Stream(ctx context.Context, paths []string, out chan<- model.RawLine) error {
	defer close(out)

	for _, p := range paths {
		err := Each(ctx, p, func(line model.RawLine) error {
			select {
			case out <- line:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
