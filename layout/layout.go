// Package layout decides where record documents live inside the journal and
// finds them again.
//
// Records are partitioned by calendar day:
//
//	<journal>/2026-10-18/14-03-05_Graphs.md
//
// Two sessions saved in the same second with the same sanitized topic map to
// the same file, and the later one replaces the earlier. That is accepted
// behavior, not guarded against.
package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/zhubert/studylog/record"
)

const (
	// DayLayout names the per-day directory.
	DayLayout = "2006-01-02"
	// TimeLayout prefixes each file name; colons are not filesystem-safe.
	TimeLayout = "15-04-05"
	// MaxTopicLength caps the sanitized topic, in runes.
	MaxTopicLength = 80
	// Placeholder replaces every character of a topic that is not a letter or digit.
	Placeholder = '_'
)

// vcsDir is skipped while walking the journal.
const vcsDir = ".git"

// Kind classifies a DirectoryError.
type Kind int

const (
	// NotAccessible means the base directory could not be created or opened.
	NotAccessible Kind = iota
	// ReadFailed means a filesystem error occurred while walking.
	ReadFailed
)

func (k Kind) String() string {
	switch k {
	case NotAccessible:
		return "not accessible"
	case ReadFailed:
		return "read failed"
	default:
		return "unknown"
	}
}

// DirectoryError reports a problem with the journal directory.
type DirectoryError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory %s %s: %v", e.Path, e.Kind, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// IsNotAccessible reports whether err is a DirectoryError of kind NotAccessible.
func IsNotAccessible(err error) bool {
	var dirErr *DirectoryError
	return errors.As(err, &dirErr) && dirErr.Kind == NotAccessible
}

// SanitizeTopic replaces everything except letters and digits with
// Placeholder and truncates the result to MaxTopicLength runes.
func SanitizeTopic(topic string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.TrimSpace(topic) {
		if n == MaxTopicLength {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(Placeholder)
		}
		n++
	}
	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}

// FileName returns the document name for a session on its day.
func FileName(topic string, when time.Time) string {
	return when.Format(TimeLayout) + "_" + SanitizeTopic(topic) + record.Extension
}

// NewRecordPath returns the path for a new record, creating its day directory.
func NewRecordPath(base, topic string, when time.Time) (string, error) {
	dayDir := filepath.Join(base, when.Format(DayLayout))
	if err := os.MkdirAll(dayDir, 0755); err != nil {
		return "", &DirectoryError{Kind: NotAccessible, Path: dayDir, Err: err}
	}
	return filepath.Join(dayDir, FileName(topic, when)), nil
}

// ListAllRecords walks base and returns every record document, skipping the
// git metadata directory. Order follows the walk and is not meaningful.
// On a walk error the paths found so far are returned with the error.
func ListAllRecords(base string) ([]string, error) {
	info, err := os.Stat(base)
	if err != nil {
		return nil, &DirectoryError{Kind: NotAccessible, Path: base, Err: err}
	}
	if !info.IsDir() {
		return nil, &DirectoryError{Kind: NotAccessible, Path: base, Err: errors.New("not a directory")}
	}

	var files []string
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == vcsDir && path != base {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == record.Extension {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return files, &DirectoryError{Kind: ReadFailed, Path: base, Err: err}
	}
	return files, nil
}
