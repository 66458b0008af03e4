package palbmp

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDirectory is returned when the source directory does not exist
	ErrNoDirectory = errors.New("no source directory found")
	// ErrNoFiles is returned when the source directory contains no files
	// with a matching extension
	ErrNoFiles = errors.New("no matching files found")
)

// FileError records which step of the pipeline failed for a file.
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Summary describes a successfully converted file.
type Summary struct {
	Source string
	Output string
	// Backup is empty if no backup was taken
	Backup string
	// ModeBefore and ModeAfter are the color modes as returned by Mode
	ModeBefore string
	ModeAfter  string
	// Colors is the palette length, zero for truecolor output
	Colors       int
	OriginalSize int64
	Size         int64
	// VerifiedMode is the mode of the output as read back from disk, only
	// set when the Config asks for verification
	VerifiedMode string
}

// Result is the outcome for one file; exactly one of Summary and Err is set.
type Result struct {
	Path    string
	Summary *Summary
	Err     error
}

// Report collects the results of a batch in processing order.
type Report struct {
	Config  Config
	Results []Result
}

// Succeeded returns the number of files converted successfully.
func (r *Report) Succeeded() int {
	var n int
	for _, result := range r.Results {
		if result.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the results that have an error.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, result := range r.Results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}
