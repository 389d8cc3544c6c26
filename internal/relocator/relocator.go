// Package relocator renames newly created files with the current date and
// moves them into a destination subfolder next to them.
package relocator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"stampmove/internal/logger"
	"stampmove/internal/model"
	"stampmove/internal/resolver"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
	"go.uber.org/zap"
)

const (
	DefaultDateFormat           = "%Y-%m-%d"
	DefaultDestinationSubfolder = "renamed"
	DefaultOutputExtension      = ".txt"
)

type Options struct {
	// DateFormat is a strftime pattern appended to the file stem.
	DateFormat string
	// DestinationSubfolder is created inside the source file's directory.
	DestinationSubfolder string
	// OutputExtension replaces the source extension. Empty keeps the
	// source extension.
	OutputExtension string
	// Now defaults to time.Now.
	Now func() time.Time
}

func DefaultOptions() Options {
	return Options{
		DateFormat:           DefaultDateFormat,
		DestinationSubfolder: DefaultDestinationSubfolder,
		OutputExtension:      DefaultOutputExtension,
	}
}

type Relocator struct {
	dateFormat string
	subfolder  string
	ext        string
	now        func() time.Time
}

func New(opts Options) (*Relocator, error) {
	if opts.DateFormat == "" {
		return nil, errors.New("date format is required")
	}
	if sample := strftime.Format(opts.DateFormat, time.Now()); strings.ContainsRune(sample, filepath.Separator) {
		return nil, fmt.Errorf("date format %q produces a path separator", opts.DateFormat)
	}

	sub := opts.DestinationSubfolder
	if sub == "" || sub == "." || sub == ".." || strings.ContainsRune(sub, filepath.Separator) {
		return nil, fmt.Errorf("invalid destination subfolder %q", sub)
	}

	ext := opts.OutputExtension
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Relocator{
		dateFormat: opts.DateFormat,
		subfolder:  sub,
		ext:        ext,
		now:        now,
	}, nil
}

func (r *Relocator) Subfolder() string {
	return r.subfolder
}

// DestinationName builds stem-date.ext for the file at path.
func (r *Relocator) DestinationName(path string, t time.Time) string {
	stem, srcExt := resolver.SplitExt(filepath.Base(path))

	ext := r.ext
	if ext == "" {
		ext = srcExt
	}

	return stem + "-" + strftime.Format(r.dateFormat, t.Local()) + ext
}

// DestinationDir returns the subfolder that receives files from path's
// directory.
func (r *Relocator) DestinationDir(path string) string {
	return filepath.Join(filepath.Dir(path), r.subfolder)
}

// Relocate moves the file at path to its dated, collision-free name and
// returns the final path. A collision that appears between resolving the
// name and moving is retried once with a freshly resolved name.
func (r *Relocator) Relocate(path string) (string, error) {
	name := r.DestinationName(path, r.now())
	destDir := r.DestinationDir(path)

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create destination dir: %w", err)
	}

	var dst string
	for attempt := 0; attempt < 2; attempt++ {
		finalName, err := resolver.Resolve(destDir, name)
		if err != nil {
			return "", fmt.Errorf("failed to resolve name: %w", err)
		}

		dst = filepath.Join(destDir, finalName)
		err = move(path, dst)
		if err == nil {
			return dst, nil
		}
		if !errors.Is(err, ErrTargetExists) {
			return "", fmt.Errorf("failed to move to %s: %w", dst, err)
		}

		logger.Log.Debug("destination taken during move, resolving again",
			zap.String("dst", dst))
	}

	return "", fmt.Errorf("failed to move to %s: %w", dst, ErrTargetExists)
}

func (r *Relocator) Handle(event model.FileEvent) model.RelocateResult {
	switch event.Type {
	case model.EventCreated:
		return r.OnCreated(event)
	case model.EventDeleted:
		return r.OnDeleted(event)
	default:
		return model.RelocateResult{Event: event, SrcPath: event.Path, Skipped: true}
	}
}

func (r *Relocator) OnCreated(event model.FileEvent) model.RelocateResult {
	result := model.RelocateResult{
		Event:   event,
		SrcPath: event.Path,
	}

	if event.IsDir {
		result.Skipped = true
		return result
	}

	logger.Log.Info("file created",
		zap.String("path", event.Path))

	dst, err := r.Relocate(event.Path)
	if err != nil {
		result.Err = err
		logger.Log.Error("relocation failed",
			zap.String("path", event.Path),
			zap.Error(err))
		return result
	}

	result.DstPath = dst
	logger.Log.Info("file renamed and moved",
		zap.String("src", event.Path),
		zap.String("dst", dst))

	return result
}

func (r *Relocator) OnDeleted(event model.FileEvent) model.RelocateResult {
	result := model.RelocateResult{
		Event:   event,
		SrcPath: event.Path,
	}

	if event.IsDir {
		result.Skipped = true
		return result
	}

	logger.Log.Info("file deleted",
		zap.String("path", event.Path))

	return result
}

// Run handles events one at a time until inCh closes or ctx is done. The
// event being handled when ctx is cancelled is finished first.
func (r *Relocator) Run(ctx context.Context, inCh <-chan model.FileEvent) <-chan model.RelocateResult {
	outCh := make(chan model.RelocateResult, cap(inCh))

	go func() {
		defer close(outCh)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-inCh:
				if !ok {
					return
				}
				if ctx.Err() != nil {
					return
				}

				outCh <- r.Handle(event)
			}
		}
	}()

	return outCh
}
