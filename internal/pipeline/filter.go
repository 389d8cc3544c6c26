package pipeline

import (
	"path/filepath"
	"stampmove/internal/logger"
	"stampmove/internal/model"
	"strings"

	"go.uber.org/zap"
)

// Filter drops events for ignored paths and for entries that sit directly
// inside a destination subfolder, so relocated files are not picked up again.
func Filter(inCh <-chan model.FileEvent, ignoreList []string, destSubfolder string) <-chan model.FileEvent {
	outCh := make(chan model.FileEvent, cap(inCh))

	go func() {
		defer close(outCh)

		for event := range inCh {
			if inDestination(event.Path, destSubfolder) || shouldIgnore(event.Path, ignoreList) {
				logger.Log.Debug("event filtered",
					zap.String("type", string(event.Type)),
					zap.String("path", event.Path))
				continue
			}
			outCh <- event
		}
	}()

	return outCh
}

func inDestination(path, destSubfolder string) bool {
	if destSubfolder == "" {
		return false
	}
	return filepath.Base(filepath.Dir(path)) == destSubfolder
}

func shouldIgnore(path string, ignoreList []string) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")

	for _, part := range parts {
		for _, pattern := range ignoreList {
			matched, err := filepath.Match(pattern, part)
			if err == nil && matched {
				return true
			}
		}
	}

	return false
}
