package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	cleanerRootMissingMessageConstant = "cleaner root not provided"
	artifactRemovedMessageConstant    = "artifact removed"
	artifactPathFieldNameConstant     = "path"
)

// ErrCleanerRootMissing indicates the cleanup root was empty.
var ErrCleanerRootMissing = errors.New(cleanerRootMissingMessageConstant)

// Default artifact patterns mirroring a Python project's build droppings.
var (
	defaultFilePatterns      = []string{"*.pyc"}
	defaultDirectoryPatterns = []string{"__pycache__", "*.egg-info", ".pytest_cache"}
	defaultTopLevelEntries   = []string{"build", "dist"}
)

// CleanRequest configures an artifact removal pass.
type CleanRequest struct {
	Root              string
	FilePatterns      []string
	DirectoryPatterns []string
	TopLevelEntries   []string
}

func (request CleanRequest) withDefaults() CleanRequest {
	if request.FilePatterns == nil {
		request.FilePatterns = defaultFilePatterns
	}
	if request.DirectoryPatterns == nil {
		request.DirectoryPatterns = defaultDirectoryPatterns
	}
	if request.TopLevelEntries == nil {
		request.TopLevelEntries = defaultTopLevelEntries
	}
	return request
}

// Cleaner removes build artifacts beneath a project root. Removal is
// idempotent: absent artifacts are not an error.
type Cleaner struct {
	logger *zap.Logger
}

// NewCleaner constructs a Cleaner with the provided logger.
func NewCleaner(logger *zap.Logger) Cleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Cleaner{logger: logger}
}

// Clean removes matching files, matching directories at any depth, and the
// configured top-level entries. It returns the removed paths in sorted order.
func (cleaner Cleaner) Clean(request CleanRequest) ([]string, error) {
	trimmedRoot := strings.TrimSpace(request.Root)
	if len(trimmedRoot) == 0 {
		return nil, ErrCleanerRootMissing
	}
	request = request.withDefaults()

	removalCandidates := make([]string, 0)
	walkError := filepath.WalkDir(trimmedRoot, func(currentPath string, entry fs.DirEntry, visitError error) error {
		if visitError != nil {
			if errors.Is(visitError, fs.ErrNotExist) {
				return nil
			}
			return visitError
		}
		if currentPath == trimmedRoot {
			return nil
		}
		if entry.IsDir() {
			if matchesAnyPattern(entry.Name(), request.DirectoryPatterns) {
				removalCandidates = append(removalCandidates, currentPath)
				return filepath.SkipDir
			}
			return nil
		}
		if matchesAnyPattern(entry.Name(), request.FilePatterns) {
			removalCandidates = append(removalCandidates, currentPath)
		}
		return nil
	})
	if walkError != nil && !errors.Is(walkError, fs.ErrNotExist) {
		return nil, walkError
	}

	for _, entryName := range request.TopLevelEntries {
		trimmedName := strings.TrimSpace(entryName)
		if len(trimmedName) == 0 {
			continue
		}
		candidatePath := filepath.Join(trimmedRoot, trimmedName)
		if _, statError := os.Stat(candidatePath); statError == nil {
			removalCandidates = append(removalCandidates, candidatePath)
		}
	}

	removedPaths := make([]string, 0, len(removalCandidates))
	for _, candidatePath := range removalCandidates {
		removalError := os.RemoveAll(candidatePath)
		if removalError != nil {
			return removedPaths, removalError
		}
		cleaner.logger.Debug(artifactRemovedMessageConstant, zap.String(artifactPathFieldNameConstant, candidatePath))
		removedPaths = append(removedPaths, candidatePath)
	}

	sort.Strings(removedPaths)
	return removedPaths, nil
}
