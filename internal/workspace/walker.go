// Package workspace discovers project files and removes build artifacts.
package workspace

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

const emptyRootMessageConstant = "workspace root not provided"

// ErrRootMissing indicates the walk root was empty.
var ErrRootMissing = errors.New(emptyRootMessageConstant)

// WalkRequest describes a file discovery traversal.
type WalkRequest struct {
	Root                string
	IncludePatterns     []string
	ExcludedDirectories []string
}

// Walker enumerates files beneath a root matching include patterns while
// skipping excluded directory names at any depth.
type Walker struct{}

// NewWalker constructs a Walker instance.
func NewWalker() Walker {
	return Walker{}
}

// Walk returns the sorted relative paths of files matching any include
// pattern. A missing root yields an empty result rather than an error so
// discovery stays idempotent on freshly cleaned trees.
func (walker Walker) Walk(request WalkRequest) ([]string, error) {
	trimmedRoot := strings.TrimSpace(request.Root)
	if len(trimmedRoot) == 0 {
		return nil, ErrRootMissing
	}

	excludedNames := make(map[string]struct{}, len(request.ExcludedDirectories))
	for _, directoryName := range request.ExcludedDirectories {
		trimmedName := strings.TrimSpace(directoryName)
		if len(trimmedName) == 0 {
			continue
		}
		excludedNames[trimmedName] = struct{}{}
	}

	matches := make([]string, 0)
	walkError := filepath.WalkDir(trimmedRoot, func(currentPath string, entry fs.DirEntry, visitError error) error {
		if visitError != nil {
			if currentPath == trimmedRoot && errors.Is(visitError, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return visitError
		}
		if entry.IsDir() {
			if _, excluded := excludedNames[entry.Name()]; excluded && currentPath != trimmedRoot {
				return filepath.SkipDir
			}
			return nil
		}
		if !matchesAnyPattern(entry.Name(), request.IncludePatterns) {
			return nil
		}
		relativePath, relativeError := filepath.Rel(trimmedRoot, currentPath)
		if relativeError != nil {
			return relativeError
		}
		matches = append(matches, relativePath)
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	sort.Strings(matches)
	return matches, nil
}

func matchesAnyPattern(fileName string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if len(trimmedPattern) == 0 {
			continue
		}
		matched, matchError := filepath.Match(trimmedPattern, fileName)
		if matchError == nil && matched {
			return true
		}
	}
	return false
}
