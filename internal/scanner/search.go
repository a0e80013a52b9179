package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/a3tai/pdf-spec-scanner/internal/report"
)

// FindDocuments lists the documents of a directory that match the configured
// extensions and the optional case-insensitive name query. Files written by
// earlier runs are skipped.
func (s *Service) FindDocuments(req SearchRequest) (*SearchResult, error) {
	if req.Directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	absDirectory, err := filepath.Abs(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	info, err := os.Stat(absDirectory)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", req.Directory)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", req.Directory)
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))
	files := []FileInfo{}

	err = filepath.WalkDir(absDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, the rest of the walk goes on
			return nil //nolint:nilerr // Intentionally continue on file errors
		}

		if d.IsDir() {
			if path != absDirectory && !req.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if !s.isDocument(d.Name()) {
			return nil
		}
		if query != "" && !strings.Contains(strings.ToLower(d.Name()), query) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // Intentionally continue on file errors
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         d.Name(),
			Size:         fi.Size(),
			ModifiedTime: fi.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return &SearchResult{
		Files:       files,
		TotalCount:  len(files),
		Directory:   absDirectory,
		SearchQuery: req.Query,
	}, nil
}

// isDocument reports whether a file name is an input document
func (s *Service) isDocument(name string) bool {
	if IsGenerated(name) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := s.extensions[ext]; !ok {
		return false
	}
	return s.factory.Supports(name)
}

// IsGenerated reports whether a file name was produced by the report writer
func IsGenerated(name string) bool {
	return strings.HasSuffix(name, report.RawSuffix) || strings.HasSuffix(name, report.JSONSuffix)
}

// normalizeExtensions lower-cases extensions and adds the leading dot
func normalizeExtensions(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}
