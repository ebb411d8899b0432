package batch

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SourceExt is the extension of documents picked up by Discover.
const SourceExt = ".md"

// Discover walks root and returns a job for every source document whose
// slash-separated relative path matches one of the include globs and none of
// the exclude globs. Globs use doublestar syntax, so `**` crosses directories.
// A glob matches either the whole relative path or its base name. An empty
// include list selects every document. Excluded directories are not descended
// into. Jobs are sorted by relative path.
func Discover(root string, include, exclude []string) ([]Job, error) {
	var jobs []Job
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || matchAny(exclude, rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(p) != SourceExt || matchAny(exclude, rel) {
			return nil
		}
		if len(include) > 0 && !matchAny(include, rel) {
			return nil
		}
		jobs = append(jobs, Job{Source: p, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Rel < jobs[j].Rel })
	return jobs, nil
}

// matchAny reports whether rel or its base name matches any pattern.
// Malformed patterns never match.
func matchAny(patterns []string, rel string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
