package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/open-cli-collective/mintconv/internal/logger"
	"github.com/open-cli-collective/mintconv/pkg/md"
)

// linkedExts are the document types whose links Move keeps in step.
var linkedExts = []string{".md", ".mdx"}

// MovedLink is one link target rewritten by Move.
type MovedLink struct {
	// File is the slash-separated path, relative to the root, of the document
	// holding the link. For the moved document it is the new path.
	File string `json:"file"`
	md.LinkChange
}

// MoveOptions controls Move.
type MoveOptions struct {
	// Root is the documentation tree whose links are kept in step.
	Root   string
	DryRun bool
}

// Move renames the document oldPath to newPath inside opts.Root and rewrites
// every relative link that pointed at it, both in the other documents of the
// tree and in the moved document itself. Links written without a file
// extension keep that form. With DryRun nothing is written and the changes
// that would be made are returned.
func Move(oldPath, newPath string, opts MoveOptions, log *logger.Logger) ([]MovedLink, error) {
	if log == nil {
		log = logger.Discard()
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("docs root %s does not exist or is not a directory", opts.Root)
	}

	oldAbs, err := insideRoot(root, oldPath)
	if err != nil {
		return nil, err
	}
	newAbs, err := insideRoot(root, newPath)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(oldAbs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", oldPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", oldPath)
	}
	if _, err := os.Stat(newAbs); err == nil {
		return nil, fmt.Errorf("%s already exists", newPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to check %s: %w", newPath, err)
	}

	docs, err := linkedDocuments(root)
	if err != nil {
		return nil, err
	}

	var moved []MovedLink
	rewrites := make(map[string]string)
	for _, doc := range docs {
		if doc == oldAbs {
			continue
		}
		data, err := os.ReadFile(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		dir := filepath.Dir(doc)
		out, changes := md.RewriteLinks(string(data), func(target string) (string, bool) {
			return retarget(dir, target, oldAbs, newAbs)
		})
		if len(changes) == 0 {
			continue
		}
		rewrites[doc] = out
		moved = append(moved, movedLinks(root, doc, changes)...)
	}

	var selfOut string
	selfChanged := false
	if isLinked(oldAbs) {
		data, err := os.ReadFile(oldAbs)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		oldDir, newDir := filepath.Dir(oldAbs), filepath.Dir(newAbs)
		out, changes := md.RewriteLinks(string(data), func(target string) (string, bool) {
			if next, ok := retarget(oldDir, target, oldAbs, newAbs); ok {
				return relLink(newDir, next, oldDir), true
			}
			abs := filepath.Join(oldDir, filepath.FromSlash(target))
			if !withinRoot(root, abs) || !linkExists(abs) {
				return target, false
			}
			return relTarget(newDir, abs), true
		})
		if len(changes) > 0 {
			selfOut, selfChanged = out, true
			moved = append(moved, movedLinks(root, newAbs, changes)...)
		}
	}

	if opts.DryRun {
		log.Info("dry run, nothing moved", "from", oldPath, "to", newPath, "links", len(moved))
		return moved, nil
	}

	if err := os.MkdirAll(filepath.Dir(newAbs), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.Rename(oldAbs, newAbs); err != nil {
		return nil, fmt.Errorf("failed to move %s: %w", oldPath, err)
	}
	if selfChanged {
		if err := os.WriteFile(newAbs, []byte(selfOut), 0644); err != nil {
			return nil, fmt.Errorf("failed to write file: %w", err)
		}
	}
	for doc, out := range rewrites {
		if err := os.WriteFile(doc, []byte(out), 0644); err != nil {
			return nil, fmt.Errorf("failed to write file: %w", err)
		}
	}
	log.DocumentMoved(oldPath, newPath, len(moved))
	return moved, nil
}

// retarget maps a link target written in dir onto newAbs when it points at
// oldAbs, with or without the document extension.
func retarget(dir, target, oldAbs, newAbs string) (string, bool) {
	abs := filepath.Join(dir, filepath.FromSlash(target))
	switch {
	case abs == oldAbs:
		return relTarget(dir, newAbs), true
	case abs+filepath.Ext(oldAbs) == oldAbs:
		rel := relTarget(dir, newAbs)
		return strings.TrimSuffix(rel, filepath.Ext(newAbs)), true
	}
	return target, false
}

// relLink re-expresses a target computed relative to from as one relative to
// to. Used for self links inside the moved document.
func relLink(to, target, from string) string {
	return relTarget(to, filepath.Join(from, filepath.FromSlash(target)))
}

func relTarget(dir, abs string) string {
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

func movedLinks(root, doc string, changes []md.LinkChange) []MovedLink {
	file := relTarget(root, doc)
	links := make([]MovedLink, 0, len(changes))
	for _, change := range changes {
		links = append(links, MovedLink{File: file, LinkChange: change})
	}
	return links
}

// linkedDocuments returns every .md and .mdx file under root, skipping dot
// directories, in lexical order.
func linkedDocuments(root string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isLinked(p) {
			docs = append(docs, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return docs, nil
}

func isLinked(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	for _, e := range linkedExts {
		if ext == e {
			return true
		}
	}
	return false
}

func insideRoot(root, p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", p, err)
	}
	if !withinRoot(root, abs) {
		return "", fmt.Errorf("%s is outside the docs root %s", p, root)
	}
	return abs, nil
}

func withinRoot(root, abs string) bool {
	rel, err := filepath.Rel(root, abs)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// linkExists reports whether a link target resolves on disk as written or
// with a document extension.
func linkExists(abs string) bool {
	if _, err := os.Stat(abs); err == nil {
		return true
	}
	for _, ext := range linkedExts {
		if _, err := os.Stat(abs + ext); err == nil {
			return true
		}
	}
	return false
}
