// pkg/discover/gitignore.go
package discover

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreMatcher applies .gitignore semantics across a directory tree.
// Every .gitignore in the tree is compiled once up front; a path is
// ignored when any matcher between the root and its parent directory
// matches it. Negation works within a single file; a child .gitignore
// cannot un-ignore a pattern from a parent.
type ignoreMatcher struct {
	root     string
	byDir    map[string]*ignore.GitIgnore // key: dir path relative to root, "" = root
	anyFound bool
}

// loadIgnoreMatcher scans root for .gitignore files and compiles them.
// Returns nil when the tree has none so callers can skip filtering.
func loadIgnoreMatcher(root string) *ignoreMatcher {
	m := &ignoreMatcher{
		root:  filepath.Clean(root),
		byDir: make(map[string]*ignore.GitIgnore),
	}

	filepath.Walk(m.root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || filepath.Base(path) != ".gitignore" {
			return nil
		}
		rel, err := filepath.Rel(m.root, filepath.Dir(path))
		if err != nil {
			return nil
		}
		if rel == "." {
			rel = ""
		}
		compiled, err := ignore.CompileIgnoreFile(path)
		if err != nil {
			// unreadable or malformed file is treated as absent
			return nil
		}
		m.byDir[rel] = compiled
		m.anyFound = true
		return nil
	})

	if !m.anyFound {
		return nil
	}
	return m
}

// Ignored reports whether relPath (relative to the matcher root, slash
// or OS separators) matches an ignore pattern.
func (m *ignoreMatcher) Ignored(relPath string) bool {
	if m == nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	// Walk matchers from the root down to the path's parent directory
	for _, dir := range ancestorDirs(relPath) {
		matcher, ok := m.byDir[dir]
		if !ok {
			continue
		}
		scoped := relPath
		if dir != "" {
			scoped = strings.TrimPrefix(relPath, dir+"/")
		}
		if matcher.MatchesPath(scoped) {
			return true
		}
	}
	return false
}

// IgnoredDir reports whether an entire directory subtree can be pruned.
// Only directory-specific patterns ("build/") prune; a file pattern
// that happens to match the directory name ("*.log") does not, since
// files beneath it may still be wanted.
func (m *ignoreMatcher) IgnoredDir(relPath string) bool {
	if m == nil {
		return false
	}
	return m.Ignored(relPath+"/") && !m.Ignored(relPath)
}

// ancestorDirs lists the directories from the root down to relPath's
// parent: "src/lib/a.log" yields ["", "src", "src/lib"].
func ancestorDirs(relPath string) []string {
	dirs := []string{""}
	parent := filepath.ToSlash(filepath.Dir(relPath))
	if parent == "." || parent == "" {
		return dirs
	}
	current := ""
	for _, part := range strings.Split(parent, "/") {
		if part == "" {
			continue
		}
		if current == "" {
			current = part
		} else {
			current += "/" + part
		}
		dirs = append(dirs, current)
	}
	return dirs
}
