package testutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFS is an in-memory implementation of types.FS. Every test
// environment of type EnvMemoryOnly runs on one, so behavior follows
// the os package where it matters: missing paths satisfy
// os.IsNotExist, ReadDir returns entries sorted by name, Stat follows
// symlinks while Lstat does not.
//
// WithError arms a path so that operations resolving it (Stat, Lstat,
// ReadFile, ReadDir, Readlink, Remove) and WriteFile fail with the
// given error. MkdirAll ignores armed paths and treats them as absent,
// which lets a test break a directory read without also breaking the
// create that precedes it.
type MemoryFS struct {
	mu       sync.RWMutex
	nodes    map[string]*memNode
	failures map[string]error
}

// memNode is a single entry in the tree. Directories and files are
// told apart by mode bits; a symlink stores its destination in target.
type memNode struct {
	mode    fs.FileMode
	modTime time.Time
	data    []byte
	target  string
}

func (n *memNode) isDir() bool  { return n.mode.IsDir() }
func (n *memNode) isLink() bool { return n.mode&fs.ModeSymlink != 0 }

// NewMemoryFS returns an empty filesystem containing only the root
// directory.
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		nodes: map[string]*memNode{
			"/": {mode: fs.ModeDir | 0755, modTime: time.Now()},
		},
		failures: make(map[string]error),
	}
}

// WithError arms path so subsequent operations on it fail with err.
// Armed paths stay armed for the life of the filesystem.
func (m *MemoryFS) WithError(path string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[abs(path)] = err
	return m
}

// abs normalizes a path to cleaned absolute form. There is no working
// directory, so relative paths hang off the root.
func abs(path string) string {
	if !filepath.IsAbs(path) {
		path = "/" + path
	}
	return filepath.Clean(path)
}

// lookup resolves a path to its node, honoring armed failures.
func (m *MemoryFS) lookup(path string) (*memNode, error) {
	path = abs(path)
	if err, ok := m.failures[path]; ok {
		return nil, err
	}
	node, ok := m.nodes[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return node, nil
}

// resolve follows symlink chains starting at path. Relative targets
// are taken against the link's directory.
func (m *MemoryFS) resolve(path string) (*memNode, error) {
	path = abs(path)
	for hops := 0; hops < 8; hops++ {
		node, err := m.lookup(path)
		if err != nil {
			return nil, err
		}
		if !node.isLink() {
			return node, nil
		}
		target := node.target
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = target
	}
	return nil, &fs.PathError{Op: "open", Path: path, Err: errors.New("too many levels of symbolic links")}
}

func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	return &memInfo{name: filepath.Base(abs(name)), node: node}, nil
}

func (m *MemoryFS) Lstat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	return &memInfo{name: filepath.Base(abs(name)), node: node}, nil
}

func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	if node.isDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: errors.New("is a directory")}
	}
	out := make([]byte, len(node.data))
	copy(out, node.data)
	return out, nil
}

func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := abs(name)
	if err, ok := m.failures[path]; ok {
		return err
	}
	if node, ok := m.nodes[path]; ok && node.isDir() {
		return &fs.PathError{Op: "write", Path: name, Err: errors.New("is a directory")}
	}
	if err := m.mkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	node := &memNode{mode: perm, modTime: time.Now(), data: make([]byte, len(data))}
	copy(node.data, data)
	m.nodes[path] = node
	return nil
}

func (m *MemoryFS) MkdirAll(path string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mkdirAll(path, perm)
}

// mkdirAll walks the path creating missing directories. It reads the
// node map directly so armed failures never block directory creation.
func (m *MemoryFS) mkdirAll(path string, perm fs.FileMode) error {
	path = abs(path)
	if node, ok := m.nodes[path]; ok {
		if !node.isDir() {
			return &fs.PathError{Op: "mkdir", Path: path, Err: errors.New("not a directory")}
		}
		return nil
	}

	current := "/"
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		current = filepath.Join(current, part)
		node, ok := m.nodes[current]
		if !ok {
			m.nodes[current] = &memNode{mode: fs.ModeDir | perm, modTime: time.Now()}
			continue
		}
		if !node.isDir() {
			return &fs.PathError{Op: "mkdir", Path: current, Err: errors.New("not a directory")}
		}
	}
	return nil
}

func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dir := abs(name)
	node, err := m.lookup(dir)
	if err != nil {
		return nil, err
	}
	if !node.isDir() {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: errors.New("not a directory")}
	}

	prefix := dir + "/"
	if dir == "/" {
		prefix = "/"
	}
	entries := []fs.DirEntry{}
	for path, child := range m.nodes {
		if !strings.HasPrefix(path, prefix) || path == dir {
			continue
		}
		rest := path[len(prefix):]
		if strings.Contains(rest, "/") {
			continue
		}
		entries = append(entries, &memDirEntry{info: &memInfo{name: rest, node: child}})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

func (m *MemoryFS) Symlink(oldname, newname string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link := abs(newname)
	if _, ok := m.nodes[link]; ok {
		return &fs.PathError{Op: "symlink", Path: newname, Err: fs.ErrExist}
	}
	parent, ok := m.nodes[filepath.Dir(link)]
	if !ok {
		return &fs.PathError{Op: "symlink", Path: newname, Err: fs.ErrNotExist}
	}
	if !parent.isDir() {
		return &fs.PathError{Op: "symlink", Path: newname, Err: errors.New("not a directory")}
	}

	m.nodes[link] = &memNode{mode: fs.ModeSymlink | 0777, modTime: time.Now(), target: oldname}
	return nil
}

func (m *MemoryFS) Readlink(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	node, err := m.lookup(name)
	if err != nil {
		return "", err
	}
	if !node.isLink() {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: errors.New("not a symbolic link")}
	}
	return node.target, nil
}

func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := abs(name)
	node, err := m.lookup(path)
	if err != nil {
		return err
	}
	if node.isDir() {
		for p := range m.nodes {
			if strings.HasPrefix(p, path+"/") {
				return &fs.PathError{Op: "remove", Path: name, Err: errors.New("directory not empty")}
			}
		}
	}
	delete(m.nodes, path)
	return nil
}

func (m *MemoryFS) RemoveAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = abs(path)
	if path == "/" {
		return &fs.PathError{Op: "removeall", Path: path, Err: errors.New("cannot remove root")}
	}
	for p := range m.nodes {
		if p == path || strings.HasPrefix(p, path+"/") {
			delete(m.nodes, p)
		}
	}
	return nil
}

// memInfo implements fs.FileInfo over a node.
type memInfo struct {
	name string
	node *memNode
}

func (i *memInfo) Name() string       { return i.name }
func (i *memInfo) Size() int64        { return int64(len(i.node.data)) }
func (i *memInfo) Mode() fs.FileMode  { return i.node.mode }
func (i *memInfo) ModTime() time.Time { return i.node.modTime }
func (i *memInfo) IsDir() bool        { return i.node.isDir() }
func (i *memInfo) Sys() interface{}   { return nil }

// memDirEntry implements fs.DirEntry.
type memDirEntry struct {
	info *memInfo
}

func (e *memDirEntry) Name() string               { return e.info.name }
func (e *memDirEntry) IsDir() bool                { return e.info.IsDir() }
func (e *memDirEntry) Type() fs.FileMode          { return e.info.Mode().Type() }
func (e *memDirEntry) Info() (fs.FileInfo, error) { return e.info, nil }
