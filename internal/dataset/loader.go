package dataset

import (
	"strings"
	"sync"

	"carscope/domain/listing"
	"carscope/internal/errors"

	"github.com/google/uuid"
)

// DefaultID is the dataset ID resolving to the configured data file
const DefaultID = "default"

// Loader loads listing tables and caches them keyed by dataset ID. Tables
// are read-only once cached, so cached entries are shared across requests.
// Uploaded datasets live in memory for the process lifetime only.
type Loader struct {
	defaultPath string

	mu      sync.RWMutex
	cache   map[string]*listing.Table
	uploads map[string]uploadedFile
}

type uploadedFile struct {
	name string
	data []byte
}

// NewLoader creates a loader reading the default dataset from path
func NewLoader(path string) *Loader {
	return &Loader{
		defaultPath: path,
		cache:       make(map[string]*listing.Table),
		uploads:     make(map[string]uploadedFile),
	}
}

// Load returns the table for a dataset ID, parsing at most once per source.
// An empty ID resolves to the default dataset.
func (l *Loader) Load(id string) (*listing.Table, error) {
	if id == "" {
		id = DefaultID
	}

	l.mu.RLock()
	if t, ok := l.cache[id]; ok {
		l.mu.RUnlock()
		return t, nil
	}
	upload, isUpload := l.uploads[id]
	l.mu.RUnlock()

	var rows [][]string
	var err error
	switch {
	case id == DefaultID:
		rows, err = NewDataReader(l.defaultPath).ReadRows()
	case isUpload:
		rows, err = ReadRowsBytes(upload.name, upload.data)
	default:
		return nil, errors.InvalidInput("unknown dataset: " + id)
	}
	if err != nil {
		return nil, err
	}

	t := BuildTable(rows)

	l.mu.Lock()
	defer l.mu.Unlock()
	// Another request may have loaded the same source meanwhile; keep the
	// first cached table so callers always share one instance.
	if cached, ok := l.cache[id]; ok {
		return cached, nil
	}
	l.cache[id] = t
	return t, nil
}

// Register stores an uploaded file and returns its dataset ID. The content
// is parsed eagerly so malformed uploads are rejected here rather than on
// the next page render.
func (l *Loader) Register(filename string, data []byte) (string, error) {
	filename = strings.TrimSpace(filename)
	if !SupportedFile(filename) {
		return "", errors.UnsupportedFile(filename)
	}

	rows, err := ReadRowsBytes(filename, data)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.uploads[id] = uploadedFile{name: filename, data: data}
	l.cache[id] = BuildTable(rows)
	return id, nil
}

// Name returns the display name for a dataset ID
func (l *Loader) Name(id string) string {
	if id == "" || id == DefaultID {
		return l.defaultPath
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if upload, ok := l.uploads[id]; ok {
		return upload.name
	}
	return id
}

// Known reports whether the loader can resolve a dataset ID
func (l *Loader) Known(id string) bool {
	if id == "" || id == DefaultID {
		return true
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.uploads[id]
	return ok
}
