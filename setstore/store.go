package setstore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"embliss/config"
	"embliss/debug"

	"github.com/pkg/errors"
)

// Store owns the set files of one directory. The directory is the source of
// truth: every mutation re-reads the file it touches right before writing.
type Store struct {
	dir        string
	ext        string
	maxVersion int

	// Template is the content of a freshly created set
	Template string

	mu    sync.Mutex
	files []string
	undo  map[string][]byte
}

// New creates a store over dir for files ending in ext
func New(dir, ext string, maxVersion int) *Store {
	return &Store{
		dir:        dir,
		ext:        ext,
		maxVersion: maxVersion,
		Template:   config.DefaultContent,
		undo:       make(map[string][]byte),
	}
}

// Dir returns the sets directory
func (s *Store) Dir() string { return s.dir }

// Ext returns the set file extension
func (s *Store) Ext() string { return s.ext }

// MaxVersion returns the highest version number a set may have
func (s *Store) MaxVersion() int { return s.maxVersion }

// Path returns the full path of file
func (s *Store) Path(file string) string {
	return filepath.Join(s.dir, file)
}

// ListFiles rescans the directory and returns the set files sorted by name
func (s *Store) ListFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.setFiles(nil)
			return []string{}, nil
		}
		return nil, errors.Wrapf(err, "list %s", s.dir)
	}

	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), s.ext) {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	s.setFiles(files)
	debug.Log("store", "found %d set files in %s", len(files), s.dir)
	return files, nil
}

func (s *Store) setFiles(files []string) {
	s.mu.Lock()
	s.files = files
	s.mu.Unlock()
}

func (s *Store) snapshotFiles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.files...)
}

// UniqueBaseNames returns the sorted, lowercased base names from the last
// ListFiles
func (s *Store) UniqueBaseNames() []string {
	return uniqueBases(s.snapshotFiles(), s.ext)
}

// VersionsForBase returns the files of base ordered by numeric version, the
// unversioned file first
func (s *Store) VersionsForBase(base string) []string {
	return versionsOf(s.snapshotFiles(), base, s.ext)
}

// Exists reports whether file is present on disk
func (s *Store) Exists(file string) bool {
	_, err := os.Stat(s.Path(file))
	return err == nil
}

func (s *Store) read(file string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNotFound, file)
		}
		return nil, errors.Wrapf(err, "read %s", file)
	}
	return data, nil
}

// write replaces file as a whole: temp file in the same directory, then
// rename over the target
func (s *Store) write(file string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(err, "create %s", s.dir)
	}

	tmp, err := os.CreateTemp(s.dir, "."+file+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "write %s", file)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", file)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "write %s", file)
	}
	if err := os.Rename(tmpName, s.Path(file)); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "replace %s", file)
	}
	return nil
}

// load reads file and parses its clauses
func (s *Store) load(file string) (data []byte, clauses []string, err error) {
	data, err = s.read(file)
	if err != nil {
		return nil, nil, err
	}
	return data, splitClauses(string(data)), nil
}

// Segments parses file into its typed segments
func (s *Store) Segments(file string) ([]Segment, error) {
	_, clauses, err := s.load(file)
	if err != nil {
		return nil, err
	}
	return parseSegments(clauses), nil
}

// TrackGroups returns the track groups of file in order
func (s *Store) TrackGroups(file string) ([]TrackGroup, error) {
	_, clauses, err := s.load(file)
	if err != nil {
		return nil, err
	}
	return buildGroups(parseSegments(clauses), len(clauses)), nil
}

// Create writes a new set with the default template
func (s *Store) Create(file string) error {
	if _, _, ok := ParseFilename(file, s.ext); !ok {
		return errors.Wrap(ErrInvalidName, file)
	}
	if s.Exists(file) {
		return errors.Wrap(ErrExists, file)
	}
	if err := s.write(file, []byte(s.Template)); err != nil {
		return err
	}
	s.dropUndo(file)
	debug.Info("store", "created %s", file)
	return nil
}

// Rename moves oldFile to newFile. Renaming a file to itself is a no-op.
func (s *Store) Rename(oldFile, newFile string) error {
	if _, _, ok := ParseFilename(newFile, s.ext); !ok {
		return errors.Wrap(ErrInvalidName, newFile)
	}
	if !s.Exists(oldFile) {
		return errors.Wrap(ErrNotFound, oldFile)
	}
	if oldFile == newFile {
		return nil
	}
	if s.Exists(newFile) {
		return errors.Wrap(ErrExists, newFile)
	}
	if err := os.Rename(s.Path(oldFile), s.Path(newFile)); err != nil {
		return errors.Wrapf(err, "rename %s", oldFile)
	}

	s.dropUndo(oldFile)
	s.dropUndo(newFile)

	debug.Info("store", "renamed %s -> %s", oldFile, newFile)
	return nil
}

// Iterate copies file to the next unused version of its base and returns the
// new filename
func (s *Store) Iterate(file string) (string, error) {
	base, version, ok := ParseFilename(file, s.ext)
	if !ok {
		return "", errors.Wrap(ErrInvalidName, file)
	}
	data, err := s.read(file)
	if err != nil {
		return "", err
	}

	for v := version + 1; v <= s.maxVersion; v++ {
		next := FormatFilename(base, v, s.ext)
		if s.Exists(next) {
			continue
		}
		if err := s.write(next, data); err != nil {
			return "", err
		}
		debug.Info("store", "iterated %s -> %s", file, next)
		return next, nil
	}
	return "", errors.Wrapf(ErrExhausted, "%s: no version left up to %d", base, s.maxVersion)
}

// Delete removes file. Its content is kept as the undo snapshot.
func (s *Store) Delete(file string) error {
	data, err := s.read(file)
	if err != nil {
		return err
	}
	s.saveUndo(file, data)
	if err := os.Remove(s.Path(file)); err != nil {
		return errors.Wrapf(err, "delete %s", file)
	}
	debug.Info("store", "deleted %s", file)
	return nil
}
