package upload

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicBase is the URL prefix under which stored files are served.
const PublicBase = "/uploads"

// StoredFile is the result of persisting one upload: the on-disk path,
// the public reference recorded on the query, and the payload bytes,
// which the submission pipeline reuses to build the AI prompt without
// reading the file back.
type StoredFile struct {
	Name      string // generated file name on disk
	Path      string // absolute-ish path inside the upload directory
	PublicURL string // reference stored on the query record
	MIME      string // declared MIME type, carried through for encoding
	Data      []byte // file payload
}

// DeleteResult reports the outcome for one reference in a best-effort
// delete pass. Err is nil both when the file was removed and when it
// was already absent.
type DeleteResult struct {
	Ref string
	Err error
}

// Store owns the uploads directory. File names are generated with a
// millisecond timestamp plus a random suffix so no two stored files
// can ever share a path, which is what lets query records own their
// image files exclusively.
type Store struct {
	Dir string
}

// NewStore ensures the upload directory exists and returns a Store
// rooted there.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Save reads the upload's payload and writes it under a unique name,
// returning the stored file together with its public reference.
func (s *Store) Save(f File) (StoredFile, error) {
	rc, err := f.Open()
	if err != nil {
		return StoredFile{}, fmt.Errorf("open upload %s: %w", f.Name, err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return StoredFile{}, fmt.Errorf("read upload %s: %w", f.Name, err)
	}

	name := uniqueName(f.Name)
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return StoredFile{}, fmt.Errorf("write upload %s: %w", name, err)
	}
	return StoredFile{
		Name:      name,
		Path:      path,
		PublicURL: PublicBase + "/" + name,
		MIME:      f.MIME,
		Data:      data,
	}, nil
}

// Delete removes the files behind the given references best-effort.
// Each reference is resolved to a base name inside the upload
// directory, so both public URLs and bare names are accepted.
// Deleting an absent file is not an error (idempotent), and one
// failure never stops the remaining deletions; failures are logged
// and reported in the per-item results.
func (s *Store) Delete(refs []string) []DeleteResult {
	results := make([]DeleteResult, 0, len(refs))
	for _, ref := range refs {
		err := os.Remove(filepath.Join(s.Dir, filepath.Base(ref)))
		if err != nil && os.IsNotExist(err) {
			err = nil
		}
		if err != nil {
			log.Printf("upload: delete %s failed: %v", ref, err)
		}
		results = append(results, DeleteResult{Ref: ref, Err: err})
	}
	return results
}

// uniqueName builds a storage name from the current time, a random
// suffix and the original extension, e.g. query-1717171717171-3f9c2d1a.jpg.
func uniqueName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if ext == "" {
		ext = ".jpg"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("query-%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}
