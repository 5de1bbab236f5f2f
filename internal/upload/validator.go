package upload

import "fmt"

// Rules a validation failure can cite. The rule name travels in the
// error so the client learns exactly which constraint was violated.
const (
	RuleNoFiles  = "no_files"
	RuleTooMany  = "too_many_files"
	RuleBadType  = "invalid_file_type"
	RuleTooLarge = "file_too_large"
)

// ValidationError reports the first violated upload constraint along
// with the offending file's original name (empty for sequence-level
// rules).
type ValidationError struct {
	Rule    string // which constraint failed
	File    string // original name of the offending file, if any
	Message string // human-readable description
}

func (e *ValidationError) Error() string { return e.Message }

// Limits carries the configured upload constraints.
type Limits struct {
	MaxFiles int   // maximum number of images per submission
	MaxBytes int64 // maximum size of one image in bytes
	AllowGIF bool  // permissive variant: also accept image/gif
}

// validTypes are the MIME types accepted for query images. image/jpg
// is not a real MIME type but some clients declare it anyway.
var validTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// ValidateImages enforces the upload constraints on declared metadata
// only, before any file is persisted or any external call is made.
// It fails on the first violated rule: empty sequence, too many
// files, a disallowed type, or an oversized file. It has no side
// effects.
func ValidateImages(files []File, lim Limits) error {
	if len(files) == 0 {
		return &ValidationError{Rule: RuleNoFiles, Message: "no image files provided"}
	}
	if len(files) > lim.MaxFiles {
		return &ValidationError{
			Rule:    RuleTooMany,
			Message: fmt.Sprintf("maximum %d images allowed", lim.MaxFiles),
		}
	}
	for _, f := range files {
		if !validTypes[f.MIME] && !(lim.AllowGIF && f.MIME == "image/gif") {
			return &ValidationError{
				Rule:    RuleBadType,
				File:    f.Name,
				Message: fmt.Sprintf("invalid file type: %s. Only JPEG, PNG, and WebP are allowed.", f.Name),
			}
		}
		if f.Size > lim.MaxBytes {
			return &ValidationError{
				Rule:    RuleTooLarge,
				File:    f.Name,
				Message: fmt.Sprintf("file too large: %s. Maximum size is %dMB.", f.Name, lim.MaxBytes>>20),
			}
		}
	}
	return nil
}
