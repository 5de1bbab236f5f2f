package upload_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/agrimitra/farmer-assist/internal/upload"
)

func limits() upload.Limits {
	return upload.Limits{MaxFiles: 5, MaxBytes: 5 << 20}
}

func img(name, mime string, size int64) upload.File {
	return upload.File{Name: name, MIME: mime, Size: size}
}

func TestValidateImagesAcceptsValidMix(t *testing.T) {
	files := []upload.File{
		img("leaf.jpg", "image/jpeg", 1024),
		img("leaf2.jpeg", "image/jpg", 2048),
		img("soil.png", "image/png", 4<<20),
		img("pest.webp", "image/webp", 5<<20),
	}
	if err := upload.ValidateImages(files, limits()); err != nil {
		t.Fatalf("expected valid mix to pass, got %v", err)
	}
}

func TestValidateImagesRejectsEmpty(t *testing.T) {
	err := upload.ValidateImages(nil, limits())
	var verr *upload.ValidationError
	if !errors.As(err, &verr) || verr.Rule != upload.RuleNoFiles {
		t.Fatalf("expected no_files violation, got %v", err)
	}
}

func TestValidateImagesRejectsSixthFile(t *testing.T) {
	var files []upload.File
	for i := 0; i < 6; i++ {
		files = append(files, img(fmt.Sprintf("f%d.png", i), "image/png", 100))
	}
	err := upload.ValidateImages(files, limits())
	var verr *upload.ValidationError
	if !errors.As(err, &verr) || verr.Rule != upload.RuleTooMany {
		t.Fatalf("expected too_many_files violation, got %v", err)
	}
}

func TestValidateImagesRejectsBadType(t *testing.T) {
	files := []upload.File{
		img("ok.jpg", "image/jpeg", 100),
		img("notes.pdf", "application/pdf", 100),
	}
	err := upload.ValidateImages(files, limits())
	var verr *upload.ValidationError
	if !errors.As(err, &verr) || verr.Rule != upload.RuleBadType {
		t.Fatalf("expected invalid_file_type violation, got %v", err)
	}
	if verr.File != "notes.pdf" {
		t.Fatalf("violation should name the offending file, got %q", verr.File)
	}
}

func TestValidateImagesRejectsOversized(t *testing.T) {
	files := []upload.File{img("huge.png", "image/png", (5<<20)+1)}
	err := upload.ValidateImages(files, limits())
	var verr *upload.ValidationError
	if !errors.As(err, &verr) || verr.Rule != upload.RuleTooLarge {
		t.Fatalf("expected file_too_large violation, got %v", err)
	}
}

func TestValidateImagesGIFOnlyWhenAllowed(t *testing.T) {
	files := []upload.File{img("anim.gif", "image/gif", 100)}

	if err := upload.ValidateImages(files, limits()); err == nil {
		t.Fatalf("gif must be rejected by default")
	}

	lim := limits()
	lim.AllowGIF = true
	if err := upload.ValidateImages(files, lim); err != nil {
		t.Fatalf("gif must pass when allowed, got %v", err)
	}
}

func TestValidateImagesStopsAtFirstViolation(t *testing.T) {
	files := []upload.File{
		img("bad.bmp", "image/bmp", 100),
		img("huge.png", "image/png", 50<<20),
	}
	err := upload.ValidateImages(files, limits())
	var verr *upload.ValidationError
	if !errors.As(err, &verr) || verr.Rule != upload.RuleBadType {
		t.Fatalf("expected the first violation to win, got %v", err)
	}
}
