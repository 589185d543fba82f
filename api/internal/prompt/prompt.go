// Package prompt loads the model instructions. Templates are read from a
// directory on every call so they can be tuned without a redeploy; the copies
// embedded in the binary are used when the file is missing or empty.
package prompt

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	CertificateType     = "certificate_type"
	LifeInsurance       = "life_insurance"
	EarthquakeInsurance = "earthquake_insurance"
	SocialInsurance     = "social_insurance"
	SmallMutualAid      = "small_mutual_aid"
)

// Names lists every template the service uses.
var Names = []string{CertificateType, LifeInsurance, EarthquakeInsurance, SocialInsurance, SmallMutualAid}

var allowedNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

//go:embed templates/*.txt
var embedded embed.FS

type Store struct {
	dir string
}

// NewStore reads templates from dir. An empty dir means embedded only.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

// Load returns the template called name.
func (s *Store) Load(name string) (string, error) {
	if !allowedNameRe.MatchString(name) {
		return "", fmt.Errorf("invalid prompt name %q", name)
	}
	if s.dir != "" {
		p := filepath.Join(s.dir, name+".txt")
		if b, err := os.ReadFile(p); err == nil && len(strings.TrimSpace(string(b))) > 0 {
			return string(b), nil
		}
	}
	b, err := embedded.ReadFile("templates/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("prompt %q not found in %q or embedded templates", name, s.dir)
	}
	return string(b), nil
}

var (
	// ErrUnknownPrompt is returned by Save for names outside Names.
	ErrUnknownPrompt = errors.New("unknown prompt")
	ErrEmptyPrompt   = errors.New("prompt text is empty")
)

// Save replaces the template file for name in the store's directory. The
// write goes to a temp file in the same directory and is renamed into place,
// so concurrent Loads see either the old or the new text.
func (s *Store) Save(name, text string) error {
	known := false
	for _, n := range Names {
		if n == name {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q", ErrUnknownPrompt, name)
	}
	if s.dir == "" {
		return errors.New("prompt directory is not configured")
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyPrompt
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("make dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, name+".txt")); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
