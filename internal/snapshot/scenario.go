package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/mod/semver"
)

// SupportedVersion is the newest scenario format this package reads.
const SupportedVersion = "v1.0.0"

// ErrVersion is returned for a missing, malformed or unsupported version.
var ErrVersion = errors.New("unsupported scenario version")

// ID names an object inside a scenario. Zero is not a valid id.
type ID uint64

// Object is one scenario object.
type Object struct {
	ID    ID     `json:"id"`
	Type  string `json:"type,omitempty"`
	Size  uint64 `json:"size,omitempty"`
	Ptrs  []ID   `json:"ptrs,omitempty"`
	Fixed bool   `json:"fixed,omitempty"`
}

// Scenario is a decoded scenario document.
type Scenario struct {
	Version   string   `json:"version"`
	Objects   []Object `json:"objects"`
	Roots     []ID     `json:"roots,omitempty"`
	SoftRoots []ID     `json:"soft_roots,omitempty"`
	Destroyed []ID     `json:"destroyed,omitempty"`
}

// Load decodes and validates a scenario.
func Load(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a scenario from path.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// CheckVersion reports whether v is a v1 semantic version not newer than
// SupportedVersion. The returned error wraps ErrVersion.
func CheckVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrVersion, v)
	}
	if semver.Major(v) != semver.Major(SupportedVersion) {
		return fmt.Errorf("%w: major version %s, want %s", ErrVersion, semver.Major(v), semver.Major(SupportedVersion))
	}
	if semver.Compare(v, SupportedVersion) > 0 {
		return fmt.Errorf("%w: %s is newer than %s", ErrVersion, v, SupportedVersion)
	}
	return nil
}

// Validate checks the version, that ids are non-zero and unique, and that
// every pointer and root list names a declared object.
func (s *Scenario) Validate() error {
	if err := CheckVersion(s.Version); err != nil {
		return err
	}

	ids := make(map[ID]struct{}, len(s.Objects))
	for i, obj := range s.Objects {
		if obj.ID == 0 {
			return fmt.Errorf("object at index %d missing ID", i)
		}
		if _, dup := ids[obj.ID]; dup {
			return fmt.Errorf("object %d declared twice", obj.ID)
		}
		ids[obj.ID] = struct{}{}
	}

	check := func(what string, list []ID) error {
		for _, id := range list {
			if _, ok := ids[id]; !ok {
				return fmt.Errorf("%s references undeclared object %d", what, id)
			}
		}
		return nil
	}
	for _, obj := range s.Objects {
		if err := check(fmt.Sprintf("object %d", obj.ID), obj.Ptrs); err != nil {
			return err
		}
	}
	if err := check("roots", s.Roots); err != nil {
		return err
	}
	if err := check("soft_roots", s.SoftRoots); err != nil {
		return err
	}
	return check("destroyed", s.Destroyed)
}

// Write encodes s as indented JSON.
func (s *Scenario) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
