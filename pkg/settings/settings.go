// Copyright 2025 the NMdata authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package settings holds the named-option registry that supplies
// process-wide defaults for control stream editing. The store is an
// explicit value constructed by the caller, not package-level state;
// during a batch run it is only read, so a single store is safe to share
// across goroutines.
package settings

import (
	"fmt"
	"sync"

	"gitlab.com/tozd/go/errors"
)

var (
	// ErrUnknownOption is returned for names outside the catalog when
	// the store is not permissive.
	ErrUnknownOption = errors.Base("unknown option")

	// ErrInvalidOption is returned when a value fails its entry's
	// validator.
	ErrInvalidOption = errors.Base("invalid option value")
)

// resetMarker is the type of Default.
type resetMarker struct{}

// Default is the sentinel value accepted by Set to restore an entry to its
// registered default.
var Default = resetMarker{}

// Kind classifies the value shape an entry accepts.
type Kind string

const (
	KindBool       Kind = "bool"
	KindString     Kind = "string"
	KindArgs       Kind = "args"       // map of named string arguments
	KindDerivation Kind = "derivation" // constant string or derivation function
)

// Entry describes one registered option: its default, how to validate a
// candidate value and how to normalize it before storage.
type Entry struct {
	Name      string
	Kind      Kind
	Default   any
	Validate  func(any) error
	Normalize func(any) (any, error)
}

// Store is a named-option registry seeded from the fixed catalog.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]Entry
	values     map[string]any
	permissive bool
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithPermissive lets the store synthesize pass-through entries for
// unknown names instead of rejecting them.
func WithPermissive() Option {
	return func(s *Store) { s.permissive = true }
}

// New builds a store populated with the built-in catalog.
func New(opts ...Option) *Store {
	s := &Store{
		entries: map[string]Entry{},
		values:  map[string]any{},
	}
	for _, o := range opts {
		o(s)
	}
	for _, e := range catalog() {
		s.register(e)
	}
	return s
}

func (s *Store) register(e Entry) {
	s.entries[e.Name] = e
	s.values[e.Name] = e.Default
}

// passThrough synthesizes an always-valid entry for an unknown name. Only
// reachable in permissive mode. The caller must hold the write lock.
func (s *Store) passThrough(name string) Entry {
	e := Entry{Name: name, Kind: KindString}
	s.entries[name] = e
	return e
}

// Get returns the current value of the named option. Unknown names fail
// unless the store is permissive, in which case a pass-through entry with
// a nil value is synthesized.
func (s *Store) Get(name string) (any, error) {
	s.mu.RLock()
	v, _ := s.values[name]
	_, known := s.entries[name]
	s.mu.RUnlock()
	if known {
		return v, nil
	}
	if !s.permissive {
		return nil, errors.Errorf("%w: %q", ErrUnknownOption, name)
	}
	s.mu.Lock()
	s.passThrough(name)
	s.mu.Unlock()
	return nil, nil
}

// Set stores a value for the named option after validation and
// normalization. Passing Default restores the registered default.
func (s *Store) Set(name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		if !s.permissive {
			return errors.Errorf("%w: %q", ErrUnknownOption, name)
		}
		e = s.passThrough(name)
	}

	if _, isReset := value.(resetMarker); isReset {
		s.values[name] = e.Default
		return nil
	}

	if e.Validate != nil {
		if err := e.Validate(value); err != nil {
			return errors.Errorf("%w for %q: %w", ErrInvalidOption, name, err)
		}
	}
	if e.Normalize != nil {
		v, err := e.Normalize(value)
		if err != nil {
			return errors.Errorf("%w for %q: %w", ErrInvalidOption, name, err)
		}
		value = v
	}
	s.values[name] = value
	return nil
}

// Reset restores one option to its registered default.
func (s *Store) Reset(name string) error {
	return s.Set(name, Default)
}

// ResetAll restores every registered option to its default.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, e := range s.entries {
		s.values[name] = e.Default
	}
}

// Bool returns the named option as a bool.
func (s *Store) Bool(name string) (bool, error) {
	v, err := s.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.Errorf("%w: %q is not a bool (%T)", ErrInvalidOption, name, v)
	}
	return b, nil
}

// String returns the named option as a string.
func (s *Store) String(name string) (string, error) {
	v, err := s.Get(name)
	if err != nil {
		return "", err
	}
	str, ok := v.(string)
	if !ok {
		return "", errors.Errorf("%w: %q is not a string (%T)", ErrInvalidOption, name, v)
	}
	return str, nil
}

// Args returns the named option as a named-argument map.
func (s *Store) Args(name string) (map[string]string, error) {
	v, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	args, ok := v.(map[string]string)
	if !ok {
		return nil, errors.Errorf("%w: %q is not a named-argument map (%T)", ErrInvalidOption, name, v)
	}
	return args, nil
}

// Derivation returns the named option as a Derivation.
func (s *Store) Derivation(name string) (Derivation, error) {
	v, err := s.Get(name)
	if err != nil {
		return Derivation{}, err
	}
	d, ok := v.(Derivation)
	if !ok {
		return Derivation{}, errors.Errorf("%w: %q is not a derivation (%T)", ErrInvalidOption, name, v)
	}
	return d, nil
}

// Derivation is a value that is either a fixed string or a function
// deriving a string from an input. Both shapes collapse behind Resolve.
type Derivation struct {
	constant string
	fn       func(string) string
}

// Constant builds a Derivation that always resolves to s.
func Constant(s string) Derivation {
	return Derivation{constant: s}
}

// Derived builds a Derivation that resolves by applying fn to the input.
func Derived(fn func(string) string) Derivation {
	return Derivation{fn: fn}
}

// Resolve produces the derivation's value for the given input.
func (d Derivation) Resolve(input string) string {
	if d.fn != nil {
		return d.fn(input)
	}
	return d.constant
}

// String implements fmt.Stringer for logging.
func (d Derivation) String() string {
	if d.fn != nil {
		return "<derived>"
	}
	return fmt.Sprintf("%q", d.constant)
}
