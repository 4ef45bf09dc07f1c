package settings

import (
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Catalog option names.
const (
	// OptQuiet suppresses informational console output.
	OptQuiet = "quiet"
	// OptBackup enables backup-before-overwrite.
	OptBackup = "backup"
	// OptTrailingBlank appends one empty line after spliced text.
	OptTrailingBlank = "trailing.blank"
	// OptUnwrapSingle returns a bare result instead of a one-element
	// list when exactly one file was processed.
	OptUnwrapSingle = "unwrap.single"
	// OptBackupDir names the sibling backup directory.
	OptBackupDir = "dir.backup"
	// OptModelName derives a model name from a control stream path.
	OptModelName = "modelname"
	// OptCSVArgs are the default arguments for reading data files.
	OptCSVArgs = "csv.args"
)

// csvArgKeys are the argument names OptCSVArgs accepts.
var csvArgKeys = map[string]bool{"sep": true, "header": true, "na": true}

func boolEntry(name string, def bool) Entry {
	return Entry{
		Name:    name,
		Kind:    KindBool,
		Default: def,
		Validate: func(v any) error {
			if _, ok := v.(bool); !ok {
				return errors.Errorf("want bool, got %T", v)
			}
			return nil
		},
	}
}

// catalog is the fixed set of built-in options. New returns a store with
// every entry set to its default.
func catalog() []Entry {
	return []Entry{
		boolEntry(OptQuiet, false),
		boolEntry(OptBackup, true),
		boolEntry(OptTrailingBlank, true),
		boolEntry(OptUnwrapSingle, true),
		{
			Name:    OptBackupDir,
			Kind:    KindString,
			Default: "NMdata_backup",
			Validate: func(v any) error {
				s, ok := v.(string)
				if !ok {
					return errors.Errorf("want string, got %T", v)
				}
				if s == "" {
					return errors.New("directory name must not be empty")
				}
				if strings.ContainsRune(s, filepath.Separator) || strings.ContainsRune(s, '/') {
					return errors.Errorf("%q must be a bare directory name, not a path", s)
				}
				return nil
			},
		},
		{
			Name:    OptModelName,
			Kind:    KindDerivation,
			Default: Derived(ModelNameFromPath),
			Validate: func(v any) error {
				switch v.(type) {
				case string, func(string) string, Derivation:
					return nil
				}
				return errors.Errorf("want string or func(string) string, got %T", v)
			},
			// A bare string shorthand expands into a constant
			// derivation so every consumer sees one shape.
			Normalize: func(v any) (any, error) {
				switch val := v.(type) {
				case string:
					return Constant(val), nil
				case func(string) string:
					return Derived(val), nil
				case Derivation:
					return val, nil
				}
				return nil, errors.Errorf("cannot normalize %T", v)
			},
		},
		{
			Name:    OptCSVArgs,
			Kind:    KindArgs,
			Default: map[string]string{"sep": ",", "header": "true"},
			Validate: func(v any) error {
				args, ok := v.(map[string]string)
				if !ok {
					return errors.Errorf("want map[string]string, got %T", v)
				}
				for k := range args {
					if !csvArgKeys[k] {
						return errors.Errorf("unknown argument %q", k)
					}
				}
				return nil
			},
		},
	}
}

// ModelNameFromPath is the default model name derivation: the file's base
// name with its extension removed.
func ModelNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
