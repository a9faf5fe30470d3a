package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/coreos/go-semver/semver"

	"github.com/mutools/mubundle/emit"
	muerrors "github.com/mutools/mubundle/errors"
	"github.com/mutools/mubundle/library"
)

// Bundle is a loaded manifest: the root descriptor with its dependency tree
// linked up, the output filename, and the emission options the manifest
// selected.
type Bundle struct {
	Root    *library.Descriptor
	Output  string
	Options emit.Options
}

type fileManifest struct {
	Root                       string           `toml:"root"`
	Output                     string           `toml:"output"`
	Strict                     bool             `toml:"strict"`
	SuppressVersionDiagnostics bool             `toml:"suppress_version_diagnostics"`
	LicenseFile                string           `toml:"license_file"`
	Comment                    commentSection   `toml:"comment"`
	Libraries                  []librarySection `toml:"library"`
}

type commentSection struct {
	Filename       string `toml:"filename"`
	Author         string `toml:"author"`
	Description    string `toml:"description"`
	LicensePointer string `toml:"license_pointer"`
	Notes          string `toml:"notes"`
}

type librarySection struct {
	Name    string   `toml:"name"`
	Version string   `toml:"version"`
	Guard   string   `toml:"guard"`
	Header  string   `toml:"header"`
	Impl    string   `toml:"impl"`
	Depends []string `toml:"depends"`
}

// Load reads a bundle manifest and its region files. Region paths resolve
// relative to the manifest's directory. Dependencies reference other entries
// by name, optionally pinned to a version with "name@major.minor.patch"; a
// pin that disagrees with the entry's own version surfaces later as a
// version conflict, exactly as it would between two real files.
func Load(path string) (*Bundle, error) {
	var raw fileManifest
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, muerrors.Wrap(muerrors.PhaseManifest, muerrors.KindInvalidInput, err, "parse manifest")
	}
	return link(&raw, filepath.Dir(path))
}

func link(raw *fileManifest, dir string) (*Bundle, error) {
	if raw.Root == "" {
		return nil, muerrors.InvalidInput(muerrors.PhaseManifest, "manifest declares no root library")
	}
	if len(raw.Libraries) == 0 {
		return nil, muerrors.InvalidInput(muerrors.PhaseManifest, "manifest declares no libraries")
	}

	descriptors := make(map[string]*library.Descriptor, len(raw.Libraries))
	for i := range raw.Libraries {
		entry := &raw.Libraries[i]
		if entry.Name == "" {
			return nil, muerrors.InvalidInput(muerrors.PhaseManifest, "library entry has no name")
		}
		if _, dup := descriptors[entry.Name]; dup {
			return nil, muerrors.DuplicateLibrary(entry.Name)
		}

		d, err := library.New(entry.Name, entry.Version)
		if err != nil {
			return nil, muerrors.New(muerrors.PhaseManifest, muerrors.KindInvalidInput).
				Libraries(entry.Name).
				Cause(err).
				Detail("parse version %q", entry.Version).
				Build()
		}
		d.Guard = entry.Guard

		if entry.Header != "" {
			text, err := readRegion(dir, entry.Header)
			if err != nil {
				return nil, muerrors.New(muerrors.PhaseManifest, muerrors.KindInvalidInput).
					Libraries(entry.Name).
					Cause(err).
					Detail("read header region").
					Build()
			}
			d.Header = text
		}
		if entry.Impl != "" {
			text, err := readRegion(dir, entry.Impl)
			if err != nil {
				return nil, muerrors.New(muerrors.PhaseManifest, muerrors.KindInvalidInput).
					Libraries(entry.Name).
					Cause(err).
					Detail("read implementation region").
					Build()
			}
			d.Impl = text
		}

		descriptors[entry.Name] = d
	}

	for _, entry := range raw.Libraries {
		d := descriptors[entry.Name]
		for _, ref := range entry.Depends {
			name, pin, pinned := strings.Cut(ref, "@")
			dep, ok := descriptors[name]
			if !ok {
				return nil, muerrors.UnknownLibrary(name, entry.Name)
			}
			if pinned {
				v, err := semver.NewVersion(pin)
				if err != nil {
					return nil, muerrors.New(muerrors.PhaseManifest, muerrors.KindInvalidInput).
						Libraries(entry.Name).
						Cause(err).
						Detail("parse dependency pin %q", ref).
						Build()
				}
				// A pinned request is its own descriptor so the graph sees
				// the disagreement; regions and subtree are shared.
				pinnedDep := *dep
				pinnedDep.Version = *v
				dep = &pinnedDep
			}
			d.Depends(dep)
		}
	}

	root, ok := descriptors[raw.Root]
	if !ok {
		return nil, muerrors.UnknownLibrary(raw.Root, "(root)")
	}

	opts := emit.Options{
		Strict:                     raw.Strict,
		SuppressVersionDiagnostics: raw.SuppressVersionDiagnostics,
		Comment: emit.FileComment{
			Filename:       raw.Comment.Filename,
			Author:         raw.Comment.Author,
			Description:    raw.Comment.Description,
			LicensePointer: raw.Comment.LicensePointer,
			Notes:          raw.Comment.Notes,
		},
	}
	if raw.LicenseFile != "" {
		text, err := readRegion(dir, raw.LicenseFile)
		if err != nil {
			return nil, muerrors.Wrap(muerrors.PhaseManifest, muerrors.KindInvalidInput, err, "read license file")
		}
		opts.License = text
	}

	output := raw.Output
	if output == "" {
		output = raw.Root + ".h"
	}

	return &Bundle{Root: root, Output: output, Options: opts}, nil
}

func readRegion(dir, path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
