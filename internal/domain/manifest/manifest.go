package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/newtonium-installer/internal/shared/paths"
)

var (
	// ErrConfigMissing is returned when the manifest or one of its required
	// keys is absent.
	ErrConfigMissing = errors.New("config missing")

	// ErrConfigMalformed is returned when the manifest cannot be decoded or a
	// key holds an unusable value.
	ErrConfigMalformed = errors.New("config malformed")
)

// KeyError reports a single invalid key.
type KeyError struct {
	Key    string
	Reason string
	kind   error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

func (e *KeyError) Unwrap() error {
	return e.kind
}

func missing(key string) error {
	return &KeyError{Key: key, Reason: "required key is missing", kind: ErrConfigMissing}
}

func malformed(key, reason string) error {
	return &KeyError{Key: key, Reason: reason, kind: ErrConfigMalformed}
}

// InstallerConfig describes the installer window.
type InstallerConfig struct {
	Title string `json:"title" yaml:"title" toml:"title"`
}

// AppConfig describes the application being installed.
type AppConfig struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	PackageName string `json:"package_name" yaml:"package_name" toml:"package_name"`
	Icon        string `json:"icon" yaml:"icon" toml:"icon"`
}

// DesktopFileName returns the desktop entry file name for the app.
func (a AppConfig) DesktopFileName() string {
	return paths.DesktopFileName(a.PackageName)
}

// Manifest is the validated, read-only installer manifest.
type Manifest struct {
	Installer InstallerConfig
	App       AppConfig
}

type document struct {
	Installer *InstallerConfig `json:"installer" yaml:"installer" toml:"installer"`
	App       *AppConfig       `json:"app" yaml:"app" toml:"app"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", ErrConfigMissing, path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a manifest document. ext selects the format (".json",
// ".yaml", ".yml", ".toml"); anything else is treated as JSON.
func Parse(data []byte, ext string) (*Manifest, error) {
	var doc document
	if err := decode(data, strings.ToLower(ext), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigMalformed, err)
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}

	return &Manifest{
		Installer: *doc.Installer,
		App:       *doc.App,
	}, nil
}

func decode(data []byte, ext string, doc *document) error {
	switch ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, doc)
	case ".toml":
		return toml.Unmarshal(data, doc)
	default:
		return sonic.Unmarshal(data, doc)
	}
}

func (d *document) validate() error {
	var result *multierror.Error

	if d.Installer == nil {
		result = multierror.Append(result, missing("installer"))
	} else if strings.TrimSpace(d.Installer.Title) == "" {
		result = multierror.Append(result, missing("installer.title"))
	}

	if d.App == nil {
		result = multierror.Append(result, missing("app"))
		return result.ErrorOrNil()
	}

	if strings.TrimSpace(d.App.Name) == "" {
		result = multierror.Append(result, missing("app.name"))
	}

	switch pkg := d.App.PackageName; {
	case strings.TrimSpace(pkg) == "":
		result = multierror.Append(result, missing("app.package_name"))
	case strings.ContainsAny(pkg, `/\`) || pkg == "." || pkg == "..":
		result = multierror.Append(result, malformed("app.package_name", "must be a plain file name"))
	}

	switch icon := d.App.Icon; {
	case strings.TrimSpace(icon) == "":
		result = multierror.Append(result, missing("app.icon"))
	case filepath.IsAbs(icon):
		result = multierror.Append(result, malformed("app.icon", "must be relative to the installer directory"))
	case !filepath.IsLocal(icon):
		result = multierror.Append(result, malformed("app.icon", "must not leave the installer directory"))
	}

	return result.ErrorOrNil()
}

// InitData is the global object exposed to the installer UI as window.nai.
type InitData struct {
	Title           string `json:"title"`
	DefaultLocation string `json:"default_location"`
	Icon            string `json:"icon"`
}

// InitData returns the UI init values for an installer running in workDir.
func (m *Manifest) InitData(workDir string) InitData {
	return InitData{
		Title:           m.Installer.Title,
		DefaultLocation: paths.DefaultLocation(m.App.PackageName),
		Icon:            filepath.Join(workDir, m.App.Icon),
	}
}
