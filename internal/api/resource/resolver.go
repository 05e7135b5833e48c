package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/GriffinCanCode/newtonium-installer/internal/shared/paths"
)

var (
	// ErrNotFound is returned when the requested file does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrOutsideRoot is returned when a path resolves outside its root.
	ErrOutsideRoot = errors.New("resource outside of root")
)

const octetStream = "application/octet-stream"

// Root labels used in metrics and logs.
const (
	RootView       = "view"
	RootFilesystem = "fs"
	RootDev        = "dev"
)

// Resource is a resolved file.
type Resource struct {
	// Root is RootView or RootFilesystem.
	Root        string
	Path        string
	ContentType string
	Body        []byte
	// Entry is set for the view's entry document.
	Entry bool
}

// Resolver maps resource requests onto files.
type Resolver struct {
	viewDir string
}

// NewResolver creates a resolver serving UI assets from viewDir.
func NewResolver(viewDir string) (*Resolver, error) {
	abs, err := filepath.Abs(viewDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve view directory: %w", err)
	}
	return &Resolver{viewDir: abs}, nil
}

// ViewDir returns the absolute UI asset directory.
func (r *Resolver) ViewDir() string {
	return r.viewDir
}

// IsResourceAuthority reports whether authority addresses the filesystem
// root rather than the UI assets.
func IsResourceAuthority(authority string) bool {
	return strings.Contains(authority, paths.ResourceMarker)
}

// Resolve reads the file addressed by authority and path.
func (r *Resolver) Resolve(authority, path string) (*Resource, error) {
	label, root := RootView, r.viewDir
	if IsResourceAuthority(authority) {
		label, root = RootFilesystem, "/"
	}

	rel := strings.TrimPrefix(path, "/")
	if rel == "" {
		rel = paths.EntryDocument
	}

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, notFound(root, err)
	}

	target, err := filepath.EvalSymlinks(filepath.Join(root, rel))
	if err != nil {
		return nil, notFound(path, err)
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize %s: %w", path, err)
	}
	if !within(realRoot, target) {
		return nil, fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}

	body, err := os.ReadFile(target)
	if err != nil {
		return nil, notFound(path, err)
	}

	return &Resource{
		Root:        label,
		Path:        target,
		ContentType: contentTypeFor(target, body),
		Body:        body,
		Entry:       label == RootView && target == filepath.Join(realRoot, paths.EntryDocument),
	}, nil
}

func notFound(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return fmt.Errorf("failed to read %s: %w", path, err)
}

func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// contentTypeFor guesses from the extension first and sniffs the content for
// unknown extensions. Parameters such as charset are dropped.
func contentTypeFor(path string, body []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return essence(t)
	}
	if len(body) == 0 {
		return octetStream
	}
	return essence(mimetype.Detect(body).String())
}

func essence(t string) string {
	media, _, err := mime.ParseMediaType(t)
	if err != nil {
		return octetStream
	}
	return media
}
