// Package images localizes embedded images: it downloads each remote image
// referenced by a message body and rewrites the reference to point at a
// locally stored copy, so archived content remains valid after the remote
// link expires.
package images

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hayasedb/chatarchive/internal/segment"
)

// DefaultDir is used when no storage directory is configured or the
// configured one cannot be created.
const DefaultDir = "data/chat_archive_images"

// Localizer downloads embedded images and rewrites their references to local
// paths. The zero value is not usable; construct with NewLocalizer.
type Localizer struct {
	dir     string
	fetcher Fetcher
	logger  *slog.Logger
}

// NewLocalizer creates a Localizer storing images under dir. An empty or
// uncreatable dir falls back to DefaultDir.
func NewLocalizer(dir string, fetcher Fetcher, logger *slog.Logger) *Localizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log := logger.With("component", "image_localizer")

	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn("Cannot create configured image directory, using default",
			"dir", dir, "default", DefaultDir, "error", err)
		dir = DefaultDir
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("Cannot create default image directory", "dir", dir, "error", err)
		}
	}

	return &Localizer{
		dir:     dir,
		fetcher: fetcher,
		logger:  log,
	}
}

// Dir returns the resolved storage directory.
func (l *Localizer) Dir() string {
	return l.dir
}

// Localize downloads every remote image referenced by content and rewrites
// each reference to its locally stored copy. Images are processed
// independently and sequentially: a failed download leaves that single
// reference unmodified and never fails the whole call.
func (l *Localizer) Localize(ctx context.Context, content string) string {
	refs := segment.ParseImages(content)
	if len(refs) == 0 {
		return content
	}

	for _, ref := range refs {
		if !isRemote(ref.Src) {
			continue
		}

		localPath, err := l.localizeOne(ctx, ref)
		if err != nil {
			l.logger.WarnContext(ctx, "Failed to localize image, keeping remote reference",
				"src", ref.Src, "error", err)
			continue
		}

		content = strings.Replace(content, ref.Raw, segment.Image(localPath, ref.File), 1)
	}

	return content
}

// localizeOne fetches one image and writes it under the storage directory,
// returning the forward-slash relative path of the stored file.
func (l *Localizer) localizeOne(ctx context.Context, ref segment.ImageRef) (string, error) {
	data, contentType, err := l.fetcher.Fetch(ctx, ref.Src)
	if err != nil {
		return "", err
	}

	name := SanitizeFilename(ref.File)
	if name == "" {
		name = "image"
	}
	if path.Ext(name) == "" {
		name += extensionFor(contentType)
	}

	target := resolveCollision(l.dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", err
	}

	l.logger.DebugContext(ctx, "Localized image", "src", ref.Src, "path", target)
	return filepath.ToSlash(target), nil
}

// SanitizeFilename strips path separators and characters that are illegal in
// file names on common platforms.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			continue
		}
		if r < 0x20 {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// resolveCollision returns a path under dir that does not exist yet,
// appending (1), (2), ... before the extension until one is free. Any Stat
// failure, not just not-exist, stops the search; the subsequent write then
// reports the underlying problem.
func resolveCollision(dir, name string) string {
	target := filepath.Join(dir, name)
	if _, err := os.Stat(target); err != nil {
		return target
	}

	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, base+"("+strconv.Itoa(i)+")"+ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// extensionFor maps a declared content type to a file extension. Common image
// types are mapped explicitly; anything else falls back to the platform mime
// registry, then to no extension.
func extensionFor(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mt {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	}
	if exts, err := mime.ExtensionsByType(mt); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

