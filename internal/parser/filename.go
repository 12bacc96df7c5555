package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/buzunser/otagen/internal/models"
)

const (
	// ArchiveExt is the extension every flashable archive must carry
	ArchiveExt = ".zip"

	// DefaultOSName is the OS tag expected in archive filenames
	DefaultOSName = "PixelExperience"

	partSeparator = "-"
	nameSeparator = "_"
	partCount     = 5
)

// FilenameFromURL returns the last path segment of rawURL. Percent-escapes
// are kept as written since the record id is derived from this name.
func FilenameFromURL(rawURL string) (string, error) {
	p := urlPath(rawURL)
	name := p[strings.LastIndex(p, "/")+1:]
	if name == "" {
		return "", fmt.Errorf("URL %q has no file name", rawURL)
	}

	return name, nil
}

// urlPath cuts the fragment, query, scheme and host off rawURL without
// decoding it. A string without a scheme or host is a path already.
func urlPath(rawURL string) string {
	p, _, _ := strings.Cut(rawURL, "#")
	p, _, _ = strings.Cut(p, "?")

	if scheme, rest, ok := strings.Cut(p, "://"); ok && !strings.Contains(scheme, "/") {
		p = "//" + rest
	}
	if rest, ok := strings.CutPrefix(p, "//"); ok {
		if i := strings.Index(rest, "/"); i >= 0 {
			return rest[i:]
		}
		return ""
	}

	return p
}

// ParseFilename extracts build information from the archive filename in rawURL.
// The OS tag must equal osName.
func ParseFilename(rawURL, osName string) (*models.BuildInfo, error) {
	filename, err := FilenameFromURL(rawURL)
	if err != nil {
		return nil, models.NewError(models.ErrInvalidExtension, rawURL, err)
	}

	return parseName(filename, osName)
}

// ParseLocalFilename is ParseFilename for a filesystem path
func ParseLocalFilename(localPath, osName string) (*models.BuildInfo, error) {
	return parseName(filepath.Base(localPath), osName)
}

func parseName(filename, osName string) (*models.BuildInfo, error) {
	if !strings.HasSuffix(filename, ArchiveExt) {
		return nil, models.NewError(models.ErrInvalidExtension, filename,
			fmt.Errorf("provided URL does not end in %s", ArchiveExt))
	}

	parts := strings.Split(strings.TrimSuffix(filename, ArchiveExt), partSeparator)
	if len(parts) != partCount {
		return nil, models.NewError(models.ErrFilenameParts, filename,
			fmt.Errorf("filename does not contain exactly %d parts (got %d)", partCount, len(parts)))
	}

	nameParts := strings.Split(parts[0], nameSeparator)
	if len(nameParts) != 2 {
		return nil, models.NewError(models.ErrFilenameParts, filename,
			fmt.Errorf("name %q is not of the form OS%sdevice", parts[0], nameSeparator))
	}

	if nameParts[0] != osName {
		return nil, models.NewError(models.ErrOSName, filename,
			fmt.Errorf("file is for %s, not %s", nameParts[0], osName))
	}

	return &models.BuildInfo{
		Filename:  filename,
		OSName:    nameParts[0],
		Device:    nameParts[1],
		Version:   parts[1],
		Date:      parts[2],
		Time:      parts[3],
		BuildType: parts[4],
	}, nil
}
