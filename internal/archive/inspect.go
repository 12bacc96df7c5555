package archive

import (
	"bytes"
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/zip"
)

// UpdateBinary is the entry recovery executes when flashing a package
const UpdateBinary = "META-INF/com/google/android/update-binary"

// Info describes the fetched archive content
type Info struct {
	MIME      string
	IsZip     bool
	Entries   int
	Flashable bool
}

// Inspect detects the content type of data and, for zips, whether it is
// a recovery-flashable package
func Inspect(data []byte) (*Info, error) {
	mt := mimetype.Detect(data)
	info := &Info{MIME: mt.String()}

	// jar, apk and other zip based formats are detected as children of zip
	for p := mt; p != nil; p = p.Parent() {
		if p.Is("application/zip") {
			info.IsZip = true
			break
		}
	}

	if !info.IsZip {
		return info, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return info, fmt.Errorf("failed to open zip: %w", err)
	}

	info.Entries = len(zr.File)
	for _, f := range zr.File {
		if f.Name == UpdateBinary {
			info.Flashable = true
			break
		}
	}

	return info, nil
}

// Check returns an error describing why info is not a flashable zip, or nil
func (i *Info) Check() error {
	if !i.IsZip {
		return fmt.Errorf("content is %s, not a zip archive", i.MIME)
	}
	if !i.Flashable {
		return fmt.Errorf("zip does not contain %s", UpdateBinary)
	}
	return nil
}
