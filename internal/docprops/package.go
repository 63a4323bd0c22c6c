// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docprops

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/classmark/internal/util"
)

var (
	// ErrNotOOXML means the file is not an Office Open XML package.
	ErrNotOOXML = errors.New("not an Office Open XML package")

	// ErrPropertyMissing means the package has no such custom property.
	ErrPropertyMissing = errors.New("custom property not present")
)

// maxPartSize bounds the plumbing parts read into memory.
const maxPartSize = 8 << 20

var extensions = map[string]bool{
	".docx": true, ".docm": true, ".dotx": true, ".dotm": true,
	".xlsx": true, ".xlsm": true, ".xltx": true, ".xltm": true,
	".pptx": true, ".pptm": true, ".potx": true, ".potm": true,
	".ppsx": true, ".ppsm": true,
}

// Supports reports whether path has an Office Open XML extension.
func Supports(path string) bool {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Extensions lists the supported file extensions.
func Extensions() []string {
	out := make([]string, 0, len(extensions))
	for ext := range extensions {
		out = append(out, ext)
	}
	return out
}

// =============================================================================
// READ
// =============================================================================

// ReadProperty returns the text value of a custom property.
func ReadProperty(path, name string) (string, error) {
	props, err := readCustom(path)
	if err != nil {
		return "", err
	}
	v, ok := props.value(name)
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrPropertyMissing)
	}
	return v, nil
}

// Properties returns every custom property of the package as text.
func Properties(path string) (map[string]string, error) {
	props, err := readCustom(path)
	if err != nil {
		return nil, err
	}
	return props.all(), nil
}

func readCustom(path string) (*customProps, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotOOXML)
		}
		return nil, fmt.Errorf("open package: %w", err)
	}
	defer zr.Close()

	if findPart(&zr.Reader, contentTypesPart) == nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNotOOXML)
	}
	f := findPart(&zr.Reader, customPart)
	if f == nil {
		return newCustomProps(), nil
	}
	data, err := readPart(f)
	if err != nil {
		return nil, err
	}
	return parseCustomProps(data)
}

func findPart(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxPartSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if len(data) > maxPartSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", f.Name, maxPartSize)
	}
	return data, nil
}

// =============================================================================
// WRITE
// =============================================================================

// WriteProperty replaces the custom property name with a string value and
// rewrites the package in place. The original file is untouched on error.
func WriteProperty(path, name, value string) error {
	// Read fully so no handle stays open across the rename.
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read package: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			return fmt.Errorf("%s: %w", path, ErrNotOOXML)
		}
		return fmt.Errorf("open package: %w", err)
	}

	ctFile := findPart(zr, contentTypesPart)
	if ctFile == nil {
		return fmt.Errorf("%s: %w", path, ErrNotOOXML)
	}

	replaced := make(map[*zip.File][]byte)

	ct, err := readPart(ctFile)
	if err != nil {
		return err
	}
	if ct, err = ensureContentType(ct); err != nil {
		return err
	}
	replaced[ctFile] = ct

	var rels []byte
	relsFile := findPart(zr, relsPart)
	if relsFile != nil {
		if rels, err = readPart(relsFile); err != nil {
			return err
		}
		if rels, err = ensureRelationship(rels); err != nil {
			return err
		}
		replaced[relsFile] = rels
	}

	props := newCustomProps()
	customFile := findPart(zr, customPart)
	if customFile != nil {
		data, err := readPart(customFile)
		if err != nil {
			return err
		}
		if props, err = parseCustomProps(data); err != nil {
			return err
		}
	}
	props.set(name, value)

	var custom strings.Builder
	if err := props.encode(&custom); err != nil {
		return err
	}
	if customFile != nil {
		replaced[customFile] = []byte(custom.String())
	}

	perm := util.FileMode(path, 0644)
	return util.AtomicWrite(path, perm, 0755, func(w io.Writer) error {
		zw := zip.NewWriter(w)
		for _, f := range zr.File {
			data, ok := replaced[f]
			if !ok {
				if err := zw.Copy(f); err != nil {
					return fmt.Errorf("copy %s: %w", f.Name, err)
				}
				continue
			}
			if err := writePart(zw, f.Name, data, &f.FileHeader); err != nil {
				return err
			}
		}
		if customFile == nil {
			if err := writePart(zw, customPart, []byte(custom.String()), nil); err != nil {
				return err
			}
		}
		if relsFile == nil {
			rels := fmt.Sprintf(`%s<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rIdClassmark" Type="%s" Target="%s"/></Relationships>`,
				`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n", relCustom, customPart)
			if err := writePart(zw, relsPart, []byte(rels), nil); err != nil {
				return err
			}
		}
		return zw.Close()
	})
}

func writePart(zw *zip.Writer, name string, data []byte, like *zip.FileHeader) error {
	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate}
	if like != nil {
		hdr.Modified = like.Modified
		hdr.Comment = like.Comment
	}
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
