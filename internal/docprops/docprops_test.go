// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docprops

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/classmark/internal/classification"
)

const (
	testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="xml" ContentType="application/xml"/><Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/></Types>`
	testRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/></Relationships>`
	testWorkbook = `<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheets/></workbook>`
	testCustom   = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/custom-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"><property fmtid="{D5CDD505-2E9C-101B-9397-08002B2CF9AE}" pid="2" name="Owner"><vt:lpwstr>Finance &amp; Ops</vt:lpwstr></property><property fmtid="{D5CDD505-2E9C-101B-9397-08002B2CF9AE}" pid="3" name="DocumentClassification"><vt:lpwstr>BOGUS</vt:lpwstr></property></Properties>`
)

type pathDoc string

func (d pathDoc) Path() string                     { return string(d) }
func (d pathDoc) InstanceID() string               { return "id-" + string(d) }
func (d pathDoc) HasUnsavedChanges() (bool, error) { return false, nil }

func writePackage(t *testing.T, name string, parts map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	// deterministic order: content types first, like Office does
	order := []string{contentTypesPart, relsPart, "xl/workbook.xml", customPart}
	for _, n := range order {
		body, ok := parts[n]
		if !ok {
			continue
		}
		w, err := zw.Create(n)
		require.NoError(t, err)
		_, err = io.WriteString(w, body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func readParts(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = string(data)
	}
	return out
}

func basicParts() map[string]string {
	return map[string]string{
		contentTypesPart:  testContentTypes,
		relsPart:          testRels,
		"xl/workbook.xml": testWorkbook,
	}
}

func TestSupports(t *testing.T) {
	tests := map[string]bool{
		"report.xlsx":      true,
		"REPORT.DOCX":      true,
		"deck.pptm":        true,
		"/a/b/macro.xlsm":  true,
		"notes.txt":        false,
		"legacy.xls":       false,
		"archive.zip":      false,
		"no-extension":     false,
		"dir.xlsx/file.md": false,
	}
	for path, want := range tests {
		assert.Equal(t, want, Supports(path), path)
	}
	assert.Contains(t, Extensions(), ".docx")
}

func TestWriteCreatesCustomPart(t *testing.T) {
	path := writePackage(t, "book.xlsx", basicParts())

	_, err := ReadProperty(path, DefaultProperty)
	require.ErrorIs(t, err, ErrPropertyMissing)

	require.NoError(t, WriteProperty(path, DefaultProperty, "Secret"))

	v, err := ReadProperty(path, DefaultProperty)
	require.NoError(t, err)
	assert.Equal(t, "Secret", v)

	parts := readParts(t, path)
	assert.Equal(t, testWorkbook, parts["xl/workbook.xml"], "untouched parts are copied through")
	assert.Contains(t, parts[contentTypesPart], `PartName="/docProps/custom.xml"`)
	assert.Contains(t, parts[contentTypesPart], ctCustom)
	assert.Contains(t, parts[relsPart], relCustom)
	assert.Contains(t, parts[relsPart], `Id="rId1"`)
	assert.Contains(t, parts[customPart], `xmlns:vt="`+nsVTypes+`"`)
	assert.Contains(t, parts[customPart], `pid="2"`)
}

func TestWriteOverwritesAndPreservesOthers(t *testing.T) {
	parts := basicParts()
	parts[customPart] = testCustom
	path := writePackage(t, "book.xlsx", parts)

	v, err := ReadProperty(path, DefaultProperty)
	require.NoError(t, err)
	assert.Equal(t, "BOGUS", v)

	require.NoError(t, WriteProperty(path, DefaultProperty, "Restricted"))
	require.NoError(t, WriteProperty(path, DefaultProperty, "Public"))

	props, err := Properties(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Owner":         "Finance & Ops",
		DefaultProperty: "Public",
	}, props)

	custom := readParts(t, path)[customPart]
	assert.Equal(t, 1, strings.Count(custom, `name="DocumentClassification"`))
	assert.Contains(t, custom, `pid="3"`)

	// plumbing parts are only amended once
	ct := readParts(t, path)[contentTypesPart]
	assert.Equal(t, 1, strings.Count(ct, "/docProps/custom.xml"))
}

func TestWriteWithoutRels(t *testing.T) {
	parts := basicParts()
	delete(parts, relsPart)
	path := writePackage(t, "deck.pptx", parts)

	require.NoError(t, WriteProperty(path, "Label", "x<y"))
	v, err := ReadProperty(path, "Label")
	require.NoError(t, err)
	assert.Equal(t, "x<y", v)
	assert.Contains(t, readParts(t, path)[relsPart], relCustom)
}

func TestRelationshipIDCollision(t *testing.T) {
	rels := strings.Replace(testRels, `Id="rId1"`, `Id="rIdClassmark"`, 1)
	out, err := ensureRelationship([]byte(rels))
	require.NoError(t, err)
	assert.Contains(t, string(out), `Id="rIdClassmark1"`)
}

func TestNotOOXML(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "fake.docx")
	require.NoError(t, os.WriteFile(plain, []byte("not a zip"), 0644))

	_, err := ReadProperty(plain, DefaultProperty)
	assert.ErrorIs(t, err, ErrNotOOXML)
	assert.ErrorIs(t, WriteProperty(plain, DefaultProperty, "Secret"), ErrNotOOXML)

	data, err := os.ReadFile(plain)
	require.NoError(t, err)
	assert.Equal(t, "not a zip", string(data), "failed writes leave the file alone")

	bare := writePackage(t, "bare.docx", map[string]string{"xl/workbook.xml": testWorkbook})
	_, err = ReadProperty(bare, DefaultProperty)
	assert.ErrorIs(t, err, ErrNotOOXML)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	parts := basicParts()
	parts[customPart] = testCustom
	doc := pathDoc(writePackage(t, "book.xlsx", parts))
	s := NewStore("", nil)
	assert.Equal(t, DefaultProperty, s.Property())

	_, ok := s.Read(ctx, doc)
	assert.False(t, ok, "unparseable value reads as absent")

	require.NoError(t, s.Write(ctx, doc, classification.TopSecret))
	level, ok := s.Read(ctx, doc)
	require.True(t, ok)
	assert.Equal(t, classification.TopSecret, level)

	_, ok = s.Read(ctx, pathDoc(filepath.Join(t.TempDir(), "missing.xlsx")))
	assert.False(t, ok)

	assert.ErrorIs(t, s.Write(ctx, pathDoc(""), classification.Public), ErrUnsaved)
	assert.Error(t, s.Write(ctx, pathDoc(filepath.Join(t.TempDir(), "missing.xlsx")), classification.Public))
}

func TestStoreCustomPropertyName(t *testing.T) {
	ctx := context.Background()
	doc := pathDoc(writePackage(t, "book.xlsx", basicParts()))
	s := NewStore("Sensitivity", nil)

	require.NoError(t, s.Write(ctx, doc, classification.Secret))
	v, err := ReadProperty(doc.Path(), "Sensitivity")
	require.NoError(t, err)
	assert.Equal(t, "Secret", v)
	_, err = ReadProperty(doc.Path(), DefaultProperty)
	assert.ErrorIs(t, err, ErrPropertyMissing)
}

func TestReadIndentedCustomPart(t *testing.T) {
	ctx := context.Background()
	parts := basicParts()
	parts[customPart] = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/custom-properties"
    xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">
  <property fmtid="{D5CDD505-2E9C-101B-9397-08002B2CF9AE}" pid="2" name="DocumentClassification">
    <vt:lpwstr>Public</vt:lpwstr>
  </property>
  <property fmtid="{D5CDD505-2E9C-101B-9397-08002B2CF9AE}" pid="3" name="Owner">
    <vt:lpwstr>Finance &amp; Ops</vt:lpwstr>
  </property>
</Properties>`
	doc := pathDoc(writePackage(t, "book.xlsx", parts))

	v, err := ReadProperty(doc.Path(), DefaultProperty)
	require.NoError(t, err)
	assert.Equal(t, "Public", v)

	level, ok := NewStore("", nil).Read(ctx, doc)
	require.True(t, ok)
	assert.Equal(t, classification.Public, level)

	v, err = ReadProperty(doc.Path(), "Owner")
	require.NoError(t, err)
	assert.Equal(t, "Finance & Ops", v)
}

func TestInnerText(t *testing.T) {
	tests := []struct {
		fragment string
		want     string
	}{
		{"<vt:lpwstr>Secret</vt:lpwstr>", "Secret"},
		{"\n    <vt:lpwstr>Secret</vt:lpwstr>\n  ", "Secret"},
		{"<vt:lpwstr> padded </vt:lpwstr>", " padded "},
		{"<vt:lpwstr>a</vt:lpwstr><vt:lpwstr>b</vt:lpwstr>", "a"},
		{"  loose text  ", "loose text"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, innerText(tt.fragment), "%q", tt.fragment)
	}
}
