// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package docprops

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// =============================================================================
// PACKAGE CONSTANTS
// =============================================================================

const (
	customPart       = "docProps/custom.xml"
	contentTypesPart = "[Content_Types].xml"
	relsPart         = "_rels/.rels"

	nsCustom  = "http://schemas.openxmlformats.org/officeDocument/2006/custom-properties"
	nsVTypes  = "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"
	relCustom = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/custom-properties"
	ctCustom  = "application/vnd.openxmlformats-officedocument.custom-properties+xml"

	// fmtidUserDefined is the FMTID every user-defined property carries.
	fmtidUserDefined = "{D5CDD505-2E9C-101B-9397-08002B2CF9AE}"

	// Property ids 0 and 1 are reserved.
	firstPID = 2
)

// =============================================================================
// custom.xml MODEL
// =============================================================================

type customProps struct {
	XMLName xml.Name     `xml:"Properties"`
	Attrs   []xml.Attr   `xml:",any,attr"`
	Props   []customProp `xml:"property"`
}

type customProp struct {
	FmtID string `xml:"fmtid,attr"`
	PID   int    `xml:"pid,attr"`
	Name  string `xml:"name,attr"`
	// Inner is kept verbatim so properties we do not own survive a rewrite.
	Inner string `xml:",innerxml"`
}

func newCustomProps() *customProps {
	return &customProps{}
}

func parseCustomProps(data []byte) (*customProps, error) {
	var cp customProps
	if err := xml.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("parse %s: %w", customPart, err)
	}
	return &cp, nil
}

// value returns the text content of the named property.
func (c *customProps) value(name string) (string, bool) {
	for _, p := range c.Props {
		if p.Name == name {
			return innerText(p.Inner), true
		}
	}
	return "", false
}

// all returns every property as name -> text.
func (c *customProps) all() map[string]string {
	out := make(map[string]string, len(c.Props))
	for _, p := range c.Props {
		out[p.Name] = innerText(p.Inner)
	}
	return out
}

// set deletes any property called name and appends a string property.
func (c *customProps) set(name, value string) {
	kept := c.Props[:0]
	maxPID := firstPID - 1
	for _, p := range c.Props {
		if p.Name == name {
			continue
		}
		kept = append(kept, p)
		if p.PID > maxPID {
			maxPID = p.PID
		}
	}

	var b strings.Builder
	b.WriteString("<vt:lpwstr>")
	_ = xml.EscapeText(&b, []byte(value))
	b.WriteString("</vt:lpwstr>")

	c.Props = append(kept, customProp{
		FmtID: fmtidUserDefined,
		PID:   maxPID + 1,
		Name:  name,
		Inner: b.String(),
	})
}

// encode writes the part. Root namespace declarations of the original are
// carried over and the two required ones are always present.
func (c *customProps) encode(w io.Writer) error {
	var b bytes.Buffer
	b.WriteString(xml.Header[:len(xml.Header)-1])
	b.WriteString("\n<Properties")

	hasDefault, hasVT := false, false
	for _, a := range c.Attrs {
		switch {
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			hasDefault = true
			writeAttr(&b, "xmlns", nsCustom)
		case a.Name.Space == "xmlns":
			if a.Name.Local == "vt" {
				hasVT = true
			}
			writeAttr(&b, "xmlns:"+a.Name.Local, a.Value)
		case a.Name.Space == "":
			writeAttr(&b, a.Name.Local, a.Value)
		}
	}
	if !hasDefault {
		writeAttr(&b, "xmlns", nsCustom)
	}
	if !hasVT {
		writeAttr(&b, "xmlns:vt", nsVTypes)
	}
	b.WriteString(">")

	for _, p := range c.Props {
		b.WriteString("<property")
		writeAttr(&b, "fmtid", p.FmtID)
		writeAttr(&b, "pid", strconv.Itoa(p.PID))
		writeAttr(&b, "name", p.Name)
		b.WriteString(">")
		b.WriteString(p.Inner)
		b.WriteString("</property>")
	}
	b.WriteString("</Properties>")

	_, err := w.Write(b.Bytes())
	return err
}

func writeAttr(b *bytes.Buffer, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	_ = xml.EscapeText(b, []byte(value))
	b.WriteByte('"')
}

// innerText returns the text of the first child element of a property
// (the vt:* value). Indentation around that element is not part of the
// value. A fragment without child elements yields its trimmed text.
func innerText(fragment string) string {
	dec := xml.NewDecoder(strings.NewReader(fragment))
	dec.Strict = false
	var (
		b       strings.Builder
		loose   strings.Builder
		depth   int
		started bool
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 && started {
				return b.String()
			}
			started = true
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				return b.String()
			}
		case xml.CharData:
			if depth > 0 {
				b.Write(t)
			} else {
				loose.Write(t)
			}
		}
	}
	if started {
		return b.String()
	}
	return strings.TrimSpace(loose.String())
}

// =============================================================================
// PACKAGE PLUMBING PARTS
// =============================================================================

// ensureContentType adds the custom.xml override to [Content_Types].xml.
func ensureContentType(data []byte) ([]byte, error) {
	if bytes.Contains(data, []byte(`"/`+customPart+`"`)) {
		return data, nil
	}
	end := bytes.LastIndex(data, []byte("</Types>"))
	if end < 0 {
		return nil, fmt.Errorf("%s: missing </Types>", contentTypesPart)
	}
	override := fmt.Sprintf(`<Override PartName="/%s" ContentType="%s"/>`, customPart, ctCustom)
	return splice(data, end, override), nil
}

// ensureRelationship adds the package relationship to docProps/custom.xml.
func ensureRelationship(data []byte) ([]byte, error) {
	if bytes.Contains(data, []byte(relCustom)) {
		return data, nil
	}
	end := bytes.LastIndex(data, []byte("</Relationships>"))
	if end < 0 {
		return nil, fmt.Errorf("%s: missing </Relationships>", relsPart)
	}
	id := "rIdClassmark"
	for n := 1; bytes.Contains(data, []byte(`Id="`+id+`"`)); n++ {
		id = "rIdClassmark" + strconv.Itoa(n)
	}
	rel := fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, relCustom, customPart)
	return splice(data, end, rel), nil
}

func splice(data []byte, at int, insert string) []byte {
	out := make([]byte, 0, len(data)+len(insert))
	out = append(out, data[:at]...)
	out = append(out, insert...)
	return append(out, data[at:]...)
}
