// Package segment parses the embedded image markup carried inside archived
// message content. Messages are plain text interleaved with self-closing
// image tags of the form:
//
//	<img src="https://..." summary="[动画表情]" file="123.png" sub-type="1"/>
//
// The parser keeps the rest of the pipeline agnostic of the markup details:
// callers work with text and image segments, or with the (source, filename)
// pairs the image localizer needs.
package segment

import (
	"strings"
)

// Kind identifies the type of a content segment.
type Kind int

const (
	// KindText is a plain text segment.
	KindText Kind = iota
	// KindImage is an embedded image reference.
	KindImage
)

// Segment is one piece of parsed message content. Text is set for KindText;
// Src and File for KindImage.
type Segment struct {
	Kind Kind
	Text string
	Src  string
	File string
}

// ImageRef is one embedded image reference found in message content.
// Raw is the exact original markup, suitable for in-place replacement.
type ImageRef struct {
	Raw  string
	Src  string
	File string
}

// Parse splits message content into text and image segments. Malformed image
// tags (unterminated, or missing a src attribute) are kept as literal text.
func Parse(content string) []Segment {
	var segs []Segment
	rest := content

	for {
		idx := strings.Index(rest, "<img")
		if idx == -1 {
			break
		}

		end := strings.Index(rest[idx:], ">")
		if end == -1 {
			break
		}
		tag := rest[idx : idx+end+1]

		attrs := parseAttrs(tag)
		src, ok := attrs["src"]
		if !ok {
			// Not a well-formed image tag, keep scanning past it as text.
			if idx+end+1 >= len(rest) {
				break
			}
			head := rest[:idx+end+1]
			rest = rest[idx+end+1:]
			segs = appendText(segs, head)
			continue
		}

		if idx > 0 {
			segs = appendText(segs, rest[:idx])
		}
		segs = append(segs, Segment{Kind: KindImage, Src: src, File: attrs["file"]})
		rest = rest[idx+end+1:]
	}

	if rest != "" {
		segs = appendText(segs, rest)
	}
	return segs
}

// ParseImages returns every well-formed embedded image reference in content,
// in order of occurrence.
func ParseImages(content string) []ImageRef {
	var refs []ImageRef
	rest := content
	offset := 0

	for {
		idx := strings.Index(rest, "<img")
		if idx == -1 {
			break
		}
		end := strings.Index(rest[idx:], ">")
		if end == -1 {
			break
		}
		tag := rest[idx : idx+end+1]
		attrs := parseAttrs(tag)
		if src, ok := attrs["src"]; ok {
			refs = append(refs, ImageRef{
				Raw:  content[offset+idx : offset+idx+end+1],
				Src:  src,
				File: attrs["file"],
			})
		}
		rest = rest[idx+end+1:]
		offset += idx + end + 1
	}
	return refs
}

// Image renders an image reference back into its markup form.
func Image(src, file string) string {
	var b strings.Builder
	b.WriteString(`<img src="`)
	b.WriteString(src)
	b.WriteString(`"`)
	if file != "" {
		b.WriteString(` file="`)
		b.WriteString(file)
		b.WriteString(`"`)
	}
	b.WriteString(`/>`)
	return b.String()
}

func appendText(segs []Segment, text string) []Segment {
	if text == "" {
		return segs
	}
	if n := len(segs); n > 0 && segs[n-1].Kind == KindText {
		segs[n-1].Text += text
		return segs
	}
	return append(segs, Segment{Kind: KindText, Text: text})
}

// parseAttrs extracts key="value" attribute pairs from a single tag.
// Attribute values must be double-quoted, matching the markup the host
// platform emits; unquoted or single-quoted attributes are ignored.
func parseAttrs(tag string) map[string]string {
	attrs := make(map[string]string)

	// Skip the tag name.
	i := strings.IndexAny(tag, " \t\r\n")
	if i == -1 {
		return attrs
	}

	for i < len(tag) {
		// Skip whitespace.
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] == '>' || tag[i] == '/' {
			break
		}

		// Attribute name runs until '='.
		start := i
		for i < len(tag) && tag[i] != '=' && !isSpace(tag[i]) && tag[i] != '>' {
			i++
		}
		name := tag[start:i]
		if i >= len(tag) || tag[i] != '=' {
			continue
		}
		i++ // consume '='

		if i >= len(tag) || tag[i] != '"' {
			// Unquoted value, skip to next whitespace.
			for i < len(tag) && !isSpace(tag[i]) && tag[i] != '>' {
				i++
			}
			continue
		}
		i++ // consume opening quote

		valStart := i
		for i < len(tag) && tag[i] != '"' {
			i++
		}
		if i >= len(tag) {
			break
		}
		attrs[name] = tag[valStart:i]
		i++ // consume closing quote
	}

	return attrs
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
