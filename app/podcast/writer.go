package podcast

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const cdataTerminator = "]]>"

type attr struct {
	name  string
	value string
}

// Writer renders RSS 2.0 documents with iTunes extensions. Element order is fixed
// because directories validate it.
type Writer struct {
	variant Variant
}

func NewWriter(variant Variant) *Writer {
	return &Writer{variant: variant}
}

func (w *Writer) Variant() Variant {
	return w.variant
}

// Run renders the whole document in memory and returns nil on any error.
func (w *Writer) Run(meta FeedMetadata, items []FeedItem) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.render(&buf, meta, items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render writes the document to dst. Nothing is written when rendering fails.
func (w *Writer) Render(dst io.Writer, meta FeedMetadata, items []FeedItem) error {
	data, err := w.Run(meta, items)
	if err != nil {
		return err
	}
	if _, err := dst.Write(data); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}
	return nil
}

func (w *Writer) render(buf *bytes.Buffer, meta FeedMetadata, items []FeedItem) error {
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	buf.WriteString("\n")

	rssAttrs := []attr{{"version", "2.0"}}
	for _, ns := range w.variant.Namespaces {
		rssAttrs = append(rssAttrs, attr{"xmlns:" + ns.Prefix, ns.URI})
	}
	w.startElement(buf, "rss", rssAttrs...)
	w.startElement(buf, "channel")

	if err := w.writeChannel(buf, meta); err != nil {
		return err
	}

	for _, item := range items {
		if err := w.writeItem(buf, item); err != nil {
			return err
		}
	}

	w.endElement(buf, "channel")
	w.endElement(buf, "rss")

	return nil
}

func (w *Writer) writeChannel(buf *bytes.Buffer, meta FeedMetadata) error {
	w.writeElement(buf, "title", meta.Title)
	if err := w.writeCDATA(buf, "description", meta.Description, ""); err != nil {
		return err
	}
	if meta.Language != "" {
		w.writeElement(buf, "language", meta.Language)
	}

	w.writeElement(buf, "itunes:explicit", strconv.FormatBool(meta.Explicit))
	w.writeEmptyElement(buf, "itunes:image", attr{"href", meta.Image})

	if meta.Subcategory != "" {
		w.startElement(buf, "itunes:category", attr{"text", meta.Category})
		w.writeEmptyElement(buf, "itunes:category", attr{"text", meta.Subcategory})
		w.endElement(buf, "itunes:category")
	} else {
		w.writeEmptyElement(buf, "itunes:category", attr{"text", meta.Category})
	}

	w.writeElement(buf, "itunes:author", meta.Author.Name)
	w.writeElement(buf, "link", meta.Link)

	w.startElement(buf, "itunes:owner")
	w.writeElement(buf, "itunes:name", meta.Author.Name)
	w.writeElement(buf, "itunes:email", meta.Author.Email)
	w.endElement(buf, "itunes:owner")

	w.writeElement(buf, "itunes:title", meta.Title)
	w.writeElement(buf, "itunes:type", meta.Type)
	if meta.Copyright != nil {
		w.writeElement(buf, "copyright", *meta.Copyright)
	}
	if meta.Block {
		w.writeElement(buf, "itunes:block", "Yes")
	}
	if meta.Complete {
		w.writeElement(buf, "itunes:complete", "Yes")
	}

	return nil
}

func (w *Writer) writeItem(buf *bytes.Buffer, item FeedItem) error {
	if len(item.Enclosures) > 1 {
		return &EnclosureCardinalityError{GUID: item.GUID, Count: len(item.Enclosures)}
	}

	w.startElement(buf, "item")
	w.writeElement(buf, "title", item.Title)

	if len(item.Enclosures) == 1 {
		enclosure := item.Enclosures[0]
		w.writeEmptyElement(buf, "enclosure",
			attr{"url", enclosure.URL},
			attr{"length", strconv.FormatInt(enclosure.Length, 10)},
			attr{"type", enclosure.Type})
	}

	w.writeElement(buf, "guid", item.GUID)
	w.writeElement(buf, "pubDate", item.PubDate.Format(time.RFC1123Z))
	if err := w.writeCDATA(buf, "description", item.Description, item.GUID); err != nil {
		return err
	}
	if item.Duration != nil {
		w.writeElement(buf, "itunes:duration", strconv.Itoa(*item.Duration))
	}
	if item.Link != "" {
		w.writeElement(buf, "link", item.Link)
	}
	if item.Image != "" {
		w.writeEmptyElement(buf, "itunes:image", attr{"href", item.Image})
	}
	w.writeElement(buf, "itunes:explicit", strconv.FormatBool(item.Explicit))

	w.writeElement(buf, "itunes:title", item.Title)
	if item.Episode != nil {
		w.writeElement(buf, "itunes:episode", strconv.Itoa(*item.Episode))
	}
	if item.Season != nil {
		w.writeElement(buf, "itunes:season", strconv.Itoa(*item.Season))
	}
	w.writeElement(buf, "itunes:episodeType", item.EpisodeType)
	if item.Block {
		w.writeElement(buf, "itunes:block", "Yes")
	}

	w.endElement(buf, "item")
	return nil
}

func (w *Writer) startElement(buf *bytes.Buffer, tag string, attrs ...attr) {
	buf.WriteString("<")
	buf.WriteString(tag)
	w.writeAttrs(buf, attrs)
	buf.WriteString(">")
}

func (w *Writer) endElement(buf *bytes.Buffer, tag string) {
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">")
}

func (w *Writer) writeEmptyElement(buf *bytes.Buffer, tag string, attrs ...attr) {
	buf.WriteString("<")
	buf.WriteString(tag)
	w.writeAttrs(buf, attrs)
	buf.WriteString("/>")
}

func (w *Writer) writeElement(buf *bytes.Buffer, tag, content string) {
	w.startElement(buf, tag)
	xml.EscapeText(buf, []byte(content))
	w.endElement(buf, tag)
}

// writeCDATA inserts content verbatim, so anything XML cannot carry raw is rejected.
func (w *Writer) writeCDATA(buf *bytes.Buffer, tag, content, guid string) error {
	if reason := cdataProblem(content); reason != "" {
		return &CDATAContentError{Element: tag, GUID: guid, Reason: reason}
	}

	w.startElement(buf, tag)
	buf.WriteString("<![CDATA[")
	buf.WriteString(content)
	buf.WriteString("]]>")
	w.endElement(buf, tag)
	return nil
}

func cdataProblem(content string) string {
	if strings.Contains(content, cdataTerminator) {
		return "contains CDATA terminator"
	}
	if !utf8.ValidString(content) {
		return "is not valid UTF-8"
	}
	for _, r := range content {
		if !isXMLChar(r) {
			return fmt.Sprintf("contains character %U not allowed in XML", r)
		}
	}
	return ""
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}

func (w *Writer) writeAttrs(buf *bytes.Buffer, attrs []attr) {
	for _, a := range attrs {
		buf.WriteString(" ")
		buf.WriteString(a.name)
		buf.WriteString(`="`)
		xml.EscapeText(buf, []byte(a.value))
		buf.WriteString(`"`)
	}
}
