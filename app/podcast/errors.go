package podcast

import (
	"errors"
	"fmt"
)

var (
	ErrShowNotFound   = errors.New("show not found")
	ErrUnknownVariant = errors.New("unknown feed variant")
	ErrInvalidRecord  = errors.New("invalid catalog record")
)

// MissingAuthorError is returned by the mapper when a show has no resolved author.
type MissingAuthorError struct {
	Show string
}

func (e *MissingAuthorError) Error() string {
	return fmt.Sprintf("show %q has no author", e.Show)
}

// EnclosureCardinalityError aborts a render when an item carries more than one enclosure.
type EnclosureCardinalityError struct {
	GUID  string
	Count int
}

func (e *EnclosureCardinalityError) Error() string {
	return fmt.Sprintf("item %q has %d enclosures, at most one is allowed", e.GUID, e.Count)
}

// CDATAContentError is returned when text destined for a CDATA section cannot be
// inserted verbatim: it contains "]]>", is not valid UTF-8, or holds a character
// XML does not allow.
type CDATAContentError struct {
	Element string
	GUID    string // empty for channel elements
	Reason  string
}

func (e *CDATAContentError) Error() string {
	if e.GUID == "" {
		return fmt.Sprintf("channel %s %s", e.Element, e.Reason)
	}
	return fmt.Sprintf("item %q %s %s", e.GUID, e.Element, e.Reason)
}
