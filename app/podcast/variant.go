package podcast

import (
	"fmt"
)

const (
	ITunesNamespace = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	ContentType     = "application/rss+xml; charset=utf-8"
)

type Namespace struct {
	Prefix string
	URI    string
}

// Variant describes the feed shape expected by one podcast directory.
type Variant struct {
	Name        string
	Namespaces  []Namespace
	ContentType string
}

var itunesNamespaces = []Namespace{
	{Prefix: "itunes", URI: ITunesNamespace},
}

// Apple and Spotify currently accept the same document.
var (
	Apple = Variant{
		Name:        "apple",
		Namespaces:  itunesNamespaces,
		ContentType: ContentType,
	}
	Spotify = Variant{
		Name:        "spotify",
		Namespaces:  itunesNamespaces,
		ContentType: ContentType,
	}
)

var variants = []Variant{Apple, Spotify}

func Variants() []Variant {
	out := make([]Variant, len(variants))
	copy(out, variants)
	return out
}

func LookupVariant(name string) (Variant, error) {
	for _, v := range variants {
		if v.Name == name {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
}
