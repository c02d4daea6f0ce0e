package store

import (
	"errors"
	"net/url"
	"path/filepath"
)

// Namespace prefixes every page key so the store's rows are recognizable
// even when the database is shared or inspected by hand.
const Namespace = "quotemark"

// ErrInvalidPageURL is returned when a page URL cannot be parsed or has no
// host to derive an origin from.
var ErrInvalidPageURL = errors.New("invalid page URL")

// PageKey derives the storage key for a document URL. The key is the
// document's origin plus pathname; query strings and fragments are
// deliberately excluded so marks survive tracking-parameter churn.
func PageKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrInvalidPageURL
	}
	if u.Scheme == "" || u.Host == "" {
		return "", ErrInvalidPageURL
	}
	origin := u.Scheme + "://" + u.Host
	path := u.Path
	if path == "" {
		path = "/"
	}
	return Namespace + "::" + origin + "::" + path, nil
}

// FilePageKey derives the storage key for a local HTML file. Local files
// have no origin, so the file scheme stands in and the absolute path plays
// the pathname role.
func FilePageKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Namespace + "::file://::" + abs
}
