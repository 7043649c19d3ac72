package loader

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoMatch is returned by ResolvePath when a glob matches no file.
var ErrNoMatch = errors.New("no file matches log path")

// ResolvePath turns the configured log path into one file. A literal path is
// returned unchanged, even if it does not exist yet. A glob such as
// /var/log/nginx/**/access.log resolves to its most recently modified match.
func ResolvePath(pattern string) (string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return pattern, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", pattern, err)
	}

	var (
		newest  string
		newestT int64
	)
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if t := info.ModTime().UnixNano(); newest == "" || t > newestT {
			newest, newestT = m, t
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w: %s", ErrNoMatch, pattern)
	}
	return newest, nil
}
