// Package gallery picks landing-page images from the static asset directory.
package gallery

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/ingenieras/pkg/http/errors"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Gallery lists qualifying images in one directory.
type Gallery struct {
	dir    string
	prefix string
	intn   func(n int) int
	logger zerolog.Logger
}

// Options tunes randomness for tests.
type Options struct {
	Intn func(n int) int
}

// New creates a Gallery over dir. Only files whose names start with prefix qualify.
func New(dir, prefix string, logger zerolog.Logger, opts Options) *Gallery {
	if opts.Intn == nil {
		opts.Intn = rand.IntN
	}
	return &Gallery{
		dir:    dir,
		prefix: prefix,
		intn:   opts.Intn,
		logger: logger.With().Str("component", "gallery").Logger(),
	}
}

// Images returns the qualifying filenames in directory order.
func (g *Gallery) Images() ([]string, error) {
	entries, err := os.ReadDir(g.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read gallery dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, g.prefix) {
			continue
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Pick returns two distinct images, the only image twice, or nothing.
func (g *Gallery) Pick() ([]string, error) {
	names, err := g.Images()
	if err != nil {
		return nil, err
	}

	switch len(names) {
	case 0:
		return []string{}, nil
	case 1:
		return []string{names[0], names[0]}, nil
	}

	i := g.intn(len(names))
	j := g.intn(len(names) - 1)
	if j >= i {
		j++
	}
	return []string{names[i], names[j]}, nil
}

// ServeHTTP handles GET /api/random_images
func (g *Gallery) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	picked, err := g.Pick()
	if err != nil {
		g.logger.Error().Err(err).Msg("pick images failed")
		httperrors.RespondInternalError(w, "Could not list images")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, picked)
}
