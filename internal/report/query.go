package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ingenieras/internal/fsstore"
	"github.com/gokatarajesh/ingenieras/internal/metrics"
)

// Query answers read and delete requests by scanning the reports directory.
// Nothing is cached; every call reads the directory again.
type Query struct {
	dir     string
	metrics *metrics.Collector
	logger  zerolog.Logger
}

// NewQuery constructs a query layer over dir.
func NewQuery(dir string, m *metrics.Collector, logger zerolog.Logger) *Query {
	return &Query{
		dir:     dir,
		metrics: m,
		logger:  logger.With().Str("component", "report_query").Logger(),
	}
}

// ListAll returns every readable report, newest filename first.
func (q *Query) ListAll() ([]Report, error) {
	return q.scan(nil)
}

// FindByStudent returns reports whose student name contains name, ignoring case.
// A blank query matches nothing.
func (q *Query) FindByStudent(name string) ([]Report, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return []Report{}, nil
	}
	return q.scan(func(r Report) bool {
		return strings.Contains(strings.ToLower(r.StudentName), needle)
	})
}

// DeleteByFilename removes exactly one report file.
func (q *Query) DeleteByFilename(filename string) error {
	if err := fsstore.ValidateName(filename); err != nil {
		return err
	}
	if !strings.HasSuffix(filename, fileExt) {
		return ErrNotFound
	}
	if err := os.Remove(filepath.Join(q.dir, filename)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("remove report: %w", err)
	}
	return nil
}

func (q *Query) scan(keep func(Report) bool) ([]Report, error) {
	entries, err := os.ReadDir(q.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Report{}, nil
		}
		return nil, fmt.Errorf("read reports dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), fileExt) && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	reports := make([]Report, 0, len(names))
	for _, name := range names {
		rep, ok := q.read(name)
		if !ok {
			continue
		}
		if keep == nil || keep(rep) {
			reports = append(reports, rep)
		}
	}
	return reports, nil
}

func (q *Query) read(name string) (Report, bool) {
	data, err := os.ReadFile(filepath.Join(q.dir, name))
	if err != nil {
		// deleted between listing and reading
		if !errors.Is(err, fs.ErrNotExist) {
			q.logger.Warn().Err(err).Str("filename", name).Msg("report unreadable, skipping")
		}
		return Report{}, false
	}

	var sub Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		q.metrics.CorruptReportSkipped()
		q.logger.Warn().Err(err).Str("filename", name).Msg("corrupt report skipped")
		return Report{}, false
	}
	if sub.Steps == nil {
		sub.Steps = []Step{}
	}
	return Report{Submission: sub, Filename: name}, true
}
