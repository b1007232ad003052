package pwt

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dailygraphs/dailygraphs/internal/panel"
)

// DefaultBaseURL hosts the historical PWT zip releases.
const DefaultBaseURL = "http://pwt.econ.upenn.edu/Downloads"

// Source locates a PWT release. A non-empty Path wins over downloading.
type Source struct {
	Path       string
	BaseURL    string
	Version    int    // e.g. 71
	Date       string // release date stamp in the archive name, e.g. "11302012"
	ExtractDir string // when set, the CSV member is also written here
}

// ArchiveURL returns the zip URL for the release.
func (s Source) ArchiveURL() string {
	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/pwt%d/pwt%d_%sversion.zip", base, s.Version, s.Version, s.Date)
}

// MemberName returns the name of the CSV inside the release archive.
func (s Source) MemberName() string {
	return fmt.Sprintf("pwt%d_wo_country_names_wo_g_vars.csv", s.Version)
}

// Loader reads PWT panels from disk or over HTTP.
type Loader struct {
	client *http.Client
	logger *zap.Logger
}

// NewLoader creates a Loader. A nil client uses http.DefaultClient.
func NewLoader(client *http.Client, logger *zap.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{client: client, logger: logger}
}

// Load returns the panel described by src.
func (l *Loader) Load(ctx context.Context, src Source) (*panel.Panel, error) {
	if src.Path != "" {
		l.logger.Info("reading PWT from file", zap.String("path", src.Path))
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, fmt.Errorf("opening PWT file: %w", err)
		}
		defer f.Close()
		return l.read(f)
	}

	url := src.ArchiveURL()
	l.logger.Info("downloading PWT", zap.String("url", url))
	archive, err := l.download(ctx, url)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("opening PWT archive: %w", err)
	}
	member, err := readMember(zr, src.MemberName())
	if err != nil {
		return nil, err
	}

	if src.ExtractDir != "" {
		if err := os.MkdirAll(src.ExtractDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating extract dir: %w", err)
		}
		path := filepath.Join(src.ExtractDir, src.MemberName())
		if err := os.WriteFile(path, member, 0o644); err != nil {
			return nil, fmt.Errorf("extracting %s: %w", src.MemberName(), err)
		}
		l.logger.Debug("extracted PWT member", zap.String("path", path))
	}

	return l.read(bytes.NewReader(member))
}

// read parses the CSV and reports text columns it dropped, since a stray
// text cell drops a whole numeric column.
func (l *Loader) read(r io.Reader) (*panel.Panel, error) {
	p, skipped, err := read(r)
	if err != nil {
		return nil, err
	}
	if len(skipped) > 0 {
		l.logger.Debug("skipped non-numeric PWT columns", zap.Strings("columns", skipped))
	}
	return p, nil
}

func (l *Loader) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return data, nil
}

func readMember(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("archive has no member %s", name)
}
