package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/vvka-141/taxlien/internal/checksum"
	"github.com/vvka-141/taxlien/pkg/taxlien"
)

// Fetcher scrapes the configured page and downloads the first spreadsheet it links.
type Fetcher struct {
	config *taxlien.FetchConfig
	client *resty.Client
	base   *url.URL
	logger taxlien.Logger
}

// New creates a Fetcher. The config is validated here so a bad URL fails
// before any request is made.
func New(config *taxlien.FetchConfig, logger taxlien.Logger) (*Fetcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	base, err := resolveBase(config)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetHeader("user-agent", config.UserAgent)
	client.SetTimeout(config.HTTPTimeout)

	return &Fetcher{
		config: config,
		client: client,
		base:   base,
		logger: logger,
	}, nil
}

// resolveBase returns BaseURL, or the scheme and host of PageURL when unset.
func resolveBase(config *taxlien.FetchConfig) (*url.URL, error) {
	raw := config.BaseURL
	if raw == "" {
		page, err := url.Parse(config.PageURL)
		if err != nil {
			return nil, fmt.Errorf("parse page url: %w", err)
		}
		return &url.URL{Scheme: page.Scheme, Host: page.Host, Path: "/"}, nil
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return base, nil
}

// Fetch finds the spreadsheet link and downloads it. When the page has no
// matching link the result has Found=false and no file is written.
func (f *Fetcher) Fetch(ctx context.Context) (taxlien.FetchResult, error) {
	link, found, err := f.FindSpreadsheetLink(ctx)
	if err != nil {
		return taxlien.FetchResult{}, err
	}
	if !found {
		return taxlien.FetchResult{}, nil
	}

	return f.Download(ctx, link)
}

// FindSpreadsheetLink returns the absolute URL of the first anchor, in document
// order, whose href ends in a spreadsheet extension.
func (f *Fetcher) FindSpreadsheetLink(ctx context.Context) (string, bool, error) {
	f.logger.Verbose("Fetching page %s", f.config.PageURL)

	res, err := f.client.R().SetContext(ctx).Get(f.config.PageURL)
	if err != nil {
		return "", false, fmt.Errorf("get page %s: %w: %w", f.config.PageURL, taxlien.ErrFetchFailed, err)
	}
	if res.IsError() {
		return "", false, fmt.Errorf("get page %s: unexpected status %s: %w", f.config.PageURL, res.Status(), taxlien.ErrFetchFailed)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return "", false, fmt.Errorf("parse page %s: %w: %w", f.config.PageURL, taxlien.ErrFetchFailed, err)
	}

	var href string
	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		candidate, _ := s.Attr("href")
		if isSpreadsheetHref(candidate) {
			href = candidate
			return false
		}
		return true
	})
	if href == "" {
		f.logger.Verbose("No spreadsheet link on %s", f.config.PageURL)
		return "", false, nil
	}

	link, err := f.absolute(href)
	if err != nil {
		return "", false, fmt.Errorf("resolve link %q: %w: %w", href, taxlien.ErrFetchFailed, err)
	}
	f.logger.Verbose("Found spreadsheet link %s", link)
	return link, true, nil
}

func isSpreadsheetHref(href string) bool {
	for _, ext := range taxlien.SpreadsheetExtensions {
		if strings.HasSuffix(href, ext) {
			return true
		}
	}
	return false
}

// absolute keeps hrefs starting with "http" and resolves the rest against the base URL.
func (f *Fetcher) absolute(href string) (string, error) {
	if strings.HasPrefix(href, "http") {
		return href, nil
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return f.base.ResolveReference(ref).String(), nil
}

// Download writes the document at link to the output directory, named after
// the last path segment of the URL. An existing file is replaced. The body is
// streamed to a temporary file first so a failed transfer leaves nothing behind.
func (f *Fetcher) Download(ctx context.Context, link string) (taxlien.FetchResult, error) {
	var result taxlien.FetchResult
	name, err := fileName(link)
	if err != nil {
		return result, err
	}

	if err := os.MkdirAll(f.config.OutputDir, 0o755); err != nil {
		return result, fmt.Errorf("create output dir %s: %w", f.config.OutputDir, err)
	}
	dest := filepath.Join(f.config.OutputDir, name)

	f.logger.Verbose("Downloading %s", link)
	res, err := f.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(link)
	if err != nil {
		return result, fmt.Errorf("download %s: %w: %w", link, taxlien.ErrFetchFailed, err)
	}
	body := res.RawBody()
	defer body.Close()

	if res.IsError() {
		return result, fmt.Errorf("download %s: unexpected status %s: %w", link, res.Status(), taxlien.ErrFetchFailed)
	}

	tmp, err := os.CreateTemp(f.config.OutputDir, "."+name+".*.part")
	if err != nil {
		return result, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	digest := checksum.NewDigest()
	n, copyErr := io.Copy(io.MultiWriter(tmp, digest), body)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		if copyErr != nil {
			return result, fmt.Errorf("download %s: %w: %w", link, taxlien.ErrFetchFailed, copyErr)
		}
		return result, fmt.Errorf("write %s: %w", tmpName, closeErr)
	}

	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return result, fmt.Errorf("move download into place: %w", err)
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		abs = dest
	}
	return taxlien.FetchResult{Found: true, URL: link, Path: abs, Bytes: n, SHA256: digest.Sum()}, nil
}

// fileName is the trailing path segment of link.
func fileName(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w: %w", link, taxlien.ErrFetchFailed, err)
	}
	// The segment stays percent-encoded, as it appears in the link.
	name := path.Base(u.EscapedPath())
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("link %q has no file name: %w", link, taxlien.ErrFetchFailed)
	}
	return name, nil
}
