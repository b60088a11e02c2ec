// Package rewrite turns local artifact references in a rendered report into
// object store URLs, so the report can be published next to the artifacts.
package rewrite

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"
)

var referencePattern = regexp.MustCompile(`\b(href|src)="([^"]*)"`)

var baseSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"s3":    true,
	"gs":    true,
}

// S3BaseURL returns the virtual-hosted URL of an S3 bucket.
func S3BaseURL(bucket, region string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}

// Rewriter maps local file references to <BaseURL>/<run>/<folder>/<file>.
type Rewriter struct {
	BaseURL string
}

func New(baseURL string) (*Rewriter, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing object store URL: %w", err)
	}
	if !baseSchemes[strings.ToLower(u.Scheme)] || u.Host == "" {
		return nil, fmt.Errorf("object store URL %q must be an absolute remote URL", baseURL)
	}
	return &Rewriter{BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Rewrite returns doc with every local href/src value replaced by its object
// store URL, and the number of references rewritten. Values carrying a URL
// scheme other than file:, fragments, and paths without a parent directory
// are left as they are.
func (r *Rewriter) Rewrite(doc, runID string) (string, int) {
	n := 0
	out := referencePattern.ReplaceAllStringFunc(doc, func(m string) string {
		sub := referencePattern.FindStringSubmatch(m)
		attr, value := sub[1], sub[2]
		remote, ok := r.remoteURL(value, runID)
		if !ok {
			return m
		}
		n++
		return attr + `="` + remote + `"`
	})
	return out, n
}

func (r *Rewriter) remoteURL(value, runID string) (string, bool) {
	local, ok := localPath(value)
	if !ok {
		return "", false
	}
	dir, file := path.Split(local)
	folder := path.Base(dir)
	if file == "" || dir == "" || folder == "/" || folder == "." {
		return "", false
	}
	return r.BaseURL + "/" + url.PathEscape(runID) + "/" + url.PathEscape(folder) + "/" + url.PathEscape(file), true
}

// localPath strips a file: scheme and reports whether value refers to the
// local filesystem.
func localPath(value string) (string, bool) {
	if value == "" || strings.HasPrefix(value, "#") {
		return "", false
	}
	if rest, ok := cutPrefixFold(value, "file:"); ok {
		rest = strings.TrimPrefix(rest, "//")
		// file://host/path is not a local reference.
		if !strings.HasPrefix(rest, "/") {
			return "", false
		}
		return unescape(rest), true
	}
	if i := strings.IndexByte(value, ':'); i > 0 && isScheme(value[:i]) {
		return "", false
	}
	return unescape(value), true
}

// unescape undoes the percent-encoding a template engine applies to URL
// attributes.
func unescape(p string) string {
	if u, err := url.PathUnescape(p); err == nil {
		p = u
	}
	return path.Clean(p)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

func isScheme(s string) bool {
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// RewriteFile rewrites the document at src and writes it to dst, which may
// be the same path.
func (r *Rewriter) RewriteFile(src, dst, runID string, write func(path string, data []byte) error) (int, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", src, err)
	}
	out, n := r.Rewrite(string(data), runID)
	if err := write(dst, []byte(out)); err != nil {
		return 0, err
	}
	return n, nil
}
