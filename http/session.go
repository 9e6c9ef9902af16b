package http

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/fwojciec/forumcrawl"
	"golang.org/x/net/publicsuffix"
)

// Cookies maps cookie names to values.
type Cookies map[string]string

// LoadCookies reads session cookies from jsonPath, a JSON object of
// name to value. When jsonPath does not exist the cookies are read from
// csvPath, one name,value row each, and written to jsonPath for next time.
// Returns ENOTFOUND when neither file exists.
func LoadCookies(jsonPath, csvPath string) (Cookies, error) {
	data, err := os.ReadFile(jsonPath)
	if err == nil {
		var cookies Cookies
		if err := json.Unmarshal(data, &cookies); err != nil {
			return nil, forumcrawl.Errorf(forumcrawl.EINVALID, "parse %s: %v", jsonPath, err)
		}
		return cookies, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, forumcrawl.Errorf(forumcrawl.EINTERNAL, "read %s: %v", jsonPath, err)
	}

	if csvPath == "" {
		return nil, forumcrawl.Errorf(forumcrawl.ENOTFOUND, "cookie file %s not found", jsonPath)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, forumcrawl.Errorf(forumcrawl.ENOTFOUND, "neither %s nor %s found", jsonPath, csvPath)
		}
		return nil, forumcrawl.Errorf(forumcrawl.EINTERNAL, "open %s: %v", csvPath, err)
	}
	defer f.Close()

	cookies, err := ReadCookiesCSV(f)
	if err != nil {
		return nil, err
	}
	if err := WriteCookiesJSON(jsonPath, cookies); err != nil {
		return nil, err
	}
	return cookies, nil
}

// ReadCookiesCSV parses name,value rows. Extra columns are ignored.
func ReadCookiesCSV(r io.Reader) (Cookies, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, forumcrawl.Errorf(forumcrawl.EINVALID, "parse cookies CSV: %v", err)
	}

	cookies := make(Cookies, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, forumcrawl.Errorf(forumcrawl.EINVALID, "cookies CSV row %d: want name,value", i+1)
		}
		cookies[strings.TrimSpace(rec[0])] = rec[1]
	}
	return cookies, nil
}

// WriteCookiesJSON saves cookies as a JSON object.
func WriteCookiesJSON(path string, cookies Cookies) error {
	data, err := json.Marshal(cookies)
	if err != nil {
		return forumcrawl.Errorf(forumcrawl.EINTERNAL, "encode cookies: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return forumcrawl.Errorf(forumcrawl.EINTERNAL, "write %s: %v", path, err)
	}
	return nil
}

// NewSessionJar returns a cookie jar holding cookies for the host of
// siteURL and its subdomains.
func NewSessionJar(siteURL string, cookies Cookies) (http.CookieJar, error) {
	u, err := url.Parse(siteURL)
	if err != nil || u.Host == "" {
		return nil, forumcrawl.Errorf(forumcrawl.EINVALID, "invalid site URL %q", siteURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, forumcrawl.Errorf(forumcrawl.EINTERNAL, "create cookie jar: %v", err)
	}

	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]*http.Cookie, 0, len(names))
	for _, name := range names {
		list = append(list, &http.Cookie{
			Name:   name,
			Value:  cookies[name],
			Path:   "/",
			Domain: u.Hostname(),
		})
	}
	jar.SetCookies(u, list)
	return jar, nil
}
