package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"

	"golang.org/x/net/publicsuffix"
)

// storedCookie is the on-disk form of a session cookie.
type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// sessionJar is a cookie jar whose cookies for the server URL survive
// between processes. An empty path disables persistence.
type sessionJar struct {
	*cookiejar.Jar
	path   string
	server *url.URL
}

func newSessionJar(server *url.URL, path string) (*sessionJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	j := &sessionJar{Jar: jar, path: path, server: server}
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *sessionJar) load() error {
	if j.path == "" {
		return nil
	}
	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("invalid session file %s: %w", j.path, err)
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	j.SetCookies(j.server, cookies)
	return nil
}

// save writes the cookies the jar would send to the server.
// Mode 0600; an empty jar removes the file.
func (j *sessionJar) save() error {
	if j.path == "" {
		return nil
	}
	cookies := j.Cookies(j.server)
	if len(cookies) == 0 {
		return j.clear()
	}

	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(j.path, data, 0600)
}

// clear forgets every session cookie, in memory and on disk.
func (j *sessionJar) clear() error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return err
	}
	j.Jar = jar
	if j.path == "" {
		return nil
	}
	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
