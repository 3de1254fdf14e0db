package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/juju/loggo"
)

var taxLogger = loggo.GetLogger("taxonomy")

// The defect classification tree: Section and Type are picked
// independently, Subtype within the chosen Type. Codes are what goes on
// the wire; names are for the operator display.

type defectSubtype struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

type defectType struct {
	Code     int             `json:"code"`
	Name     string          `json:"name"`
	Subtypes []defectSubtype `json:"subtypes"`
}

type defectSection struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

type taxonomy struct {
	Version  string          `json:"version"`
	Sections []defectSection `json:"sections"`
	Types    []defectType    `json:"types"`
}

var errBadTaxonomy = errors.New("taxonomy: missing sections, types or subtypes")

// validate rejects trees the selection walk could not navigate. A tree
// that fails here is discarded whole; the previous one stays installed.
func (t *taxonomy) validate() error {
	if t == nil || len(t.Sections) == 0 || len(t.Types) == 0 {
		return errBadTaxonomy
	}
	for _, dt := range t.Types {
		if len(dt.Subtypes) == 0 {
			return errBadTaxonomy
		}
	}
	return nil
}

// fallbackTaxonomy is the compiled-in tree used until (and unless) a
// remote fetch succeeds.
func fallbackTaxonomy() *taxonomy {
	return &taxonomy{
		Version: "builtin",
		Sections: []defectSection{
			{0, "Front"},
			{1, "Back"},
			{2, "Sleeve"},
			{3, "Collar"},
		},
		Types: []defectType{
			{0, "Stitching", []defectSubtype{
				{0, "Skipped stitch"},
				{1, "Broken stitch"},
				{2, "Open seam"},
			}},
			{1, "Fabric", []defectSubtype{
				{3, "Hole"},
				{4, "Stain"},
				{5, "Shade variation"},
			}},
			{2, "Measurement", []defectSubtype{
				{6, "Out of tolerance"},
				{7, "Asymmetry"},
			}},
			{3, "Trim", []defectSubtype{
				{8, "Missing button"},
				{9, "Damaged zipper"},
			}},
		},
	}
}

// taxonomyStore holds the currently installed tree. Reload replaces the
// whole tree under the lock; readers never observe a half-built one.
type taxonomyStore struct {
	mu  sync.RWMutex
	cur *taxonomy
}

func newTaxonomyStore() *taxonomyStore {
	return &taxonomyStore{cur: fallbackTaxonomy()}
}

func (s *taxonomyStore) Current() *taxonomy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (s *taxonomyStore) Install(t *taxonomy) error {
	if err := t.validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cur = t
	s.mu.Unlock()
	return nil
}

// taxonomyFetcher fetches the tree from the remote source. It may fail
// forever; the terminal then runs on the fallback.
type taxonomyFetcher interface {
	Fetch() (*taxonomy, error)
}

// refresh retries the fetch until the first success, installs the
// result and stops. One successful overwrite is all the collector
// offers; there is no ongoing sync. Meant to be run in its own
// goroutine.
func (s *taxonomyStore) refresh(f taxonomyFetcher, interval time.Duration, quit <-chan struct{}) {
	for {
		t, err := f.Fetch()
		if err == nil {
			if err = s.Install(t); err == nil {
				taxLogger.Infof("remote taxonomy installed (version %s)", t.Version)
				return
			}
		}
		taxLogger.Warningf("taxonomy fetch failed, keeping current tree: %v", err)
		select {
		case <-quit:
			return
		case <-time.After(interval):
		}
	}
}

// httpTaxonomyFetcher pulls the defect definitions document from the
// collector's HTTP API.
type httpTaxonomyFetcher struct {
	url    string
	client *http.Client
}

func newHTTPTaxonomyFetcher(url string) *httpTaxonomyFetcher {
	return &httpTaxonomyFetcher{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *httpTaxonomyFetcher) Fetch() (*taxonomy, error) {
	resp, err := f.client.Get(f.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("taxonomy: unexpected status " + resp.Status)
	}
	var t taxonomy
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}
