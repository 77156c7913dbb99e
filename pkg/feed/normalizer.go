package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
	"golang.org/x/net/html/charset"

	"github.com/umputun/feedimport/pkg/domain"
)

const (
	defaultCompany  = "Unknown"
	defaultLocation = "Remote"
	unknownItemID   = "unknown"
)

// ParseError is returned when the document is not traversable XML
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse feed: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseResult holds items split by validation outcome
type ParseResult struct {
	Valid   []domain.JobRecord
	Invalid []domain.FailedItem
}

// Total returns number of items seen in the feed
func (r ParseResult) Total() int {
	return len(r.Valid) + len(r.Invalid)
}

// Normalizer turns raw feed documents into job records
type Normalizer struct {
	policy *bluemonday.Policy
	now    func() time.Time
}

// NewNormalizer makes a normalizer, descriptions are sanitized with the UGC policy
func NewNormalizer() *Normalizer {
	return &Normalizer{policy: bluemonday.UGCPolicy(), now: time.Now}
}

// Parse decodes data and splits its items into valid records and rejected ones.
// RSS is read generically, Atom and RDF go through gofeed, other roots have no items.
func (n *Normalizer) Parse(data []byte, defaultCategory, source string) (ParseResult, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity

	var root element
	if err := dec.Decode(&root); err != nil {
		return ParseResult{}, &ParseError{Err: err}
	}

	switch root.XMLName.Local {
	case "rss":
		return n.parseRSS(&root, defaultCategory, source), nil
	case "feed", "RDF":
		return n.parseUniversal(data, defaultCategory, source)
	default:
		lgr.Printf("[DEBUG] unsupported feed root %q, no items", root.XMLName.Local)
		return ParseResult{}, nil
	}
}

func (n *Normalizer) parseRSS(root *element, defaultCategory, source string) ParseResult {
	ns := newNamespaces()
	ns.collect(root)

	var items []element
	for _, ch := range root.children("channel") {
		ns.collect(&ch)
		items = append(items, ch.children("item")...)
	}

	res := ParseResult{}
	for i := range items {
		f := newItemFields(&items[i], ns)
		rec := domain.JobRecord{
			JobID:       f.first("guid", "id", "link"),
			Title:       f.first("title"),
			Company:     f.first("job_listing:company", "company"),
			Location:    f.first("job_listing:location", "location"),
			Description: f.first("description", "content:encoded"),
			JobType:     f.first("job_listing:job_type", "jobType", "job_type"),
			URL:         f.first("link"),
			Category:    f.first("category", "job_listing:category"),
			Salary:      f.first("job_listing:salary", "salary"),
			Published:   n.parseDate(f.first("pubDate", "dc:date", "published")),
		}
		n.add(&res, rec, defaultCategory, source)
	}
	return res
}

func (n *Normalizer) parseUniversal(data []byte, defaultCategory, source string) (ParseResult, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return ParseResult{}, &ParseError{Err: err}
	}

	res := ParseResult{}
	for _, item := range parsed.Items {
		rec := domain.JobRecord{
			JobID:       firstNonEmpty(item.GUID, item.Link),
			Title:       strings.TrimSpace(item.Title),
			Company:     extValue(item.Extensions, "job_listing", "company"),
			Location:    extValue(item.Extensions, "job_listing", "location"),
			Description: firstNonEmpty(item.Description, item.Content),
			JobType:     extValue(item.Extensions, "job_listing", "job_type"),
			URL:         strings.TrimSpace(item.Link),
			Salary:      extValue(item.Extensions, "job_listing", "salary"),
			Published:   n.now(),
		}
		if len(item.Categories) > 0 {
			rec.Category = strings.TrimSpace(item.Categories[0])
		}
		switch {
		case item.PublishedParsed != nil:
			rec.Published = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			rec.Published = *item.UpdatedParsed
		}
		n.add(&res, rec, defaultCategory, source)
	}
	return res, nil
}

// add validates the record, fills fallbacks and appends it to the matching list
func (n *Normalizer) add(res *ParseResult, rec domain.JobRecord, defaultCategory, source string) {
	if rec.JobID == "" || rec.Title == "" {
		itemID := rec.JobID
		if itemID == "" {
			itemID = unknownItemID
		}
		res.Invalid = append(res.Invalid, domain.FailedItem{ItemID: itemID, Reason: domain.ReasonMissingFields})
		return
	}

	if rec.Company == "" {
		rec.Company = defaultCompany
	}
	if rec.Location == "" {
		rec.Location = defaultLocation
	}
	if rec.Category == "" {
		rec.Category = defaultCategory
	}
	rec.Source = source
	rec.Description = n.policy.Sanitize(rec.Description)
	res.Valid = append(res.Valid, rec)
}

// parseDate parses publish date leniently, current time if missing or unparseable
func (n *Normalizer) parseDate(s string) time.Time {
	if s == "" {
		return n.now()
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		lgr.Printf("[DEBUG] can't parse date %q: %v", s, err)
		return n.now()
	}
	return t
}

// extValue returns first value of a namespaced extension element
func extValue(exts ext.Extensions, prefix, name string) string {
	if exts == nil {
		return ""
	}
	for _, e := range exts[prefix][name] {
		if v := strings.TrimSpace(e.Value); v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
