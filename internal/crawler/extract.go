// Package crawler provides the page-fetching and structured-extraction
// machinery shared by the source adapters.
package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"gigradar/internal/models"
)

// FieldKind selects how a field's value is read from a matched element.
type FieldKind string

// Supported extraction kinds.
const (
	FieldText FieldKind = "text"
	FieldHTML FieldKind = "html"
	FieldAttr FieldKind = "attr"
)

// Field maps one selector to a named RawRecord field. An empty Selector
// reads from the repeated base element itself, which is how attribute-driven
// sources expose their data.
type Field struct {
	Name     string
	Selector string
	Kind     FieldKind
	Attr     string
}

// Schema is a source's fixed field-mapping contract: a repeated base
// selector plus the fields read from each match.
type Schema struct {
	BaseSelector string
	Fields       []Field
}

// Extract applies the schema to a document and returns one RawRecord per
// base-selector match, in document order.
func (s Schema) Extract(doc *goquery.Document) []models.RawRecord {
	var records []models.RawRecord

	doc.Find(s.BaseSelector).Each(func(_ int, el *goquery.Selection) {
		var rec models.RawRecord

		for _, f := range s.Fields {
			target := el
			if f.Selector != "" {
				target = el.Find(f.Selector).First()
			}

			var value string

			switch f.Kind {
			case FieldText:
				value = strings.TrimSpace(target.Text())
			case FieldHTML:
				value, _ = target.Html()
			case FieldAttr:
				value = target.AttrOr(f.Attr, "")
			}

			setRawField(&rec, f.Name, value)
		}

		records = append(records, rec)
	})

	return records
}

// Canonical RawRecord field names used in schemas.
const (
	FieldNameTitle      = "title"
	FieldNameDate       = "date"
	FieldNameTime       = "time"
	FieldNameLocation   = "location"
	FieldNameImageURL   = "imageUrl"
	FieldNameDetailsURL = "detailsUrl"
	FieldNameHTML       = "html"
)

func setRawField(rec *models.RawRecord, name, value string) {
	switch name {
	case FieldNameTitle:
		rec.Title = value
	case FieldNameDate:
		rec.Date = value
	case FieldNameTime:
		rec.Time = value
	case FieldNameLocation:
		rec.Location = value
	case FieldNameImageURL:
		rec.ImageURL = value
	case FieldNameDetailsURL:
		rec.DetailsURL = value
	case FieldNameHTML:
		rec.HTML = value
	}
}
