// Package dataset loads the reference contract CSV and seeds the vector collection from it.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"complianceapi/internal/model"
)

// Column headers of the reference dataset.
const (
	ColDocumentName   = "Document Name"
	ColEffectiveDate  = "Effective Date"
	ColCategory       = "Category"
	ColParties        = "Parties"
	ColAgreementDate  = "Agreement Date"
	ColExpirationDate = "Expiration Date"
	ColRenewalTerm    = "Renewal Term"
	ColGoverningLaw   = "Governing Law"
	ColExclusivity    = "Exclusivity"
	ColContract       = "contract"
)

var knownColumns = []string{
	ColDocumentName, ColEffectiveDate, ColCategory, ColParties, ColAgreementDate,
	ColExpirationDate, ColRenewalTerm, ColGoverningLaw, ColExclusivity, ColContract,
}

// ErrNoKnownColumns is returned when the header has none of the dataset columns.
var ErrNoKnownColumns = errors.New("csv header has no known dataset columns")

// LoadCSV parses the dataset. Columns are matched by header name and a missing
// column leaves the field empty. Rows get IDs doc_0, doc_1, ... in file order.
func LoadCSV(r io.Reader) ([]model.ReferenceContract, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("csv is empty")
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	found := false
	for _, c := range knownColumns {
		if _, ok := index[c]; ok {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNoKnownColumns
	}

	var out []model.ReferenceContract
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row+1, err)
		}
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		out = append(out, model.ReferenceContract{
			ID:             fmt.Sprintf("doc_%d", row),
			DocumentName:   get(ColDocumentName),
			EffectiveDate:  get(ColEffectiveDate),
			Category:       get(ColCategory),
			Parties:        get(ColParties),
			AgreementDate:  get(ColAgreementDate),
			ExpirationDate: get(ColExpirationDate),
			RenewalTerm:    get(ColRenewalTerm),
			GoverningLaw:   get(ColGoverningLaw),
			Exclusivity:    get(ColExclusivity),
			Contract:       get(ColContract),
		})
	}
	return out, nil
}

// Document renders a row in the pipe-separated form stored in the collection.
func Document(c model.ReferenceContract) string {
	var b strings.Builder
	b.WriteString("Document Name: " + c.DocumentName)
	b.WriteString(" | Effective Date: " + c.EffectiveDate)
	b.WriteString(" | Category: " + c.Category)
	b.WriteString(" | Parties Involved: " + c.Parties)
	b.WriteString(" | Agreement Date: " + c.AgreementDate)
	b.WriteString(" | Expiration Date: " + c.ExpirationDate)
	b.WriteString(" | Renewal Term: " + c.RenewalTerm)
	b.WriteString(" | Governing Law: " + c.GoverningLaw)
	b.WriteString(" | Exclusivity: " + c.Exclusivity)
	b.WriteString(" | Contract Details: " + c.Contract)
	return b.String()
}

// Metadata returns the fields kept alongside the document for display.
func Metadata(c model.ReferenceContract) map[string]string {
	return map[string]string{
		ColDocumentName:  c.DocumentName,
		ColEffectiveDate: c.EffectiveDate,
		ColCategory:      c.Category,
	}
}
