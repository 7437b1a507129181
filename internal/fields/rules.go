package fields

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Match is one extracted field. A non-empty Warning flags a value that was
// kept in a degraded form (e.g. a total that would not parse as a number).
type Match struct {
	Key     string
	Value   any
	Warning string
}

// Rule is a single pattern heuristic applied to the whole resolved text.
// Rules run in a fixed order; a later rule overwrites an earlier rule's
// value under the same key.
type Rule interface {
	Extract(text string) []Match
}

// Guards against matching prose paragraphs as label/value pairs.
const (
	maxLabelRunes = 40
	maxValueRunes = 120
	minLineRunes  = 3
)

var (
	reLabelValue = regexp.MustCompile(`^([A-Za-z\s.\-%/]+)\s*[:\-]\s*(.+)`)
	reInvoiceNo  = regexp.MustCompile(`(?i)Invoice\s*No\.?\s*[:\-]?\s*([A-Z0-9/\-]+)`)
	reInvoiceDt  = regexp.MustCompile(`(?i)Invoice\s*Date\s*[:\-]?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{4})`)
	reCustomer   = regexp.MustCompile(`(?i)(Customer|Client|Bill\s*To)(?:\s*Name)?\s*[:\-]?\s*([A-Za-z ]+)`)
	reTotal      = regexp.MustCompile(`(?i)(Grand\s*Total|Total\s*Amount)\s*[:\-]?\s*(\d[\d,.]*)`)
)

// genericLineRule is the phase-1 catch-all: every line shaped like
// "label: value" or "label - value" contributes a field, with the label
// title-cased as the key. Later lines overwrite earlier ones for the same key.
type genericLineRule struct{}

func (genericLineRule) Extract(text string) []Match {
	var out []Match
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < minLineRunes {
			continue
		}
		m := reLabelValue.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := TitleCase(strings.TrimSpace(m[1]))
		value := strings.TrimSpace(m[2])
		if utf8.RuneCountInString(key) >= maxLabelRunes || utf8.RuneCountInString(value) >= maxValueRunes {
			continue
		}
		out = append(out, Match{Key: key, Value: value})
	}
	return out
}

// invoiceNumberRule targets "Invoice No" style labels anywhere in the text.
type invoiceNumberRule struct{}

func (invoiceNumberRule) Extract(text string) []Match {
	m := reInvoiceNo.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return []Match{{Key: "Invoice No", Value: m[1]}}
}

// invoiceDateRule targets "Invoice Date" with a d/m/yyyy-shaped value.
type invoiceDateRule struct{}

func (invoiceDateRule) Extract(text string) []Match {
	m := reInvoiceDt.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return []Match{{Key: "Invoice Date", Value: m[1]}}
}

// customerNameRule targets Customer/Client/Bill To labels. The value is
// restricted to letters and spaces so it stops at the end of the name line.
type customerNameRule struct{}

func (customerNameRule) Extract(text string) []Match {
	m := reCustomer.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	name := strings.TrimSpace(m[2])
	if name == "" {
		return nil
	}
	return []Match{{Key: "Customer Name", Value: name}}
}

// totalAmountRule targets "Grand Total" / "Total Amount" and stores the value
// numerically with thousands separators stripped. A value that still fails
// numeric parsing is kept as the raw string and flagged, never dropped
// silently: one malformed document must not abort the batch.
type totalAmountRule struct{}

func (totalAmountRule) Extract(text string) []Match {
	m := reTotal.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	raw := m[2]
	num, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return []Match{{
			Key:     "Total Amount",
			Value:   raw,
			Warning: fmt.Sprintf("total amount %q is not numeric, kept as raw string", raw),
		}}
	}
	return []Match{{Key: "Total Amount", Value: num}}
}

// invoiceTypeRule flags tax invoices by substring, independent of layout.
type invoiceTypeRule struct{}

func (invoiceTypeRule) Extract(text string) []Match {
	if !strings.Contains(strings.ToLower(text), "tax invoice") {
		return nil
	}
	return []Match{{Key: "Invoice Type", Value: "Tax Invoice"}}
}
