// Package ingest parses an uploaded CSV of leads into normalized drafts.
//
// Headers are matched case-insensitively against the canonical field set and
// a list of common aliases. Columns that match nothing are carried through as
// extra data. Rows that cannot be parsed are skipped and counted rather than
// failing the batch.
package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"lead_triage_backend/internal/leads/domain"
	"lead_triage_backend/platform/apperr"
	"lead_triage_backend/platform/sanitize"
)

// ErrRowSkipped marks a data row that was dropped from the batch.
var ErrRowSkipped = errors.New("row skipped")

const utf8BOM = "\ufeff"

// headerAliases maps normalized header names to canonical fields.
var headerAliases = map[string]string{
	"name":                domain.FieldName,
	"full_name":           domain.FieldName,
	"fullname":            domain.FieldName,
	"lead_name":           domain.FieldName,
	"client_name":         domain.FieldName,
	"email":               domain.FieldEmail,
	"e_mail":              domain.FieldEmail,
	"email_address":       domain.FieldEmail,
	"mail":                domain.FieldEmail,
	"phone":               domain.FieldPhone,
	"phone_number":        domain.FieldPhone,
	"mobile":              domain.FieldPhone,
	"mobile_number":       domain.FieldPhone,
	"telephone":           domain.FieldPhone,
	"tel":                 domain.FieldPhone,
	"whatsapp":            domain.FieldPhone,
	"message":             domain.FieldMessage,
	"notes":               domain.FieldMessage,
	"comment":             domain.FieldMessage,
	"comments":            domain.FieldMessage,
	"inquiry":             domain.FieldMessage,
	"enquiry":             domain.FieldMessage,
	"location_preference": domain.FieldLocationPreference,
	"location":            domain.FieldLocationPreference,
	"preferred_location":  domain.FieldLocationPreference,
	"area":                domain.FieldLocationPreference,
	"city":                domain.FieldLocationPreference,
	"budget":              domain.FieldBudget,
	"budget_aed":          domain.FieldBudget,
	"price_range":         domain.FieldBudget,
	"timeframe_to_move":   domain.FieldTimeframeToMove,
	"timeframe":           domain.FieldTimeframeToMove,
	"move_timeframe":      domain.FieldTimeframeToMove,
	"time_frame":          domain.FieldTimeframeToMove,
	"move_in":             domain.FieldTimeframeToMove,
	"property_type":       domain.FieldPropertyType,
	"type":                domain.FieldPropertyType,
	"property":            domain.FieldPropertyType,
	"source":              domain.FieldSource,
	"lead_source":         domain.FieldSource,
	"channel":             domain.FieldSource,
	"utm_source":          domain.FieldSource,
}

// nullMarkers are cell values treated as empty.
var nullMarkers = map[string]struct{}{
	"nan":  {},
	"none": {},
	"null": {},
	"n/a":  {},
	"na":   {},
	"-":    {},
}

// Draft is one normalized data row.
type Draft struct {
	// Row is the 1-based index of the data row in the file (header excluded).
	Row       int
	Fields    domain.Fields
	Extra     map[string]string
	NoContact bool
}

// Skip describes a dropped row.
type Skip struct {
	Row int
	Err error
}

// Stats summarizes one pass over the file.
type Stats struct {
	Rows    int
	Skipped int
	Named   int
}

type column struct {
	canonical string
	extra     string
}

// Reader yields drafts from a CSV stream. It is single-use and not safe for
// concurrent iteration.
type Reader struct {
	csv     *csv.Reader
	columns []column
	width   int
	stats   Stats
	skips   []Skip
	done    bool
}

// Open reads and validates the header row.
func Open(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperr.Ingest("uploaded file is empty").WithOp("ingest.Open")
		}
		return nil, apperr.Wrap(apperr.KindIngest, "uploaded file could not be read", err).WithOp("ingest.Open")
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperr.Ingest("uploaded file is empty").WithOp("ingest.Open")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIngest, "header row could not be parsed", err).WithOp("ingest.Open")
	}

	columns, recognized, blank := mapHeader(header)
	if blank {
		return nil, apperr.Ingest("header row is missing").WithOp("ingest.Open")
	}
	if recognized == 0 {
		return nil, apperr.Ingest("header row has no recognized lead columns").
			WithOp("ingest.Open").
			WithDetails(map[string]any{"expected": domain.CanonicalFields})
	}

	return &Reader{csv: cr, columns: columns, width: len(header)}, nil
}

func mapHeader(header []string) ([]column, int, bool) {
	columns := make([]column, len(header))
	seen := make(map[string]bool, len(header))
	recognized := 0
	blank := true

	for i, raw := range header {
		trimmed := strings.TrimSpace(strings.TrimPrefix(raw, utf8BOM))
		if trimmed == "" {
			continue
		}
		blank = false

		canonical, ok := headerAliases[normalizeHeader(trimmed)]
		if ok && !seen[canonical] {
			seen[canonical] = true
			columns[i] = column{canonical: canonical}
			recognized++
			continue
		}
		columns[i] = column{extra: trimmed}
	}

	return columns, recognized, blank
}

func normalizeHeader(h string) string {
	h = strings.ToLower(h)
	h = strings.NewReplacer(" ", "_", "-", "_", ".", "_").Replace(h)
	return strings.Trim(h, "_")
}

// Drafts lazily yields normalized drafts in source-row order.
func (r *Reader) Drafts() iter.Seq[Draft] {
	return func(yield func(Draft) bool) {
		if r.done {
			return
		}
		defer func() { r.done = true }()

		for {
			record, err := r.csv.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			r.stats.Rows++
			row := r.stats.Rows

			if err != nil {
				r.skip(row, err)
				continue
			}
			if len(record) > r.width {
				r.skip(row, fmt.Errorf("expected at most %d fields, got %d", r.width, len(record)))
				continue
			}
			// Missing trailing cells are empty values.
			for len(record) < r.width {
				record = append(record, "")
			}

			draft, ok := r.normalize(row, record)
			if !ok {
				r.skip(row, errors.New("all cells are blank"))
				continue
			}
			if draft.Fields.Name != "" {
				r.stats.Named++
			}
			if !yield(draft) {
				return
			}
		}
	}
}

func (r *Reader) normalize(row int, record []string) (Draft, bool) {
	draft := Draft{Row: row}
	filled := false

	for i, cell := range record {
		col := r.columns[i]
		value := cleanCell(cell)
		if value == "" {
			continue
		}
		filled = true

		switch {
		case col.canonical != "":
			draft.Fields.Set(col.canonical, value)
		case col.extra != "":
			if draft.Extra == nil {
				draft.Extra = make(map[string]string)
			}
			draft.Extra[col.extra] = value
		}
	}

	draft.NoContact = !draft.Fields.HasContact()
	return draft, filled
}

func cleanCell(cell string) string {
	value := sanitize.Text(cell)
	if _, isNull := nullMarkers[strings.ToLower(value)]; isNull {
		return ""
	}
	return value
}

func (r *Reader) skip(row int, cause error) {
	r.stats.Skipped++
	r.skips = append(r.skips, Skip{Row: row, Err: fmt.Errorf("%w: %w", ErrRowSkipped, cause)})
}

// Stats returns counters for the rows read so far.
func (r *Reader) Stats() Stats {
	return r.stats
}

// Skips returns the rows dropped so far.
func (r *Reader) Skips() []Skip {
	return r.skips
}

// Err reports a batch-level failure once iteration has finished: a file
// whose rows carry no name at all is not a usable batch.
func (r *Reader) Err() error {
	if r.done && r.stats.Named == 0 {
		return apperr.Ingest("no rows contain a name").
			WithOp("ingest.Reader").
			WithDetails(map[string]any{"rows": r.stats.Rows, "skipped": r.stats.Skipped})
	}
	return nil
}

// ReadAll drains the reader and returns every draft, or the batch-level error.
func (r *Reader) ReadAll() ([]Draft, error) {
	var drafts []Draft
	for d := range r.Drafts() {
		drafts = append(drafts, d)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return drafts, nil
}
