// Package contactcsv reads and writes address-book CSV files in the layout
// used by Google and Microsoft contact exports.
package contactcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// Record is one importable contact. Row is the 1-based line it came from.
type Record struct {
	Row      int
	Name     string
	Phone    string
	Birthday *domain.Birthday
}

// RowError describes a problem with one data row. Row is 1-based and
// counts the header. Skipped rows were not imported; the others were
// imported without the offending field.
type RowError struct {
	Row     int
	Message string
	Skipped bool
}

var (
	nameHeaders     = []string{"name", "first name", "given name", "full name"}
	lastNameHeaders = []string{"last name", "family name", "surname"}
	birthdayHeaders = []string{"birthday", "birth date", "date of birth", "dob"}
)

type columns struct {
	name, lastName, phone, birthday int
}

// Parse reads a contacts CSV. A header without a name or phone column is a
// validation error; problems in individual rows are reported as RowErrors.
func Parse(r io.Reader) ([]Record, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, domain.NewValidationError("file", "empty CSV")
	}
	if err != nil {
		return nil, nil, domain.NewValidationError("file", fmt.Sprintf("read header: %v", err))
	}

	cols := findColumns(header)
	if cols.name < 0 || cols.phone < 0 {
		return nil, nil, domain.NewValidationError("file", "CSV must have Name and Phone columns")
	}

	var (
		records []Record
		rowErrs []RowError
	)
	for row := 2; ; row++ {
		values, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rowErrs = append(rowErrs, RowError{Row: row, Message: perr.Err.Error(), Skipped: true})
				continue
			}
			return nil, nil, fmt.Errorf("contactcsv.Parse: row %d: %w", row, err)
		}
		if blank(values) {
			continue
		}

		name := field(values, cols.name)
		if last := field(values, cols.lastName); last != "" {
			name = strings.TrimSpace(name + " " + last)
		}
		phone := field(values, cols.phone)

		if name == "" || phone == "" {
			rowErrs = append(rowErrs, RowError{Row: row, Message: "missing name or phone", Skipped: true})
			continue
		}

		rec := Record{Row: row, Name: name, Phone: phone}
		if raw := field(values, cols.birthday); raw != "" {
			b, ok := ParseBirthday(raw)
			if ok {
				rec.Birthday = &b
			} else {
				rowErrs = append(rowErrs, RowError{Row: row, Message: fmt.Sprintf("unrecognised birthday %q", raw)})
			}
		}
		records = append(records, rec)
	}

	return records, rowErrs, nil
}

func findColumns(header []string) columns {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	cols := columns{
		name:     indexOf(norm, func(h string) bool { return oneOf(h, nameHeaders) }),
		lastName: indexOf(norm, func(h string) bool { return oneOf(h, lastNameHeaders) }),
		birthday: indexOf(norm, func(h string) bool { return oneOf(h, birthdayHeaders) }),
	}

	// "Phone 1 - Value" beats "Phone 1 - Type".
	cols.phone = indexOf(norm, func(h string) bool {
		return strings.Contains(h, "phone") && strings.Contains(h, "value")
	})
	if cols.phone < 0 {
		cols.phone = indexOf(norm, func(h string) bool {
			return (strings.Contains(h, "phone") || strings.Contains(h, "mobile") || strings.Contains(h, "telephone")) &&
				!strings.Contains(h, "type")
		})
	}
	return cols
}

// ---------------------------------------------------------------------------
// Birthdays
// ---------------------------------------------------------------------------

var birthdayFormats = []struct {
	re         *regexp.Regexp
	month, day int // submatch indexes
}{
	{regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`), 2, 3}, // YYYY-MM-DD
	{regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), 1, 2}, // MM/DD/YYYY, M/D/YYYY
	{regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`), 1, 2},     // MM-DD-YYYY
	{regexp.MustCompile(`^(\d{1,2})-(\d{1,2})$`), 1, 2},         // MM-DD
}

// ParseBirthday recognises the date layouts found in contact exports and
// returns the month and day. Slash dates are read US style.
func ParseBirthday(s string) (domain.Birthday, bool) {
	s = strings.TrimSpace(s)
	for _, f := range birthdayFormats {
		m := f.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		month, _ := strconv.Atoi(m[f.month])
		day, _ := strconv.Atoi(m[f.day])
		b, err := domain.NewBirthday(time.Month(month), day)
		if err != nil {
			return domain.Birthday{}, false
		}
		return b, true
	}
	return domain.Birthday{}, false
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// Header is the first line written by Write.
const Header = "Name,Phone 1 - Value,Birthday"

// Write emits contacts in Google Contacts layout. Birthdays are written as
// full dates in year.
func Write(w io.Writer, contacts []domain.Contact, year int) error {
	var b strings.Builder
	b.WriteString(Header)
	b.WriteString("\n")
	for _, c := range contacts {
		b.WriteString(quote(c.Name))
		b.WriteString(",")
		b.WriteString(quote(c.Phone))
		b.WriteString(",")
		if c.Birthday != nil {
			fmt.Fprintf(&b, "%04d-%s", year, c.Birthday.String())
		}
		b.WriteString("\n")
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("contactcsv.Write: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func field(values []string, i int) string {
	if i < 0 || i >= len(values) {
		return ""
	}
	return strings.TrimSpace(values[i])
}

func blank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func indexOf(headers []string, match func(string) bool) int {
	for i, h := range headers {
		if match(h) {
			return i
		}
	}
	return -1
}

func oneOf(h string, names []string) bool {
	for _, n := range names {
		if h == n {
			return true
		}
	}
	return false
}
