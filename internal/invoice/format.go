package invoice

import "fmt"

// Format selects the paper layout of a rendered document. Ticket formats
// (T80, T58) use a denser layout; BL formats relabel the document as a
// delivery note. The computation behind the document never changes with the
// format.
type Format string

const (
	FormatA4   Format = "A4"
	FormatA5   Format = "A5"
	FormatBLA4 Format = "BL-A4"
	FormatBLA5 Format = "BL-A5"
	FormatT80  Format = "T80"
	FormatT58  Format = "T58"
)

// ParseFormat maps a query-string value to a Format. An empty value defaults
// to A4.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "":
		return FormatA4, nil
	case FormatA4, FormatA5, FormatBLA4, FormatBLA5, FormatT80, FormatT58:
		return Format(raw), nil
	default:
		return "", fmt.Errorf("unknown document format %q", raw)
	}
}

func (f Format) IsTicket() bool {
	return f == FormatT80 || f == FormatT58
}

func (f Format) IsDeliveryNote() bool {
	return f == FormatBLA4 || f == FormatBLA5
}

// PageWidth is the CSS width of the printable area.
func (f Format) PageWidth() string {
	switch f {
	case FormatA5, FormatBLA5:
		return "148mm"
	case FormatT80:
		return "80mm"
	case FormatT58:
		return "58mm"
	default:
		return "210mm"
	}
}
