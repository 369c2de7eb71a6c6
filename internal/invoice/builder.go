package invoice

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"comptoir/internal/pricing"
)

//go:embed document.html.tmpl
var documentTemplate string

type Kind string

const (
	KindInvoice  Kind = "INVOICE"
	KindProforma Kind = "PROFORMA"
)

type Issuer struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

type Party struct {
	Name    string
	Phone   string
	Address string
}

type Line struct {
	Quantity    int
	Designation string
	UnitPrice   float64
	Amount      float64
}

// Document carries everything the renderer needs. The date is passed in
// explicitly so that rendering the same document twice yields the same bytes.
type Document struct {
	Kind          Kind
	Number        string
	Date          time.Time
	Issuer        Issuer
	Customer      Party
	Lines         []Line
	Totals        pricing.OrderTotals
	PaymentMethod string
	Condition     string
	Format        Format
}

// Title is the document heading. BL formats win over the kind: a proforma
// printed on BL paper is still a delivery note.
func (d Document) Title() string {
	if d.Format.IsDeliveryNote() {
		return "Bon de livraison"
	}
	if d.Kind == KindProforma {
		return "Facture proforma"
	}
	return "Facture"
}

var tmpl = template.Must(template.New("document").Funcs(template.FuncMap{
	"money": pricing.FormatAmount,
}).Parse(documentTemplate))

type templateData struct {
	Title         string
	Number        string
	Date          string
	Issuer        Issuer
	Customer      Party
	Lines         []Line
	Totals        pricing.OrderTotals
	PaymentMethod string
	Condition     string
	PageWidth     string
	Ticket        bool
	ShowPayment   bool
	ShowChange    bool
}

// Build renders the document as a self-contained HTML page. It performs no
// computation: every figure it prints was derived upstream by
// pricing.ComputeTotals.
func Build(doc Document) (string, error) {
	data := templateData{
		Title:         doc.Title(),
		Number:        doc.Number,
		Date:          doc.Date.Format("02/01/2006 15:04"),
		Issuer:        doc.Issuer,
		Customer:      doc.Customer,
		Lines:         doc.Lines,
		Totals:        doc.Totals,
		PaymentMethod: doc.PaymentMethod,
		Condition:     doc.Condition,
		PageWidth:     doc.Format.PageWidth(),
		Ticket:        doc.Format.IsTicket(),
		ShowPayment:   doc.Kind == KindInvoice && !doc.Format.IsDeliveryNote(),
		ShowChange:    doc.Totals.ChangeAmount > 0,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering document %s: %w", doc.Number, err)
	}

	return buf.String(), nil
}
