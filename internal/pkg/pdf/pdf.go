package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"
)

// PayeeInfo is the identity block printed at the top of a payroll document.
// Empty fields are skipped.
type PayeeInfo struct {
	Name        string
	Function    string
	NationalID  string
	BankAccount string
	BankName    string
	Phone       string
}

// SheetDocument carries the figures of one payroll sheet ready for printing.
// Amounts come in pre-formatted so the renderer stays decimal agnostic.
type SheetDocument struct {
	MemoNumber    string
	SessionTitle  string
	Period        string
	ManagerName   string
	TutoringHours string
	GroupHours    string
	TotalHours    string
	GrossAmount   string
	NetAmount     string
	GeneratedAt   time.Time
}

// SettlementLine is one row of the settlement recap table.
type SettlementLine struct {
	Label      string
	MemoNumber string
	NetAmount  string
}

// Renderer produces the printable payroll documents.
type Renderer struct {
	centerName string
}

func NewRenderer(centerName string) *Renderer {
	return &Renderer{centerName: centerName}
}

// TrainerSheet renders the hour-based pay memo of a trainer.
func (r *Renderer) TrainerSheet(doc SheetDocument, payee PayeeInfo) ([]byte, error) {
	pdf, tr := r.newPage("Mémoire de paiement - Formation", doc)
	r.payeeBlock(pdf, tr, payee)

	// Hours table
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, tr("Détail des heures"), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(95, 7, tr("Prestation"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(95, 7, tr("Heures"), "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, tr("Tutorat"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, doc.TutoringHours, "1", 1, "C", false, 0, "")
	pdf.CellFormat(95, 6, tr("Regroupement"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, doc.GroupHours, "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(95, 6, tr("Total"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, doc.TotalHours, "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	r.amountBlock(pdf, tr, doc)
	r.signatureBlock(pdf, tr, doc)

	return output(pdf)
}

// CoordinationSheet renders the flat-fee pay memo of a coordinator.
func (r *Renderer) CoordinationSheet(doc SheetDocument, payee PayeeInfo) ([]byte, error) {
	pdf, tr := r.newPage("Mémoire de paiement - Coordination", doc)
	r.payeeBlock(pdf, tr, payee)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(190, 7, tr("Forfait de coordination de session"), "1", 1, "L", false, 0, "")
	pdf.Ln(5)

	r.amountBlock(pdf, tr, doc)
	r.signatureBlock(pdf, tr, doc)

	return output(pdf)
}

// SettlementSheet renders the session settlement recap with one line per
// underlying sheet.
func (r *Renderer) SettlementSheet(doc SheetDocument, lines []SettlementLine) ([]byte, error) {
	pdf, tr := r.newPage("Mémoire de règlement de session", doc)

	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, tr("Récapitulatif des fiches"), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(85, 7, tr("Bénéficiaire"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 7, tr("Mémoire"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, tr("Montant net"), "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, line := range lines {
		label := line.Label
		if len(label) > 40 {
			label = label[:37] + "..."
		}
		pdf.CellFormat(85, 6, tr(label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 6, line.MemoNumber, "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 6, line.NetAmount, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFillColor(200, 255, 200)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, tr(fmt.Sprintf("Total à régler : %s", doc.NetAmount)), "1", 1, "C", true, 0, "")

	r.signatureBlock(pdf, tr, doc)

	return output(pdf)
}

func (r *Renderer) newPage(title string, doc SheetDocument) (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, tr(r.centerName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(190, 8, tr(title), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, tr(fmt.Sprintf("N° %s", doc.MemoNumber)), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, tr(fmt.Sprintf("Session : %s", doc.SessionTitle)), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, tr(doc.Period), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	return pdf, tr
}

func (r *Renderer) payeeBlock(pdf *gofpdf.Fpdf, tr func(string) string, payee PayeeInfo) {
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, tr("Bénéficiaire"), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, tr(fmt.Sprintf("Nom : %s", payee.Name)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr(fmt.Sprintf("Fonction : %s", payee.Function)), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr(fmt.Sprintf("CIN : %s", payee.NationalID)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr(fmt.Sprintf("Téléphone : %s", payee.Phone)), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr(fmt.Sprintf("Banque : %s", payee.BankName)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, tr(fmt.Sprintf("Compte : %s", payee.BankAccount)), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)
}

func (r *Renderer) amountBlock(pdf *gofpdf.Fpdf, tr func(string) string, doc SheetDocument) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, tr("Montants"), "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 8, tr(fmt.Sprintf("Montant brut : %s", doc.GrossAmount)), "1", 0, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(95, 8, tr(fmt.Sprintf("Montant net : %s", doc.NetAmount)), "1", 1, "C", false, 0, "")
	pdf.Ln(5)
}

func (r *Renderer) signatureBlock(pdf *gofpdf.Fpdf, tr func(string) string, doc SheetDocument) {
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, tr(fmt.Sprintf("Établi le %s par %s", doc.GeneratedAt.Format("02/01/2006"), doc.ManagerName)), "", 1, "R", false, 0, "")
	pdf.Ln(10)
	pdf.CellFormat(95, 6, tr("Signature du bénéficiaire"), "", 0, "C", false, 0, "")
	pdf.CellFormat(95, 6, tr("Signature du responsable"), "", 1, "C", false, 0, "")
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
