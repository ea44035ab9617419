package report

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/hyperifyio/minigrep/internal/search"
)

// WritePDF renders the outcome as an A4 document: the summary as a heading,
// then one monospaced row per match. Text is translated from UTF-8 to the
// cp1252 encoding of the core fonts; characters outside it are lost.
func WritePDF(path string, o search.Outcome) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("minigrep: "+o.Filename), false)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.AddPage()

	pdf.MultiCell(0, 6, tr(o.Summary()), "", "L", false)
	pdf.Ln(3)

	pdf.SetFont("Courier", "", 10)
	for _, m := range o.Matches {
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d: %s", m.LineNumber, m.Line)), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
