package report

import (
	"fmt"
	"path/filepath"

	"github.com/mandolyte/mdtopdf"
)

// writePDF renders a markdown report into a portrait A4 PDF at pdfPath.
// The directory of pdfPath must exist.
func writePDF(markdown []byte, pdfPath string) error {
	if filepath.Ext(pdfPath) != ".pdf" {
		return fmt.Errorf("output file must have .pdf extension: %s", pdfPath)
	}
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(markdown); err != nil {
		return fmt.Errorf("renderer.Process(%s) > %w", pdfPath, err)
	}
	return nil
}
