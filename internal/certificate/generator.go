// Package certificate renders completion certificates as PDF artifacts.
package certificate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/signintech/gopdf"

	"github.com/ecsddagra-prog/training/internal/config"
	"github.com/ecsddagra-prog/training/internal/model"
)

const fontName = "cert"

// Generator writes certificate PDFs under the upload directory and returns
// their public path as the stored certificate reference.
type Generator struct {
	uploadDir string
	baseURL   string
	fontPath  string
	log       zerolog.Logger
}

// NewGenerator creates a certificate Generator.
func NewGenerator(cfg *config.Config, log zerolog.Logger) *Generator {
	return &Generator{
		uploadDir: cfg.UploadDir,
		baseURL:   cfg.PublicBaseURL,
		fontPath:  cfg.CertFontPath,
		log:       log.With().Str("component", "certificate_generator").Logger(),
	}
}

// Generate renders a certificate for one result and returns its public
// reference. Regenerating for the same (exam, employee) overwrites the
// previous file and yields the same reference.
func (g *Generator) Generate(exam *model.Exam, emp *model.Employee, res *model.Result) (string, error) {
	dir := filepath.Join(g.uploadDir, "certificates")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create certificates dir: %w", err)
	}

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4Landscape})
	pdf.AddPage()

	if err := pdf.AddTTFFont(fontName, g.fontPath); err != nil {
		return "", fmt.Errorf("load certificate font: %w", err)
	}

	pageW := gopdf.PageSizeA4Landscape.W
	pdf.SetLineWidth(2)
	pdf.RectFromUpperLeftWithStyle(24, 24, pageW-48, gopdf.PageSizeA4Landscape.H-48, "D")

	if err := g.centeredText(&pdf, "Certificate of Completion", 34, 140); err != nil {
		return "", err
	}
	if err := g.centeredText(&pdf, "awarded to", 16, 200); err != nil {
		return "", err
	}
	if err := g.centeredText(&pdf, emp.Name, 28, 250); err != nil {
		return "", err
	}
	body := fmt.Sprintf("for completing %q with a score of %.1f%%", exam.Title, res.Percentage)
	if err := g.centeredText(&pdf, body, 16, 310); err != nil {
		return "", err
	}
	if err := g.centeredText(&pdf, res.SubmittedAt.Format("2 January 2006"), 14, 360); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("cert_%s_%d.pdf", exam.ID, emp.ID)
	path := filepath.Join(dir, filename)
	if err := pdf.WritePdf(path); err != nil {
		return "", fmt.Errorf("write certificate pdf: %w", err)
	}

	ref := g.baseURL + "/uploads/certificates/" + filename
	g.log.Debug().Str("path", path).Str("ref", ref).Msg("Certificate written")
	return ref, nil
}

func (g *Generator) centeredText(pdf *gopdf.GoPdf, text string, size float64, y float64) error {
	if err := pdf.SetFont(fontName, "", size); err != nil {
		return fmt.Errorf("set font: %w", err)
	}
	width, err := pdf.MeasureTextWidth(text)
	if err != nil {
		return fmt.Errorf("measure text: %w", err)
	}
	pdf.SetXY((gopdf.PageSizeA4Landscape.W-width)/2, y)
	return pdf.Cell(nil, text)
}
