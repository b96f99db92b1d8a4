package lekka

import (
	"bytes"
	"fmt"
	"image/png"
	"time"

	"github.com/go-pdf/fpdf"
)

// pdfTitle is written into the document information dictionary.
const pdfTitle = "Labour Lekka Privacy Policy"

// capturedImageName registers the screenshot once for reuse on every page.
const capturedImageName = "policy-capture"

// pdfEncoder abstracts PDF assembly from a captured PNG to allow testing
// pagination without writing real PDFs.
type pdfEncoder interface {
	Encode(img []byte, settings ExportSettings) (pdf []byte, pages int, err error)
}

// Compile-time interface check.
var _ pdfEncoder = (*fpdfEncoder)(nil)

// fpdfEncoder lays a captured PNG across A4 point pages with go-pdf/fpdf.
type fpdfEncoder struct {
	now func() time.Time
}

func newFPDFEncoder() *fpdfEncoder {
	return &fpdfEncoder{now: time.Now}
}

// Encode paginates img by drawing it on each page shifted up one page height.
func (e *fpdfEncoder) Encode(img []byte, settings ExportSettings) ([]byte, int, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	layout, err := Paginate(cfg.Width, cfg.Height, settings.Page, settings.Margin)
	if err != nil {
		return nil, 0, err
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: settings.Page.Width, Ht: settings.Page.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(pdfTitle, true)
	doc.SetCreator("lekka", true)
	doc.SetCreationDate(e.now())
	if settings.Stamp != "" {
		doc.SetSubject(settings.Stamp, true)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG", AllowNegativePosition: true}
	doc.RegisterImageOptionsReader(capturedImageName, opts, bytes.NewReader(img))

	for _, y := range layout.Offsets {
		doc.AddPage()
		doc.ImageOptions(capturedImageName, layout.X, y, layout.Width, layout.Height, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrPDFEncode, err)
	}

	return buf.Bytes(), layout.Pages(), nil
}
