package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/anjiri1684/quiz_connect/auth"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

//go:embed templates/certificate.html
var templateFS embed.FS

var certificateTmpl = template.Must(template.ParseFS(templateFS, "templates/certificate.html"))

// PDFRenderer turns an HTML document into PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// ChromeRenderer prints HTML to PDF with headless Chrome.
type ChromeRenderer struct {
	Timeout time.Duration
}

func (r ChromeRenderer) Render(ctx context.Context, htmlContent string) ([]byte, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).WithLandscape(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

type CertificateService struct {
	quizzes  *QuizService
	renderer PDFRenderer
	appName  string
}

func NewCertificateService(quizzes *QuizService, renderer PDFRenderer, appName string) *CertificateService {
	return &CertificateService{quizzes: quizzes, renderer: renderer, appName: appName}
}

func (s *CertificateService) html(result models.Result) (string, error) {
	data := struct {
		AppName     string
		StudentName string
		QuizTitle   string
		Score       int
		MaxScore    int
		Percentage  string
		SubmittedOn string
		ResultID    uint
	}{
		AppName:     s.appName,
		StudentName: result.Account.DisplayName(),
		QuizTitle:   result.Quiz.Title,
		Score:       result.Score,
		MaxScore:    result.MaxScore,
		Percentage:  fmt.Sprintf("%.1f%%", result.Percentage()),
		SubmittedOn: result.SubmittedAt.Format("January 2, 2006"),
		ResultID:    result.ID,
	}

	var renderedHTML bytes.Buffer
	if err := certificateTmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

// Certificate renders the PDF certificate of a result and a file name for it.
func (s *CertificateService) Certificate(ctx context.Context, p auth.Principal, resultID uint) ([]byte, string, error) {
	result, err := s.quizzes.Result(p, resultID)
	if err != nil {
		return nil, "", err
	}
	htmlData, err := s.html(result)
	if err != nil {
		return nil, "", errors.Wrap(err, "rendering certificate html")
	}
	pdf, err := s.renderer.Render(ctx, htmlData)
	if err != nil {
		return nil, "", errors.Wrap(err, "rendering certificate pdf")
	}
	return pdf, fmt.Sprintf("certificate_%d.pdf", result.ID), nil
}
