package invoicing

import (
	"context"
	"fmt"

	"github.com/tmsousa/invoicebridge/internal/accounting"
	"go.uber.org/zap"
)

// editorPaths maps the tax-authority document-type code to the path
// segment of the human-facing editor.
var editorPaths = map[string]string{
	"FT":  "Faturas",
	"FR":  "FaturasRecibo",
	"FS":  "FaturaSimplificada",
	"GT":  "GuiasTransporte",
	"NEF": "NotasEncomenda",
}

// Redirect is the retrieval gateway's only output: where to send the caller.
type Redirect struct {
	URL string
}

// DocumentRetrievalGateway decides, per document, whether the caller
// gets the finalized PDF or the web editor.
type DocumentRetrievalGateway struct {
	api      API
	settings Settings
	logger   *zap.Logger
}

// NewDocumentRetrievalGateway creates a new retrieval gateway
func NewDocumentRetrievalGateway(api API, settings Settings, logger *zap.Logger) *DocumentRetrievalGateway {
	return &DocumentRetrievalGateway{api: api, settings: settings, logger: logger}
}

// Resolve fetches the document and returns the redirect target: the
// direct PDF link for closed documents, the editor URL for open ones.
func (g *DocumentRetrievalGateway) Resolve(ctx context.Context, documentID int64) (*Redirect, error) {
	record, err := g.api.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	if record == nil {
		return nil, &NotFoundError{Kind: "document", ID: documentID}
	}

	if record.Status == accounting.StatusClosed {
		url, err := g.api.GetPDFLink(ctx, documentID)
		if err != nil {
			return nil, fmt.Errorf("fetch pdf link: %w", err)
		}
		return &Redirect{URL: url}, nil
	}

	slug := g.settings.CompanySlug
	if slug == "" {
		profile, err := g.api.GetCompanyProfile(ctx)
		if err != nil {
			return nil, fmt.Errorf("get company profile: %w", err)
		}
		slug = profile.Slug
	}

	path, ok := editorPaths[record.DocumentType.SaftCode]
	if !ok {
		path = editorPaths["FT"]
	}

	url := fmt.Sprintf("%s/%s/%s/showDetail/%d", g.settings.EditorBaseURL, slug, path, documentID)
	return &Redirect{URL: url}, nil
}
