package providers

import (
	"context"
)

// Extraction is what the web-content extraction collaborator derives from a
// facility website.
type Extraction struct {
	Blurb    string   `json:"blurb"`
	Services []string `json:"services"`
	Pricing  []string `json:"pricing,omitempty"`
}

// ContentExtractor is the port for the extraction collaborator. A site that
// yields nothing after all prompt variants returns (nil, nil), never an
// error: missing enrichment is not a failure.
type ContentExtractor interface {
	Extract(ctx context.Context, websiteURL string) (*Extraction, error)
}
