package mock

import (
	"golang.org/x/net/html"

	"github.com/distillhq/distill"
)

var _ distill.MetadataExtractor = (*MetadataExtractor)(nil)

// MetadataExtractor is a mock implementation of distill.MetadataExtractor.
type MetadataExtractor struct {
	ExtractMetadataFn func(root *html.Node) (*distill.Metadata, []string)
}

func (m *MetadataExtractor) ExtractMetadata(root *html.Node) (*distill.Metadata, []string) {
	return m.ExtractMetadataFn(root)
}
