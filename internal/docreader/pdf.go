package docreader

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfDocument reads PDFs with two libraries: pdfcpu for structure (page
// count, bookmark tree, raw content streams) and ledongthuc/pdf for page
// text, which produces cleaner output when the PDF has a proper font map.
// Text extraction falls back to scanning the pdfcpu content stream when the
// text library cannot handle a page.
type pdfDocument struct {
	name      string
	ctx       *model.Context
	text      *pdflib.Reader
	pageCount int
	bookmarks []*BookmarkNode
}

func newPDFDocument(data []byte, filename string) (Document, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	d := &pdfDocument{
		name:      filename,
		ctx:       ctx,
		pageCount: ctx.PageCount,
	}

	// Some PDFs carry no outline; some carry one pdfcpu cannot decode.
	// Either way the document is still usable for text extraction.
	if bms, err := api.Bookmarks(bytes.NewReader(data), conf); err == nil {
		d.bookmarks = convertBookmarks(bms)
	}

	// The text reader is optional as well.
	if r, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data))); err == nil {
		d.text = r
	}

	return d, nil
}

func (d *pdfDocument) Name() string               { return d.name }
func (d *pdfDocument) NumPages() int              { return d.pageCount }
func (d *pdfDocument) Bookmarks() []*BookmarkNode { return d.bookmarks }
func (d *pdfDocument) Close() error               { return nil }

func (d *pdfDocument) PageText(page int) (string, error) {
	if page < 1 || page > d.pageCount {
		return "", fmt.Errorf("page %d out of range (1..%d)", page, d.pageCount)
	}

	if d.text != nil && page <= d.text.NumPage() {
		p := d.text.Page(page)
		if !p.V.IsNull() {
			if text, err := p.GetPlainText(nil); err == nil && strings.TrimSpace(text) != "" {
				return text, nil
			}
		}
	}

	return d.contentStreamText(page), nil
}

func (d *pdfDocument) ResolveDest(dest Dest) (int, error) {
	p, ok := dest.(destPage)
	if !ok || int(p) < 1 || int(p) > d.pageCount {
		return 0, ErrUnresolvedDest
	}
	return int(p), nil
}

// convertBookmarks maps the pdfcpu bookmark tree onto BookmarkNode. Entries
// without a usable target page become pure containers.
func convertBookmarks(bms []pdfcpu.Bookmark) []*BookmarkNode {
	if len(bms) == 0 {
		return nil
	}
	nodes := make([]*BookmarkNode, 0, len(bms))
	for _, bm := range bms {
		node := &BookmarkNode{
			Title:    bm.Title,
			Children: convertBookmarks(bm.Kids),
		}
		if bm.PageFrom >= 1 {
			node.Dest = destPage(bm.PageFrom)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// contentStreamText scrapes text-showing operators out of the raw page
// content stream. Crude but good enough as a last resort for pages the text
// library rejects.
func (d *pdfDocument) contentStreamText(page int) string {
	r, err := pdfcpu.ExtractPageContent(d.ctx, page)
	if err != nil {
		return ""
	}
	var data bytes.Buffer
	if _, err := data.ReadFrom(r); err != nil {
		return ""
	}
	return streamText(data.Bytes())
}

// pdfLiteralRe matches PDF string literals: (text)
var pdfLiteralRe = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)

func streamText(stream []byte) string {
	var sb strings.Builder
	for _, line := range bytes.Split(stream, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, m := range pdfLiteralRe.FindAllSubmatch(line, -1) {
				sb.WriteString(unescapePDFString(m[1]))
			}
			sb.WriteByte(' ')
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			sb.WriteByte('\n')
			for _, m := range pdfLiteralRe.FindAllSubmatch(line, -1) {
				sb.WriteString(unescapePDFString(m[1]))
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			sb.WriteByte('\n')
		}
	}
	return strings.TrimSpace(sb.String())
}

// unescapePDFString decodes backslash escapes in a PDF string literal,
// including octal byte values like \051.
func unescapePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch e := raw[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '(', ')', '\\':
			sb.WriteByte(e)
		default:
			if e >= '0' && e <= '7' {
				val := int(e - '0')
				for n := 0; n < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(e)
			}
		}
	}
	return sb.String()
}
