package resource

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/newtonium-installer/internal/domain/manifest"
)

//go:embed bridge.js
var bridgeScript string

// InitScript returns the script defining window.nai.
func InitScript(data manifest.InitData) (string, error) {
	// HTML-escaped so the value cannot close the surrounding script tag.
	encoded, err := sonic.ConfigStd.MarshalToString(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode init data: %w", err)
	}
	return "window.nai = " + encoded + ";", nil
}

// BridgeScript returns the IPC bridge script. It expects window.nai to be
// defined first.
func BridgeScript() string {
	return bridgeScript
}

// Inject inserts scripts at the start of the document head so they run
// before any page script.
func Inject(document []byte, scripts ...string) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to parse entry document: %w", err)
	}

	var tags bytes.Buffer
	for _, s := range scripts {
		tags.WriteString(`<script data-nai="">`)
		tags.WriteString(s)
		tags.WriteString("</script>")
	}

	// The parser always synthesizes a head element.
	doc.Find("head").First().PrependHtml(tags.String())

	out, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to render entry document: %w", err)
	}
	return []byte(out), nil
}
