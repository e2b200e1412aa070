package httpapi

import (
	"embed"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

//go:embed web/dashboard.html web/dashboard.js
var webContent embed.FS

const scriptPlaceholder = "/*DASHBOARD_SCRIPT*/"

// buildPage inlines the minified dashboard script into the HTML shell.
func buildPage() ([]byte, error) {
	html, err := webContent.ReadFile("web/dashboard.html")
	if err != nil {
		return nil, err
	}
	script, err := webContent.ReadFile("web/dashboard.js")
	if err != nil {
		return nil, err
	}

	minified, err := minifyScript(string(script))
	if err != nil {
		return nil, err
	}
	return []byte(strings.Replace(string(html), scriptPlaceholder, minified, 1)), nil
}

func minifyScript(src string) (string, error) {
	result := api.Transform(src, api.TransformOptions{
		Loader:            api.LoaderJS,
		Format:            api.FormatIIFE,
		Target:            api.ES2017,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		msg := result.Errors[0]
		if msg.Location != nil {
			return "", fmt.Errorf("dashboard script: %s (line %d)", msg.Text, msg.Location.Line)
		}
		return "", fmt.Errorf("dashboard script: %s", msg.Text)
	}
	return string(result.Code), nil
}
