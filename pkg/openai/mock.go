package openai

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator produces deterministic demo content when no API key is
// configured; used in development and tests.
type MockGenerator struct{}

func (MockGenerator) Model() string { return "mock" }

func (MockGenerator) Generate(_ context.Context, req GenerationRequest) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", req.Title)
	b.WriteString("## Executive Summary\n\n")
	b.WriteString("This report provides a comprehensive analysis based on the provided data.\n\n")
	b.WriteString("## Report Details\n\n")
	fmt.Fprintf(&b, "- **Industry:** %s\n", req.Industry)
	fmt.Fprintf(&b, "- **Report Type:** %s\n", req.ReportType)
	fmt.Fprintf(&b, "- **Audience:** %s\n", req.Audience)
	fmt.Fprintf(&b, "- **Purpose:** %s\n", req.Purpose)
	fmt.Fprintf(&b, "- **Tone:** %s\n", req.Tone)
	fmt.Fprintf(&b, "- **Depth:** %s\n\n", req.Depth)

	if len(req.Inputs) > 0 {
		b.WriteString("## Input Data\n\n")
		keys := req.InputKeys
		if len(keys) == 0 {
			for k := range req.Inputs {
				keys = append(keys, k)
			}
		}
		for _, k := range keys {
			fmt.Fprintf(&b, "- **%s:** %s\n", k, req.Inputs[k])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Analysis\n\n")
	b.WriteString("1. **Key Findings:** The data suggests opportunities for optimization.\n")
	b.WriteString("2. **Recommendations:** Consider reviewing the key metrics periodically.\n")
	b.WriteString("3. **Next Steps:** Implement the suggested improvements and monitor results.\n\n")
	b.WriteString("---\n\n")
	b.WriteString("*Note: This is a demo report. Connect an OpenAI API key for AI-generated content.*\n")
	return b.String(), nil
}
