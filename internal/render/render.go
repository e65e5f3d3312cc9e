// Package render turns compliance results into Markdown and HTML reports.
package render

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"luxcheck/domain/verdict"
)

// Title heads every rendered report
const Title = "Lighting Compliance Report"

// checkOrder lists the checks that are always rendered first
var checkOrder = []string{verdict.ParamLux, verdict.ParamUniformity, verdict.ParamRa}

// Markdown renders a compliance result as a Markdown document
func Markdown(result verdict.ComplianceResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", Title)
	fmt.Fprintf(&b, "**Overall compliance:** %s\n\n", result.OverallCompliance)
	if !result.Timestamp.IsZero() {
		fmt.Fprintf(&b, "**Checked:** %s\n\n", result.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	if result.Error != "" {
		fmt.Fprintf(&b, "> **Error:** %s\n\n", escape(result.Error))
	}

	if s := result.Summary; s != nil {
		b.WriteString("## Summary\n\n")
		b.WriteString("| Rooms | Passed | Failed | No standard found | Pass rate |\n")
		b.WriteString("|---|---|---|---|---|\n")
		fmt.Fprintf(&b, "| %d | %d | %d | %d | %.1f%% |\n\n", s.TotalRooms, s.Passed, s.Failed, s.NoStandardFound, s.PassRate)
	}

	if len(result.Checks) > 0 {
		b.WriteString("## Rooms\n\n")
	}
	for _, room := range result.Checks {
		writeRoom(&b, room)
	}
	return b.String()
}

// HTML renders a compliance result as a complete HTML page
func HTML(result verdict.ComplianceResult) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(Markdown(result)))

	renderer := html.NewRenderer(html.RendererOptions{
		Title: Title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.Render(doc, renderer)
}

func writeRoom(b *strings.Builder, room verdict.RoomResult) {
	fmt.Fprintf(b, "### %s: %s\n\n", escape(room.Room), room.Status)

	if room.UtilisationProfile != "" {
		fmt.Fprintf(b, "- Profile: %s\n", escape(room.UtilisationProfile))
	}
	if room.Standard != nil {
		ref := room.Standard.TaskOrActivity
		if room.Standard.RefNo != "" {
			ref = room.Standard.RefNo + " " + ref
		}
		if room.MatchRule != "" {
			ref += " (" + room.MatchRule + ")"
		}
		fmt.Fprintf(b, "- Standard: %s\n", escape(ref))
	}
	if room.MeasurementSource != "" {
		fmt.Fprintf(b, "- Measured from: %s\n", escape(room.MeasurementSource))
	}
	if room.Message != "" {
		fmt.Fprintf(b, "- %s\n", escape(room.Message))
	}
	b.WriteString("\n")

	if len(room.Checks) == 0 {
		return
	}

	b.WriteString("| Parameter | Required | Actual | Margin | Result | Note |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, name := range checkNames(room.Checks) {
		c := room.Checks[name]
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s |\n",
			name, number(&c.Required), number(c.Actual), number(c.Margin), outcome(c), escape(c.Note))
	}
	b.WriteString("\n")
}

func checkNames(checks map[string]verdict.ComplianceCheck) []string {
	names := make([]string, 0, len(checks))
	for _, name := range checkOrder {
		if _, ok := checks[name]; ok {
			names = append(names, name)
		}
	}
	var rest []string
	for name := range checks {
		if !contains(checkOrder, name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func outcome(c verdict.ComplianceCheck) string {
	var s string
	switch {
	case c.Compliant == nil:
		s = "not evaluated"
	case *c.Compliant:
		s = "pass"
	default:
		s = "fail"
	}
	if c.Informational {
		s += " (info)"
	}
	return s
}

func number(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(math.Round(*v*1000)/1000, 'f', -1, 64)
}

// escape keeps table cells intact
func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
