package analysis

import (
	"fmt"
	"strings"

	"sceneguard/internal/model"
)

// FormatReport renders a report as the console text shown by the CLI.
func FormatReport(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Camera %s, %d frames analyzed", report.Camera, report.FramesAnalyzed)
	if report.FramesFailed > 0 {
		fmt.Fprintf(&b, " (%d failed)", report.FramesFailed)
	}
	b.WriteString("\n\n--- Objects Confirmation Status ---\n")
	for _, c := range report.Candidates {
		status := "DISCARDED (Transient/Noise)"
		if c.Confirmed {
			status = "CONFIRMED"
		}
		fmt.Fprintf(&b, "Object '%s': Seen in %d/%d frames -> %s\n", c.Class, c.FramesSeen, report.FramesAnalyzed, status)
	}

	b.WriteString("\nConfirmed objects:\n")
	for _, obj := range report.Objects {
		fmt.Fprintf(&b, "• %s (Stability: %d/%d frames)\n", obj.DisplayName, obj.FramesSeen, report.FramesAnalyzed)
	}

	b.WriteString("\nSpatial relationships:\n")
	for _, rel := range report.Relations {
		b.WriteString("- " + DescribeRelation(report.Objects, rel) + "\n")
	}

	b.WriteString("\nRisk analysis:\n")
	findings := report.Findings()
	if len(findings) == 0 {
		b.WriteString("✅ No immediate risks detected.\n")
	}
	for _, rel := range findings {
		fmt.Fprintf(&b, "⚠️  %s:\n", strings.ToUpper(strings.ReplaceAll(string(rel.Finding.Type), "_", " ")))
		for _, line := range rel.Explanation {
			b.WriteString("    " + line + "\n")
		}
	}

	return b.String()
}

// DescribeRelation renders one relation as a sentence using display names.
func DescribeRelation(objects []model.ConfirmedObject, rel model.Relation) string {
	a, b := objects[rel.A], objects[rel.B]

	proximity := "near"
	if rel.Proximity == model.Far {
		proximity = "far from"
	}
	side := "left of"
	if rel.Horizontal == model.RightOf {
		side = "right of"
	}

	sentence := fmt.Sprintf("%s is %s %s (%.1fpx), %s it", a.DisplayName, proximity, b.DisplayName, rel.Distance, side)
	if rel.Overlap {
		sentence += ", overlapping"
	}
	return sentence
}
