package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/quizpath/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes    []string
	CurrentNode     string
	IrrelevantNodes []string
}

// GenerateMermaid produces a Mermaid flowchart syntax string from an ordered question list.
// It applies semantic styling:
// - First question: ((Circle))
// - Gated by a relevance expression: {{Hexagon}}
// - Default: [/Parallelogram/]
// Edges: labelled arrows for branches, thick for the default link and
// dotted for the fall-through to the next declared question.
// It also applies overlay styles (Visited/Current/Irrelevant) if provided.
func GenerateMermaid(questions []domain.Question, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, q := range questions {
		// Sanitize ID for Mermaid
		safeID := sanitizeMermaidID(q.ID)

		opener, closer := "[/", "/]"
		switch {
		case i == 0:
			opener, closer = "((", "))"
		case q.Relevance != "":
			opener, closer = "{{", "}}"
		}

		label := escapeLabel(q.ID)
		if q.Relevance != "" {
			label = fmt.Sprintf("%s <br/> when %s", label, escapeLabel(q.Relevance))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		for _, b := range q.Branches {
			safeTo := sanitizeMermaidID(b.Target)
			arrow := "-->"
			if b.Condition != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", escapeLabel(b.Condition))
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}

		switch {
		case q.DefaultNext != "":
			sb.WriteString(fmt.Sprintf("    %s ==> %s\n", safeID, sanitizeMermaidID(q.DefaultNext)))
		case i+1 < len(questions):
			sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", safeID, sanitizeMermaidID(questions[i+1].ID)))
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef irrelevant fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4 2,color:#757575;\n")

		for _, id := range dedupe(overlay.IrrelevantNodes) {
			sb.WriteString(fmt.Sprintf("    class %s irrelevant;\n", id))
		}
		for _, id := range dedupe(overlay.VisitedNodes) {
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", id))
		}
		if overlay.CurrentNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

// dedupe sanitizes ids and drops repeats and empties, keeping order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		safeID := sanitizeMermaidID(id)
		if safeID == "" || seen[safeID] {
			continue
		}
		seen[safeID] = true
		out = append(out, safeID)
	}
	return out
}

// escapeLabel replaces double quotes, which would end a Mermaid label.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
