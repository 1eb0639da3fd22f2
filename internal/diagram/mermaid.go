// Package diagram renders a definition as Mermaid flowchart markup. The
// markup is an export surface: the live editor works on the projected
// graph model, not on this text.
package diagram

import (
	"fmt"
	"strings"

	"threatvisor/internal/dsl"
)

// Options controls markup generation.
type Options struct {
	// IncludeIcons adds the per-kind icon glyph to node labels.
	IncludeIcons bool
	// Interactive appends click bindings for every component node. The
	// bound callback name is scoped to the embedding diagram instance;
	// the embedder routes it into its session's event emitter.
	Interactive bool
	// ClickCallback is the callback identifier used for Interactive
	// bindings. Empty selects "nodeClick".
	ClickCallback string
}

const classDefs = `    classDef actor fill:#3F51B5,stroke:#fff,stroke-width:2px,color:#fff;
    classDef service fill:#212836,stroke:#009688,stroke-width:2px,color:#fff;
    classDef datastore fill:#4a148c,stroke:#009688,stroke-width:2px,color:#fff;
`

// Render produces `graph TD` markup: one subgraph per trust boundary with
// its member nodes declared inside it, free components after, then all
// data flows. A component listed in several boundaries is drawn in the
// first one only.
func Render(def *dsl.Definition, opts Options) string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	b.WriteString(classDefs)

	drawn := make(map[string]bool, len(def.Components))
	for _, boundary := range def.TrustBoundaries {
		fmt.Fprintf(&b, "    subgraph %s[\"%s\"]\n", boundary.ID, escape(boundary.Label))
		b.WriteString("        direction TB\n")
		for _, memberID := range boundary.Components {
			c, ok := def.ComponentByID(memberID)
			if !ok || drawn[memberID] {
				continue
			}
			b.WriteString("        " + nodeDefinition(c, opts.IncludeIcons) + "\n")
			drawn[memberID] = true
		}
		b.WriteString("    end\n")
	}

	for _, c := range def.Components {
		if drawn[c.ID] {
			continue
		}
		b.WriteString("    " + nodeDefinition(c, opts.IncludeIcons) + "\n")
	}

	b.WriteString("\n")
	for _, flow := range def.DataFlows {
		fmt.Fprintf(&b, "    %s --\"%s\"--> %s\n", flow.From, escape(flow.Label), flow.To)
	}

	if opts.Interactive {
		callback := opts.ClickCallback
		if callback == "" {
			callback = "nodeClick"
		}
		for _, c := range def.Components {
			fmt.Fprintf(&b, "    click %s call %s(\"%s\") \"Click to see details\"\n", c.ID, callback, c.ID)
		}
	}
	return b.String()
}

func nodeDefinition(c dsl.Component, icons bool) string {
	label := escape(c.Name)
	switch c.Kind.Class() {
	case dsl.KindActor:
		if icons {
			label = "<span>&#128100;</span><br/>" + label
		}
		return fmt.Sprintf("%s(\"%s\"):::actor", c.ID, label)
	case dsl.KindService:
		return fmt.Sprintf("%s[\"%s\"]:::service", c.ID, label)
	case dsl.KindDatastore:
		return fmt.Sprintf("%s[(\"%s\")]:::datastore", c.ID, label)
	default:
		// Unknown kinds render with the neutral default shape.
		return fmt.Sprintf("%s(\"%s\")", c.ID, label)
	}
}

// escape neutralizes the two characters Mermaid cannot take inside a
// quoted label.
func escape(s string) string {
	s = strings.ReplaceAll(s, `"`, "#quot;")
	s = strings.ReplaceAll(s, "'", "`")
	return s
}
