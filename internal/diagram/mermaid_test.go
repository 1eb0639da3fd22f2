package diagram

import (
	"strings"
	"testing"

	"threatvisor/internal/dsl"
)

func renderDef() *dsl.Definition {
	return &dsl.Definition{
		Components: []dsl.Component{
			{ID: "user", Name: "User", Kind: dsl.KindActor},
			{ID: "api", Name: `Gateway "edge"`, Kind: dsl.KindService},
			{ID: "db", Name: "DB", Kind: dsl.KindDatastore},
			{ID: "bus", Name: "Bus", Kind: "message-broker"},
		},
		DataFlows: []dsl.DataFlow{
			{From: "user", To: "api", Label: "request"},
			{From: "api", To: "db", Label: `reads "users"`},
		},
		TrustBoundaries: []dsl.TrustBoundary{
			{ID: "dmz", Label: "DMZ", Components: []string{"api"}},
		},
	}
}

func TestRender_ShapesPerKind(t *testing.T) {
	out := Render(renderDef(), Options{})
	for _, want := range []string{
		"graph TD",
		`user("User"):::actor`,
		`api["Gateway #quot;edge#quot;"]:::service`,
		`db[("DB")]:::datastore`,
		`bus("Bus")`,
		`user --"request"--> api`,
		`api --"reads #quot;users#quot;"--> db`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRender_BoundarySubgraphContainsMembersOnce(t *testing.T) {
	out := Render(renderDef(), Options{})
	if !strings.Contains(out, `subgraph dmz["DMZ"]`) {
		t.Fatalf("missing subgraph:\n%s", out)
	}
	if got := strings.Count(out, `api["Gateway`); got != 1 {
		t.Fatalf("member drawn %d times:\n%s", got, out)
	}
	// Member declaration must sit inside the subgraph block.
	sub := out[strings.Index(out, "subgraph dmz"):]
	end := strings.Index(sub, "end")
	if !strings.Contains(sub[:end], `api["Gateway`) {
		t.Fatalf("member outside its container:\n%s", out)
	}
}

func TestRender_IconsOptIn(t *testing.T) {
	plain := Render(renderDef(), Options{})
	if strings.Contains(plain, "&#128100;") {
		t.Fatal("icon emitted without opt-in")
	}
	iconed := Render(renderDef(), Options{IncludeIcons: true})
	if !strings.Contains(iconed, `user("<span>&#128100;</span><br/>User"):::actor`) {
		t.Fatalf("actor icon missing:\n%s", iconed)
	}
}

func TestRender_InteractiveClickBindings(t *testing.T) {
	out := Render(renderDef(), Options{Interactive: true, ClickCallback: "onNode"})
	if !strings.Contains(out, `click user call onNode("user")`) {
		t.Fatalf("missing click binding:\n%s", out)
	}
	static := Render(renderDef(), Options{})
	if strings.Contains(static, "click ") {
		t.Fatal("click bindings in static render")
	}
}

func TestRender_Deterministic(t *testing.T) {
	a := Render(renderDef(), Options{IncludeIcons: true, Interactive: true})
	b := Render(renderDef(), Options{IncludeIcons: true, Interactive: true})
	if a != b {
		t.Fatal("render not deterministic")
	}
}
