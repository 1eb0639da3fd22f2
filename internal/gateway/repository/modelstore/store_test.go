package modelstore

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFileBackend_PutGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.json")
	s := New(path)

	s.Put(Model{ID: "m1", Name: "Shop", DSL: "components: []\ndata_flows: []\n", UpdatedAt: time.Now()})
	got, ok := s.Get("m1")
	if !ok || got.Name != "Shop" {
		t.Fatalf("got = %+v ok = %v", got, ok)
	}

	// A fresh store must see the persisted state.
	reloaded := New(path)
	got, ok = reloaded.Get("m1")
	if !ok || got.DSL == "" {
		t.Fatalf("reload lost data: %+v ok = %v", got, ok)
	}

	if !reloaded.Delete("m1") {
		t.Fatal("delete reported false for stored model")
	}
	if _, ok := reloaded.Get("m1"); ok {
		t.Fatal("model survived delete")
	}
	if reloaded.Delete("m1") {
		t.Fatal("second delete reported true")
	}
}

func TestFileBackend_ListSortedByID(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "models.json"))
	s.Put(Model{ID: "zeta"})
	s.Put(Model{ID: "alpha"})
	s.Put(Model{ID: "mid"})

	list := s.List()
	if len(list) != 3 || list[0].ID != "alpha" || list[2].ID != "zeta" {
		t.Fatalf("list = %+v", list)
	}
}

func TestNormalizeModel_DefaultsName(t *testing.T) {
	m := normalizeModel(Model{ID: " m1 ", Name: "  "})
	if m.ID != "m1" || m.Name != "Untitled model" {
		t.Fatalf("normalized = %+v", m)
	}
}

func TestStore_EmptyIDIgnored(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "models.json"))
	s.Put(Model{ID: "  ", Name: "ghost"})
	if list := s.List(); len(list) != 0 {
		t.Fatalf("list = %+v", list)
	}
}
