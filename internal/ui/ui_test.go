package ui

import (
	"reflect"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/treykane/devbox/internal/model"
)

func newTestModel(reg model.Registry) modelUI {
	m := modelUI{
		reg:         reg,
		filterInput: textinput.New(),
		initInput:   textinput.New(),
	}
	m.hosts = reg.Hosts()
	m.applyFilter()
	return m
}

func TestApplyFilterNarrowsHosts(t *testing.T) {
	reg := model.NewRegistry()
	reg.Containers["alpha"] = []string{"web"}
	reg.Containers["beta"] = []string{"db"}
	reg.Containers["alpine-box"] = nil
	m := newTestModel(reg)

	m.filterInput.SetValue("alp")
	m.applyFilter()

	want := []string{"alpha", "alpine-box"}
	if !reflect.DeepEqual(m.filtered, want) {
		t.Fatalf("filter mismatch: want %v got %v", want, m.filtered)
	}
}

func TestApplyFilterClampsSelection(t *testing.T) {
	reg := model.NewRegistry()
	reg.Containers["alpha"] = []string{"web"}
	reg.Containers["beta"] = []string{"db"}
	m := newTestModel(reg)
	m.selHost = 1

	m.filterInput.SetValue("alpha")
	m.applyFilter()

	if m.selHost != 0 {
		t.Fatalf("selection not clamped: %d", m.selHost)
	}
}

func TestSelectedContainers(t *testing.T) {
	reg := model.NewRegistry()
	reg.Containers["alpha"] = []string{"web", "db", ""}
	m := newTestModel(reg)

	got := m.selectedContainers()
	if !reflect.DeepEqual(got, []string{"web", "db", ""}) {
		t.Fatalf("unexpected containers: %q", got)
	}
}

func TestSelectedHostEmptyRegistry(t *testing.T) {
	m := newTestModel(model.NewRegistry())
	if h := m.selectedHost(); h != "" {
		t.Fatalf("expected empty selection, got %q", h)
	}
}
