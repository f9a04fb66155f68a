package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/ontomask/pkg/pipeline"
)

func testAnnotations() []pipeline.Annotation {
	return []pipeline.Annotation{
		{Term: "R", Depth: 0, DescGenes: 5000},
		{Term: "A", Depth: 1, DescGenes: 120},
		{Term: "B", Depth: 1, DescGenes: 4},
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTermListNavigation(t *testing.T) {
	m := NewTermListModel(testAnnotations(), 1000, 30)

	next, _ := m.Update(keyMsg("j"))
	m = next.(TermListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d after j, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(TermListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d after k, want 0", m.Cursor)
	}

	// Cursor does not move past either end.
	next, _ = m.Update(keyMsg("k"))
	m = next.(TermListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d at top after k, want 0", m.Cursor)
	}
}

func TestTermListSelection(t *testing.T) {
	m := NewTermListModel(testAnnotations(), 1000, 30)

	next, _ := m.Update(keyMsg("j"))
	m = next.(TermListModel)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(TermListModel)

	if m.Selected == nil {
		t.Fatal("enter should select the term under the cursor")
	}
	if m.Selected.Annotation.Term != "A" {
		t.Errorf("selected %q, want A", m.Selected.Annotation.Term)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestTermListSurvives(t *testing.T) {
	m := NewTermListModel(testAnnotations(), 1000, 30)

	tests := []struct {
		term string
		want bool
	}{
		{"R", false}, // above the top threshold
		{"A", true},
		{"B", false}, // below the bottom threshold
	}
	for i, tt := range tests {
		if got := m.survives(m.Annotations[i]); got != tt.want {
			t.Errorf("survives(%s) = %v, want %v", tt.term, got, tt.want)
		}
	}
}
