package opj

import (
	"testing"
	"time"

	"github.com/yamitzky/opj-go/opj/opjtest"
)

func TestParametersAndNotes(t *testing.T) {
	data := sampleProject().
		Parameter("alpha", 1.5).
		Parameter("beta", -2).
		Note(opjtest.Note{Name: "Notes1", Label: "lab", Text: "hello\r\nworld", Created: 2451544.5}).
		Note(opjtest.Note{Name: "Notes2", Text: "second"}).
		ResultsLog("fit done").
		Bytes()
	doc, status := decode(t, data)
	expectStatus(t, doc, status, StatusSuccess)

	params := doc.Parameters()
	if len(params) != 2 || params[0] != (Parameter{"alpha", 1.5}) || params[1] != (Parameter{"beta", -2}) {
		t.Errorf("parameters = %+v", params)
	}

	notes := doc.Notes()
	if len(notes) != 2 {
		t.Fatalf("%d notes", len(notes))
	}
	n := notes[0]
	if n.Name != "Notes1" || n.Label != "lab" || n.Text != "hello\r\nworld" {
		t.Errorf("note = %q %q %q", n.Name, n.Label, n.Text)
	}
	if !n.Created.Equal(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)) || !n.Modified.IsZero() {
		t.Errorf("note times = %v %v", n.Created, n.Modified)
	}
	if n.ObjectID != 1 || notes[1].ObjectID != 2 {
		t.Errorf("note object ids = %d %d, expected 1 2", n.ObjectID, notes[1].ObjectID)
	}
	if notes[1].Label != "" || notes[1].Text != "second" {
		t.Errorf("second note = %q %q", notes[1].Label, notes[1].Text)
	}
	if doc.ResultsLog() != "fit done" {
		t.Errorf("ResultsLog() = %q", doc.ResultsLog())
	}
	if _, err := doc.NoteByName("notes2"); err != nil {
		t.Error(err)
	}
	if _, err := doc.NoteByIndex(2); err == nil {
		t.Error("NoteByIndex(2) should fail")
	}
}

func TestNoParametersOrNotes(t *testing.T) {
	doc, status := decode(t, sampleProject().Bytes())
	expectStatus(t, doc, status, StatusSuccess)
	if len(doc.Parameters()) != 0 || len(doc.Notes()) != 0 || doc.ResultsLog() != "" {
		t.Errorf("unexpected parameters %v notes %v log %q", doc.Parameters(), doc.Notes(), doc.ResultsLog())
	}
	if doc.Tree() == nil || doc.Tree().Name != "Project" {
		t.Errorf("tree = %+v", doc.Tree())
	}
}
