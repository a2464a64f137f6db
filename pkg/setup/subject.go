package setup

import (
	"context"
	"encoding/json"

	"github.com/jamesmcaleer/cortexgo/pkg/cortex"
)

// showSubjects queries existing subjects and asks the operator to pick
// one by index, or -1 to create a new one. The query filter is fixed
// for this workflow: male subjects, name descending.
func (w *Workflow) showSubjects(ctx context.Context) error {
	list, err := w.api.QuerySubjects(ctx, w.token,
		map[string]any{"sex": "M"},
		cortex.OrderBy{Field: "subjectName", Direction: cortex.OrderDescending})
	if err != nil {
		if w.reportFault(err) {
			return errHalt
		}
		return err
	}

	w.con.Titlef("%d subject(s) found", list.Count)
	for i, sub := range list.Subjects {
		w.con.Item(i, sub.SubjectName)
	}

	idx, err := w.promptIndex("Select a subject by its index (-1 to create a new subject)", list.Count)
	if err != nil {
		return err
	}
	w.subjects = list
	w.subjectIdx = idx
	w.subject = nil
	return nil
}

// subjectPrompts maps each optional subject field to its prompt label,
// in asking order.
var subjectPrompts = []struct {
	label string
	field func(*cortex.SubjectFields) *string
}{
	{"date of birth (YYYY-MM-DD)", func(f *cortex.SubjectFields) *string { return &f.DateOfBirth }},
	{"sex (M, F, or U)", func(f *cortex.SubjectFields) *string { return &f.Sex }},
	{"country code (ex. US, GB, FI)", func(f *cortex.SubjectFields) *string { return &f.CountryCode }},
	{"state", func(f *cortex.SubjectFields) *string { return &f.State }},
	{"city", func(f *cortex.SubjectFields) *string { return &f.City }},
}

// createSubject collects a required name and five optional demographic
// fields, then registers the subject. Prefilled defaults skip their
// prompts.
func (w *Workflow) createSubject(ctx context.Context) error {
	var fields cortex.SubjectFields
	if w.opts.SubjectDefaults != nil {
		fields = *w.opts.SubjectDefaults
	}

	w.con.Printf("Enter the following information:")
	for fields.SubjectName == "" {
		name, err := w.con.Prompt("subject name (required)")
		if err != nil {
			return err
		}
		fields.SubjectName = name
	}

	w.con.Printf("The following are NOT required, press enter to leave blank")
	for _, p := range subjectPrompts {
		dst := p.field(&fields)
		if *dst != "" {
			continue // prefilled
		}
		val, err := w.con.Prompt(p.label)
		if err != nil {
			return err
		}
		*dst = val
	}

	sub, err := w.api.CreateSubject(ctx, w.token, fields)
	if err != nil {
		if w.reportFault(err) {
			return errHalt
		}
		return err
	}
	w.con.Successf("subject successfully created!")
	w.subject = sub
	return nil
}

// selectSubject sets the current subject from the listed collection.
// No network call is involved.
func (w *Workflow) selectSubject() {
	w.subject = &w.subjects.Subjects[w.subjectIdx]
}

// displaySubjectInfo renders every field of the current subject in the
// order the server sent them.
func (w *Workflow) displaySubjectInfo() {
	w.con.Titlef("subject information")
	raw := w.subject.Raw
	if len(raw) == 0 {
		raw, _ = json.Marshal(w.subject.SubjectFields)
	}
	w.displayEntity(raw)
}
