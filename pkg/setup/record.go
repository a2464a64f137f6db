package setup

import (
	"context"

	"github.com/jamesmcaleer/cortexgo/pkg/cortex"
)

// showRecords queries records for the current subject and asks the
// operator to pick one by index, or -1 to create a new one.
func (w *Workflow) showRecords(ctx context.Context) error {
	list, err := w.api.QueryRecords(ctx, w.token,
		map[string]any{"keyword": w.subject.SubjectName},
		cortex.OrderBy{Field: "startDatetime", Direction: cortex.OrderDescending})
	if err != nil {
		if w.reportFault(err) {
			return errHalt
		}
		return err
	}

	w.con.Titlef("%d record(s) found for %s", list.Count, w.subject.SubjectName)
	for i, rec := range list.Records {
		w.con.Item(i, rec.Title)
	}

	idx, err := w.promptIndex("Select a record by its index (-1 to create a new record)", list.Count)
	if err != nil {
		return err
	}
	w.records = list
	w.recordIdx = idx
	w.record = nil
	return nil
}

// createRecord connects a headset, subscribes streams, then collects
// the record parameters. The actual submission only happens when
// Options.SubmitRecord is set; otherwise the assembled record is
// reported and left unsent.
func (w *Workflow) createRecord(ctx context.Context) error {
	if err := w.findHeadset(ctx); err != nil {
		return err
	}
	if err := w.selectStreams(ctx); err != nil {
		return err
	}

	var fields cortex.RecordFields
	w.con.Printf("Enter the following information:")
	for fields.Title == "" {
		title, err := w.con.Prompt("title (required)")
		if err != nil {
			return err
		}
		fields.Title = title
	}

	w.con.Printf("The following are NOT required, press enter to leave blank")
	subjectName, err := w.con.Prompt("subject name")
	if err != nil {
		return err
	}
	fields.SubjectName = subjectName

	description, err := w.con.Prompt("description")
	if err != nil {
		return err
	}
	fields.Description = description

	if !w.opts.SubmitRecord {
		w.con.Printf("record %q assembled but not submitted (submission is disabled)", fields.Title)
		return nil
	}

	if _, err := w.api.UpdateSession(ctx, w.token, w.sessionID, cortex.SessionActive); err != nil {
		if w.reportFault(err) {
			return errHalt
		}
		return err
	}
	rec, err := w.api.CreateRecord(ctx, w.token, w.sessionID, fields)
	if err != nil {
		if w.reportFault(err) {
			return errHalt
		}
		return err
	}
	w.con.Successf("record successfully created!")
	w.record = rec
	return nil
}

// displayRecordInfo fetches the selected record with its markers and
// renders every field in server order.
func (w *Workflow) displayRecordInfo(ctx context.Context) error {
	picked := w.records.Records[w.recordIdx]
	infos, err := w.api.GetRecordInfos(ctx, w.token, []string{picked.UUID})
	if err != nil {
		if w.reportFault(err) {
			return errHalt
		}
		return err
	}
	if len(infos) == 0 {
		w.con.Errorf("record %s not found", picked.UUID)
		return errHalt
	}
	w.record = &infos[0]

	w.con.Titlef("record information")
	w.displayEntity(w.record.Raw)
	return nil
}
