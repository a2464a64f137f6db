package setup

import (
	"context"
	"errors"

	"github.com/jamesmcaleer/cortexgo/pkg/cortex"
)

// findHeadset refreshes device discovery, waits for the scan to finish,
// connects the first discovered headset, waits for the connect outcome,
// and opens a session against it.
func (w *Workflow) findHeadset(ctx context.Context) error {
	res, err := w.api.ControlDevice(ctx, cortex.ControlRefresh, "")
	if err != nil {
		if w.reportFault(err) {
			return errHalt
		}
		return err
	}
	w.con.Printf("%s", res.Message)

	warn, err := w.api.AwaitWarning(ctx, cortex.WarnHeadsetScanFinished)
	if err != nil {
		return w.reportWarningErr(err, "headset scan")
	}
	w.con.Printf("%s", warn.Text())

	headsets, err := w.api.QueryHeadsets(ctx)
	if err != nil {
		if w.reportFault(err) {
			return errHalt
		}
		return err
	}
	if len(headsets) == 0 {
		w.con.Errorf("no headsets found")
		return errHalt
	}
	w.con.Successf("headset(s) found!")
	for _, hs := range headsets {
		w.con.Printf("- %s", hs.ID)
	}
	w.headset = &headsets[0]

	res, err = w.api.ControlDevice(ctx, cortex.ControlConnect, w.headset.ID)
	if err != nil {
		if w.reportFault(err) {
			return errHalt
		}
		return err
	}
	w.con.Printf("%s", res.Message)

	warn, err = w.api.AwaitWarning(ctx, cortex.ConnectOutcomes...)
	if err != nil {
		return w.reportWarningErr(err, "headset connection")
	}
	w.con.Successf("%s", warn.Text())

	sess, err := w.api.CreateSession(ctx, w.token, w.headset.ID, cortex.SessionOpen)
	if err != nil {
		if w.reportFault(err) {
			return errHalt
		}
		return err
	}
	w.sessionID = sess.ID
	return nil
}

// reportWarningErr turns a warning-wait failure into a console message
// and a clean halt; anything else propagates.
func (w *Workflow) reportWarningErr(err error, what string) error {
	if errors.Is(err, cortex.ErrWarningTimeout) {
		w.con.Errorf("timed out waiting for %s", what)
		return errHalt
	}
	return err
}
