package setup

import (
	"context"
	"fmt"
	"strings"

	"github.com/jamesmcaleer/cortexgo/pkg/cortex"
)

// selectStreams presents the seven stream tags, collects indices until
// a value outside [0, 6] is entered, rejects duplicates without ending
// input, and submits a single subscribe call for the collected tags in
// insertion order.
func (w *Workflow) selectStreams(ctx context.Context) error {
	w.con.Titlef("available streams")
	for i, stream := range cortex.Streams {
		w.con.Item(i, string(stream))
	}

	seen := make(map[int]bool)
	var streams []cortex.Stream
	for {
		idx, err := w.con.PromptInt("pick a stream from the available streams (-1 to finish picking)")
		if err != nil {
			return err
		}
		// Anything outside the menu ends input, not just -1.
		if idx < 0 || idx >= len(cortex.Streams) {
			break
		}
		if seen[idx] {
			w.con.Errorf("stream already entered")
			continue
		}
		seen[idx] = true
		streams = append(streams, cortex.Streams[idx])
		w.con.Successf("stream added!")
	}
	w.streams = streams
	w.con.Printf("streams: %s", streamNames(streams))

	result, err := w.api.Subscribe(ctx, w.token, w.sessionID, streams)
	if err != nil {
		if w.reportFault(err) {
			return errHalt
		}
		return err
	}

	var ok, bad []cortex.Stream
	for _, s := range result.Success {
		ok = append(ok, s.StreamName)
	}
	for _, f := range result.Failure {
		bad = append(bad, f.StreamName)
	}
	w.con.Successf("success: %s", streamNames(ok))
	w.con.Errorf("failure: %s", streamNames(bad))
	return nil
}

func streamNames(streams []cortex.Stream) string {
	names := make([]string, len(streams))
	for i, s := range streams {
		names[i] = string(s)
	}
	return fmt.Sprintf("[%s]", strings.Join(names, ", "))
}
