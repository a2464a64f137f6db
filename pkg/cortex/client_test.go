package cortex_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jamesmcaleer/cortexgo/pkg/cortex"
	"github.com/jamesmcaleer/cortexgo/pkg/cortex/cortextest"
)

func newTestClient(t *testing.T, cfg cortextest.Config, opts ...cortex.Option) (*cortex.Client, *cortextest.Server) {
	t.Helper()
	srv := cortextest.NewServer(cfg)
	t.Cleanup(srv.Close)

	opts = append([]cortex.Option{cortex.WithURL(srv.URL())}, opts...)
	client := cortex.New("client-id", "client-secret", opts...)
	if err := client.Dial(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })
	return client, srv
}

func TestCallCorrelatesOutOfOrderResponses(t *testing.T) {
	client, _ := newTestClient(t, cortextest.Config{
		Username: "alice",
		Delays:   map[string]time.Duration{"getUserLogin": 150 * time.Millisecond},
	})
	ctx := context.Background()

	type loginResult struct {
		logins []cortex.UserLogin
		err    error
	}
	loginCh := make(chan loginResult, 1)
	go func() {
		logins, err := client.GetUserLogin(ctx)
		loginCh <- loginResult{logins, err}
	}()

	// The access response arrives while getUserLogin is still pending;
	// each call must still get its own reply.
	access, err := client.RequestAccess(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !access.AccessGranted {
		t.Fatal("expected access granted")
	}

	res := <-loginCh
	if res.err != nil {
		t.Fatal(res.err)
	}
	if len(res.logins) != 1 || res.logins[0].Username != "alice" {
		t.Fatalf("unexpected logins: %+v", res.logins)
	}
}

func TestCallReturnsServiceFault(t *testing.T) {
	client, _ := newTestClient(t, cortextest.Config{
		Errors: map[string]*cortex.Error{
			"querySubjects": {Code: 5, Message: "no access"},
		},
	})

	_, err := client.QuerySubjects(context.Background(), "tok", map[string]any{"sex": "M"})
	apiErr, ok := cortex.AsError(err)
	if !ok {
		t.Fatalf("expected *cortex.Error, got %v", err)
	}
	if apiErr.Code != 5 || apiErr.Message != "no access" {
		t.Fatalf("unexpected fault: %+v", apiErr)
	}
}

func TestCallTimesOutWhenServiceHangs(t *testing.T) {
	client, _ := newTestClient(t, cortextest.Config{
		Hang: map[string]bool{"getUserLogin": true},
	}, cortex.WithTimeout(100*time.Millisecond))

	_, err := client.GetUserLogin(context.Background())
	if !errors.Is(err, cortex.ErrCallTimeout) {
		t.Fatalf("expected ErrCallTimeout, got %v", err)
	}
}

func TestCallHonorsContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, cortextest.Config{
		Hang: map[string]bool{"getUserLogin": true},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.GetUserLogin(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline, got %v", err)
	}
}

func TestCallBeforeDial(t *testing.T) {
	client := cortex.New("id", "secret")
	_, err := client.GetUserLogin(context.Background())
	if !errors.Is(err, cortex.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestAwaitWarningAfterRefresh(t *testing.T) {
	client, _ := newTestClient(t, cortextest.Config{HeadsetIDs: []string{"EPOCX-1234"}})
	ctx := context.Background()

	if _, err := client.ControlDevice(ctx, cortex.ControlRefresh, ""); err != nil {
		t.Fatal(err)
	}
	warn, err := client.AwaitWarning(ctx, cortex.WarnHeadsetScanFinished)
	if err != nil {
		t.Fatal(err)
	}
	if warn.Code != cortex.WarnHeadsetScanFinished {
		t.Fatalf("unexpected warning: %+v", warn)
	}
	if warn.Text() != "headset scan finished" {
		t.Fatalf("unexpected warning text: %q", warn.Text())
	}
}

func TestAwaitWarningSkipsUnrelatedCodes(t *testing.T) {
	client, _ := newTestClient(t, cortextest.Config{
		HeadsetIDs:      []string{"EPOCX-1234"},
		PreScanWarnings: []cortex.WarningCode{1, 9},
	})
	ctx := context.Background()

	if _, err := client.ControlDevice(ctx, cortex.ControlRefresh, ""); err != nil {
		t.Fatal(err)
	}
	warn, err := client.AwaitWarning(ctx, cortex.WarnHeadsetScanFinished)
	if err != nil {
		t.Fatal(err)
	}
	if warn.Code != cortex.WarnHeadsetScanFinished {
		t.Fatalf("expected scan-finished after unrelated warnings, got %d", warn.Code)
	}
}

func TestAwaitWarningConnectOutcomes(t *testing.T) {
	for _, outcome := range cortex.ConnectOutcomes {
		client, _ := newTestClient(t, cortextest.Config{
			HeadsetIDs:     []string{"EPOCX-1234"},
			ConnectOutcome: outcome,
		})
		ctx := context.Background()

		if _, err := client.ControlDevice(ctx, cortex.ControlConnect, "EPOCX-1234"); err != nil {
			t.Fatal(err)
		}
		warn, err := client.AwaitWarning(ctx, cortex.ConnectOutcomes...)
		if err != nil {
			t.Fatal(err)
		}
		if warn.Code != outcome {
			t.Fatalf("expected outcome %d, got %d", outcome, warn.Code)
		}
	}
}

func TestAwaitWarningTimesOut(t *testing.T) {
	client, _ := newTestClient(t, cortextest.Config{
		HeadsetIDs:   []string{"EPOCX-1234"},
		SilentDevice: true,
	}, cortex.WithTimeout(100*time.Millisecond))
	ctx := context.Background()

	if _, err := client.ControlDevice(ctx, cortex.ControlRefresh, ""); err != nil {
		t.Fatal(err)
	}
	_, err := client.AwaitWarning(ctx, cortex.WarnHeadsetScanFinished)
	if !errors.Is(err, cortex.ErrWarningTimeout) {
		t.Fatalf("expected ErrWarningTimeout, got %v", err)
	}
}

func TestSubjectRawPreservesServerObject(t *testing.T) {
	raw := `{"subjectName":"zoe","sex":"M","countryCode":"US"}`
	client, _ := newTestClient(t, cortextest.Config{
		Subjects: []json.RawMessage{json.RawMessage(raw)},
	})

	list, err := client.QuerySubjects(context.Background(), "tok",
		map[string]any{"sex": "M"}, cortex.OrderBy{Field: "subjectName", Direction: cortex.OrderDescending})
	if err != nil {
		t.Fatal(err)
	}
	if list.Count != 1 || len(list.Subjects) != 1 {
		t.Fatalf("unexpected list: %+v", list)
	}
	sub := list.Subjects[0]
	if sub.SubjectName != "zoe" {
		t.Fatalf("unexpected subject: %+v", sub)
	}
	if string(sub.Raw) != raw {
		t.Fatalf("raw payload not preserved: %s", sub.Raw)
	}
}
