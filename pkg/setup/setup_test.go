package setup

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/jamesmcaleer/cortexgo/pkg/cortex"
)

// scriptConsole feeds canned answers and records every output line
// with a kind prefix so tests can assert on what was shown.
type scriptConsole struct {
	t       *testing.T
	answers []string
	lines   []string
}

func newScriptConsole(t *testing.T, answers ...string) *scriptConsole {
	return &scriptConsole{t: t, answers: answers}
}

func (c *scriptConsole) next(label string) string {
	if len(c.answers) == 0 {
		c.t.Fatalf("no scripted answer left for prompt %q", label)
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer
}

func (c *scriptConsole) Prompt(label string) (string, error) {
	return c.next(label), nil
}

func (c *scriptConsole) PromptInt(label string) (int, error) {
	n, err := strconv.Atoi(c.next(label))
	if err != nil {
		c.t.Fatalf("scripted answer for %q is not a number: %v", label, err)
	}
	return n, nil
}

func (c *scriptConsole) Printf(format string, args ...any) {
	c.lines = append(c.lines, fmt.Sprintf(format, args...))
}

func (c *scriptConsole) Successf(format string, args ...any) {
	c.lines = append(c.lines, "ok: "+fmt.Sprintf(format, args...))
}

func (c *scriptConsole) Errorf(format string, args ...any) {
	c.lines = append(c.lines, "err: "+fmt.Sprintf(format, args...))
}

func (c *scriptConsole) Titlef(format string, args ...any) {
	c.lines = append(c.lines, "title: "+fmt.Sprintf(format, args...))
}

func (c *scriptConsole) Item(index int, text string) {
	c.lines = append(c.lines, fmt.Sprintf("item %d: %s", index, text))
}

func (c *scriptConsole) Field(key, value string) {
	c.lines = append(c.lines, fmt.Sprintf("field %s: %s", key, value))
}

func (c *scriptConsole) has(substr string) bool {
	for _, line := range c.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func (c *scriptConsole) count(substr string) int {
	n := 0
	for _, line := range c.lines {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// fakeAPI satisfies API with canned fixtures and records call order.
type fakeAPI struct {
	calls []string

	username      string
	accessDenied  bool
	subjects      *cortex.SubjectList
	subjectsErr   error
	records       *cortex.RecordList
	recordsErr    error
	headsets      []cortex.Headset
	sessionErr    error
	warnErr       error
	failStreams   []cortex.Stream
	subscribed    []cortex.Stream
	createdFields *cortex.SubjectFields
	createdRecord *cortex.RecordFields
	sessionStatus string
	tokenSeq      int
}

func subjectFixture(name string) cortex.Subject {
	raw := fmt.Sprintf(`{"subjectName":%q,"sex":"M"}`, name)
	var sub cortex.Subject
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		panic(err)
	}
	return sub
}

func recordFixture(uuid, title string) cortex.Record {
	raw := fmt.Sprintf(`{"uuid":%q,"title":%q}`, uuid, title)
	var rec cortex.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		panic(err)
	}
	return rec
}

func (f *fakeAPI) record(name string) {
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) GetUserLogin(ctx context.Context) ([]cortex.UserLogin, error) {
	f.record("getUserLogin")
	if f.username == "" {
		return nil, nil
	}
	return []cortex.UserLogin{{Username: f.username, LastLoginTime: "2024-06-01T10:00:00.000Z"}}, nil
}

func (f *fakeAPI) RequestAccess(ctx context.Context) (*cortex.AccessResult, error) {
	f.record("requestAccess")
	return &cortex.AccessResult{AccessGranted: !f.accessDenied}, nil
}

func (f *fakeAPI) Authorize(ctx context.Context) (string, error) {
	f.record("authorize")
	f.tokenSeq++
	return fmt.Sprintf("tok-%d", f.tokenSeq), nil
}

func (f *fakeAPI) GenerateNewToken(ctx context.Context, token string) (string, error) {
	f.record("generateNewToken")
	f.tokenSeq++
	return fmt.Sprintf("tok-%d", f.tokenSeq), nil
}

func (f *fakeAPI) GetUserInformation(ctx context.Context, token string) (*cortex.UserInformation, error) {
	f.record("getUserInformation")
	return &cortex.UserInformation{
		Username:         f.username,
		FirstName:        "Alice",
		LastName:         "Example",
		LicenseAgreement: cortex.LicenseAgreement{Accepted: true},
	}, nil
}

func (f *fakeAPI) QuerySubjects(ctx context.Context, token string, query map[string]any, orderBy ...cortex.OrderBy) (*cortex.SubjectList, error) {
	f.record("querySubjects")
	if f.subjectsErr != nil {
		return nil, f.subjectsErr
	}
	if f.subjects == nil {
		return &cortex.SubjectList{}, nil
	}
	return f.subjects, nil
}

func (f *fakeAPI) CreateSubject(ctx context.Context, token string, fields cortex.SubjectFields) (*cortex.Subject, error) {
	f.record("createSubject")
	f.createdFields = &fields
	return &cortex.Subject{SubjectFields: fields}, nil
}

func (f *fakeAPI) QueryRecords(ctx context.Context, token string, query map[string]any, orderBy ...cortex.OrderBy) (*cortex.RecordList, error) {
	f.record("queryRecords")
	if f.recordsErr != nil {
		return nil, f.recordsErr
	}
	if f.records == nil {
		return &cortex.RecordList{}, nil
	}
	return f.records, nil
}

func (f *fakeAPI) GetRecordInfos(ctx context.Context, token string, recordIDs []string) ([]cortex.Record, error) {
	f.record("getRecordInfos")
	var out []cortex.Record
	for _, rec := range f.records.Records {
		for _, id := range recordIDs {
			if rec.UUID == id {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateRecord(ctx context.Context, token, sessionID string, fields cortex.RecordFields) (*cortex.Record, error) {
	f.record("createRecord")
	f.createdRecord = &fields
	return &cortex.Record{UUID: "rec-new", Title: fields.Title}, nil
}

func (f *fakeAPI) QueryHeadsets(ctx context.Context) ([]cortex.Headset, error) {
	f.record("queryHeadsets")
	return f.headsets, nil
}

func (f *fakeAPI) ControlDevice(ctx context.Context, command, headsetID string) (*cortex.ControlResult, error) {
	f.record("controlDevice:" + command)
	return &cortex.ControlResult{Command: command, Message: command + " command received"}, nil
}

func (f *fakeAPI) CreateSession(ctx context.Context, token, headsetID, status string) (*cortex.Session, error) {
	f.record("createSession")
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return &cortex.Session{ID: "sess-1", Status: status, Headset: headsetID}, nil
}

func (f *fakeAPI) UpdateSession(ctx context.Context, token, sessionID, status string) (*cortex.Session, error) {
	f.record("updateSession")
	f.sessionStatus = status
	return &cortex.Session{ID: sessionID, Status: status}, nil
}

func (f *fakeAPI) Subscribe(ctx context.Context, token, sessionID string, streams []cortex.Stream) (*cortex.SubscribeResult, error) {
	f.record("subscribe")
	f.subscribed = streams
	res := &cortex.SubscribeResult{}
	for _, s := range streams {
		fail := false
		for _, fs := range f.failStreams {
			if fs == s {
				fail = true
			}
		}
		if fail {
			res.Failure = append(res.Failure, cortex.StreamFailure{StreamName: s, Code: 21, Message: "stream unavailable"})
		} else {
			res.Success = append(res.Success, cortex.StreamSuccess{StreamName: s})
		}
	}
	return res, nil
}

func (f *fakeAPI) AwaitWarning(ctx context.Context, codes ...cortex.WarningCode) (*cortex.Warning, error) {
	f.record("awaitWarning")
	if f.warnErr != nil {
		return nil, f.warnErr
	}
	code := cortex.WarningCode(0)
	if len(codes) > 0 {
		code = codes[0]
	}
	msg, _ := json.Marshal(fmt.Sprintf("warning %d", code))
	return &cortex.Warning{Code: code, Message: msg}, nil
}

func (f *fakeAPI) called(name string) bool {
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}
