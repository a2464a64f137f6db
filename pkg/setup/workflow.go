// Package setup implements the interactive Cortex session-establishment
// workflow: identity check, access authorization, token issuance,
// subject and record management, headset discovery and connection,
// session creation and stream subscription.
//
// The workflow is a fixed sequence of steps with two optional branches
// (create-or-select subject, create-or-display record). All state is
// held by the Workflow for a single run; nothing persists.
package setup

import (
	"context"
	"errors"

	"github.com/jamesmcaleer/cortexgo/pkg/cortex"
)

// API is the slice of the Cortex client the workflow consumes. It is
// satisfied by *cortex.Client and faked in tests.
type API interface {
	GetUserLogin(ctx context.Context) ([]cortex.UserLogin, error)
	RequestAccess(ctx context.Context) (*cortex.AccessResult, error)
	Authorize(ctx context.Context) (string, error)
	GenerateNewToken(ctx context.Context, token string) (string, error)
	GetUserInformation(ctx context.Context, token string) (*cortex.UserInformation, error)
	QuerySubjects(ctx context.Context, token string, query map[string]any, orderBy ...cortex.OrderBy) (*cortex.SubjectList, error)
	CreateSubject(ctx context.Context, token string, fields cortex.SubjectFields) (*cortex.Subject, error)
	QueryRecords(ctx context.Context, token string, query map[string]any, orderBy ...cortex.OrderBy) (*cortex.RecordList, error)
	GetRecordInfos(ctx context.Context, token string, recordIDs []string) ([]cortex.Record, error)
	CreateRecord(ctx context.Context, token, sessionID string, fields cortex.RecordFields) (*cortex.Record, error)
	QueryHeadsets(ctx context.Context) ([]cortex.Headset, error)
	ControlDevice(ctx context.Context, command, headsetID string) (*cortex.ControlResult, error)
	CreateSession(ctx context.Context, token, headsetID, status string) (*cortex.Session, error)
	UpdateSession(ctx context.Context, token, sessionID, status string) (*cortex.Session, error)
	Subscribe(ctx context.Context, token, sessionID string, streams []cortex.Stream) (*cortex.SubscribeResult, error)
	AwaitWarning(ctx context.Context, codes ...cortex.WarningCode) (*cortex.Warning, error)
}

var _ API = (*cortex.Client)(nil)

// Options tune a workflow run.
type Options struct {
	// SubmitRecord enables the final createRecord submission. When
	// false (the default) the record parameters are collected and
	// validated but nothing is written server-side.
	SubmitRecord bool

	// SubjectDefaults prefill answers for subject creation; prompts
	// are skipped for non-empty fields.
	SubjectDefaults *cortex.SubjectFields
}

// Workflow drives one session-establishment run. Create with New, run
// once with Run; the struct is not reusable across runs.
type Workflow struct {
	api  API
	con  Console
	opts Options

	// session-scoped state, mutated as steps complete
	token      string
	username   string
	subjects   *cortex.SubjectList
	subjectIdx int
	subject    *cortex.Subject
	records    *cortex.RecordList
	recordIdx  int
	record     *cortex.Record
	headset    *cortex.Headset
	sessionID  string
	streams    []cortex.Stream
}

// New creates a workflow over the given API and console.
func New(api API, con Console, opts Options) *Workflow {
	return &Workflow{api: api, con: con, opts: opts}
}

// errHalt ends the workflow early without a process fault: identity
// mismatch, denied access, or a reported service error at a hard
// dependency. Run converts it to a clean nil return.
var errHalt = errors.New("setup: workflow halted")

// Run executes the whole sequence. It returns an error only for
// transport or I/O faults; workflow-level failures are reported on the
// console and end the run cleanly.
func (w *Workflow) Run(ctx context.Context) error {
	err := w.run(ctx)
	if errors.Is(err, errHalt) {
		return nil
	}
	return err
}

func (w *Workflow) run(ctx context.Context) error {
	if err := w.authorize(ctx); err != nil {
		return err
	}
	if err := w.displayUserInfo(ctx); err != nil {
		return err
	}

	if err := w.showSubjects(ctx); err != nil {
		return err
	}
	if w.subjectIdx == -1 {
		if err := w.createSubject(ctx); err != nil {
			return err
		}
	} else {
		w.selectSubject()
	}
	w.displaySubjectInfo()

	if err := w.showRecords(ctx); err != nil {
		return err
	}
	if w.recordIdx == -1 {
		if err := w.createRecord(ctx); err != nil {
			return err
		}
	} else {
		if err := w.displayRecordInfo(ctx); err != nil {
			return err
		}
	}
	return nil
}

// reportFault prints a structured service fault (code + message, the
// way Cortex shapes them) and reports whether err was one.
func (w *Workflow) reportFault(err error) bool {
	apiErr, ok := cortex.AsError(err)
	if !ok {
		return false
	}
	w.con.Errorf("%d", apiErr.Code)
	w.con.Errorf("%s", apiErr.Message)
	return true
}

// promptIndex asks for a list index and re-asks until the answer is -1
// or within [0, count).
func (w *Workflow) promptIndex(label string, count int) (int, error) {
	for {
		idx, err := w.con.PromptInt(label)
		if err != nil {
			return 0, err
		}
		if idx == -1 || (idx >= 0 && idx < count) {
			return idx, nil
		}
		w.con.Errorf("index out of range")
	}
}
