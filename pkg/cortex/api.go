package cortex

import (
	"context"
	"encoding/json"
	"fmt"
)

// call issues a command and decodes the result payload into out.
func (c *Client) call(ctx context.Context, method string, params, out any) error {
	result, err := c.Call(ctx, method, params)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("cortex: %s: decode result: %w", method, err)
	}
	return nil
}

// GetUserLogin returns the users currently logged in through the
// Emotiv Launcher. It requires no token.
func (c *Client) GetUserLogin(ctx context.Context) ([]UserLogin, error) {
	var logins []UserLogin
	if err := c.call(ctx, "getUserLogin", nil, &logins); err != nil {
		return nil, err
	}
	return logins, nil
}

type credentialParams struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

func (c *Client) credentials() credentialParams {
	return credentialParams{ClientID: c.config.clientID, ClientSecret: c.config.clientSecret}
}

// RequestAccess asks the user to approve this application in the
// Emotiv Launcher. Until approval is granted AccessGranted is false.
func (c *Client) RequestAccess(ctx context.Context) (*AccessResult, error) {
	var res AccessResult
	if err := c.call(ctx, "requestAccess", c.credentials(), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Authorize issues a new cortex token for this application.
func (c *Client) Authorize(ctx context.Context) (string, error) {
	var res struct {
		CortexToken string `json:"cortexToken"`
	}
	if err := c.call(ctx, "authorize", c.credentials(), &res); err != nil {
		return "", err
	}
	return res.CortexToken, nil
}

// GenerateNewToken rotates an existing cortex token.
func (c *Client) GenerateNewToken(ctx context.Context, token string) (string, error) {
	params := struct {
		CortexToken string `json:"cortexToken"`
		credentialParams
	}{token, c.credentials()}
	var res struct {
		CortexToken string `json:"cortexToken"`
	}
	if err := c.call(ctx, "generateNewToken", params, &res); err != nil {
		return "", err
	}
	return res.CortexToken, nil
}

type tokenParams struct {
	CortexToken string `json:"cortexToken"`
}

// GetUserInformation returns identity details of the logged-in user.
func (c *Client) GetUserInformation(ctx context.Context, token string) (*UserInformation, error) {
	var info UserInformation
	if err := c.call(ctx, "getUserInformation", tokenParams{token}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

type queryParams struct {
	CortexToken string         `json:"cortexToken"`
	Query       map[string]any `json:"query"`
	OrderBy     []OrderBy      `json:"orderBy"`
}

// QuerySubjects lists subjects matching the query, sorted by the given
// clauses.
func (c *Client) QuerySubjects(ctx context.Context, token string, query map[string]any, orderBy ...OrderBy) (*SubjectList, error) {
	var list SubjectList
	if err := c.call(ctx, "querySubjects", queryParams{token, query, orderBy}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateSubject registers a new subject. Empty optional fields are not
// sent.
func (c *Client) CreateSubject(ctx context.Context, token string, fields SubjectFields) (*Subject, error) {
	params := struct {
		CortexToken string `json:"cortexToken"`
		SubjectFields
	}{token, fields}
	var sub Subject
	if err := c.call(ctx, "createSubject", params, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// QueryRecords lists records matching the query, sorted by the given
// clauses.
func (c *Client) QueryRecords(ctx context.Context, token string, query map[string]any, orderBy ...OrderBy) (*RecordList, error) {
	var list RecordList
	if err := c.call(ctx, "queryRecords", queryParams{token, query, orderBy}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetRecordInfos fetches full record details, markers included.
func (c *Client) GetRecordInfos(ctx context.Context, token string, recordIDs []string) ([]Record, error) {
	params := struct {
		CortexToken string   `json:"cortexToken"`
		RecordIDs   []string `json:"recordIds"`
	}{token, recordIDs}
	var records []Record
	if err := c.call(ctx, "getRecordInfos", params, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateRecord starts a new record on an active session.
func (c *Client) CreateRecord(ctx context.Context, token, sessionID string, fields RecordFields) (*Record, error) {
	params := struct {
		CortexToken string `json:"cortexToken"`
		Session     string `json:"session"`
		RecordFields
	}{token, sessionID, fields}
	var res struct {
		Record Record `json:"record"`
	}
	if err := c.call(ctx, "createRecord", params, &res); err != nil {
		return nil, err
	}
	return &res.Record, nil
}

// UpdateRecord changes the title or description of an existing record.
func (c *Client) UpdateRecord(ctx context.Context, token, recordID string, title, description string) (*Record, error) {
	params := struct {
		CortexToken string `json:"cortexToken"`
		Record      string `json:"record"`
		Title       string `json:"title,omitempty"`
		Description string `json:"description,omitempty"`
	}{token, recordID, title, description}
	var rec Record
	if err := c.call(ctx, "updateRecord", params, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// QueryHeadsets lists discovered headsets.
func (c *Client) QueryHeadsets(ctx context.Context) ([]Headset, error) {
	var headsets []Headset
	if err := c.call(ctx, "queryHeadsets", map[string]any{}, &headsets); err != nil {
		return nil, err
	}
	return headsets, nil
}

// ControlDevice drives device discovery and pairing. The refresh and
// connect commands acknowledge immediately; their real outcome arrives
// as a warning (WarnHeadsetScanFinished, ConnectOutcomes).
func (c *Client) ControlDevice(ctx context.Context, command, headsetID string) (*ControlResult, error) {
	params := map[string]any{"command": command}
	if headsetID != "" {
		params["headset"] = headsetID
	}
	var res ControlResult
	if err := c.call(ctx, "controlDevice", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type sessionParams struct {
	CortexToken string `json:"cortexToken"`
	Headset     string `json:"headset,omitempty"`
	Session     string `json:"session,omitempty"`
	Status      string `json:"status"`
}

// CreateSession opens a session against a connected headset. A session
// is required before stream subscription or record creation.
func (c *Client) CreateSession(ctx context.Context, token, headsetID, status string) (*Session, error) {
	var sess Session
	if err := c.call(ctx, "createSession", sessionParams{CortexToken: token, Headset: headsetID, Status: status}, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// UpdateSession changes the status of an existing session, e.g. from
// open to active before recording.
func (c *Client) UpdateSession(ctx context.Context, token, sessionID, status string) (*Session, error) {
	var sess Session
	if err := c.call(ctx, "updateSession", sessionParams{CortexToken: token, Session: sessionID, Status: status}, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

type subscribeParams struct {
	CortexToken string   `json:"cortexToken"`
	Session     string   `json:"session"`
	Streams     []Stream `json:"streams"`
}

// Subscribe subscribes the session to the given streams in one call and
// reports per-stream success and failure.
func (c *Client) Subscribe(ctx context.Context, token, sessionID string, streams []Stream) (*SubscribeResult, error) {
	var res SubscribeResult
	if err := c.call(ctx, "subscribe", subscribeParams{token, sessionID, streams}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Unsubscribe removes stream subscriptions from the session.
func (c *Client) Unsubscribe(ctx context.Context, token, sessionID string, streams []Stream) (*SubscribeResult, error) {
	var res SubscribeResult
	if err := c.call(ctx, "unsubscribe", subscribeParams{token, sessionID, streams}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
