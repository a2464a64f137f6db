package cortex

import "encoding/json"

// UserLogin is one entry of the getUserLogin result.
type UserLogin struct {
	Username      string `json:"username"`
	LoginTime     string `json:"loginTime,omitempty"`
	LastLoginTime string `json:"lastLoginTime,omitempty"`
}

// AccessResult is the outcome of requestAccess.
type AccessResult struct {
	AccessGranted bool   `json:"accessGranted"`
	Message       string `json:"message,omitempty"`
}

// LicenseAgreement is the license acceptance block of user information.
type LicenseAgreement struct {
	Accepted bool `json:"accepted"`
}

// UserInformation describes the logged-in Emotiv user.
type UserInformation struct {
	Username         string           `json:"username"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	LicenseAgreement LicenseAgreement `json:"licenseAgreement"`

	// Raw is the undecoded server object, field order intact.
	Raw json.RawMessage `json:"-"`
}

func (u *UserInformation) UnmarshalJSON(b []byte) error {
	type plain UserInformation
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*u = UserInformation(p)
	u.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// SubjectFields are the caller-supplied attributes of a subject.
// Only SubjectName is required; empty optional fields are omitted from
// the request.
type SubjectFields struct {
	SubjectName string `json:"subjectName"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Sex         string `json:"sex,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	State       string `json:"state,omitempty"`
	City        string `json:"city,omitempty"`
}

// Subject is a test participant known to Cortex.
type Subject struct {
	SubjectFields

	// Raw is the undecoded server object, field order intact.
	Raw json.RawMessage `json:"-"`
}

func (s *Subject) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &s.SubjectFields); err != nil {
		return err
	}
	s.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// SubjectList is the result of querySubjects.
type SubjectList struct {
	Subjects []Subject `json:"subjects"`
	Count    int       `json:"count"`
}

// RecordFields are the caller-supplied attributes of a record.
type RecordFields struct {
	Title       string `json:"title"`
	SubjectName string `json:"subjectName,omitempty"`
	Description string `json:"description,omitempty"`
}

// Record is a data-collection artifact tied to a subject and session.
type Record struct {
	UUID          string `json:"uuid"`
	Title         string `json:"title,omitempty"`
	SubjectName   string `json:"subjectName,omitempty"`
	StartDatetime string `json:"startDatetime,omitempty"`

	// Raw is the undecoded server object, field order intact.
	Raw json.RawMessage `json:"-"`
}

func (r *Record) UnmarshalJSON(b []byte) error {
	type plain Record
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Record(p)
	r.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// RecordList is the result of queryRecords.
type RecordList struct {
	Records []Record `json:"records"`
	Count   int      `json:"count"`
}

// Headset is a discovered EEG device.
type Headset struct {
	ID          string `json:"id"`
	Status      string `json:"status,omitempty"`
	ConnectedBy string `json:"connectedBy,omitempty"`
	Firmware    string `json:"firmware,omitempty"`
}

// ControlResult is the acknowledgement of a controlDevice command. The
// actual outcome arrives later as a warning.
type ControlResult struct {
	Command string `json:"command"`
	Message string `json:"message,omitempty"`
}

// Session is a server-side context tying a connected headset to
// subsequent data operations.
type Session struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Headset string `json:"headset,omitempty"`
	Started string `json:"started,omitempty"`
}

// StreamSuccess reports one stream the service accepted.
type StreamSuccess struct {
	StreamName Stream          `json:"streamName"`
	Cols       json.RawMessage `json:"cols,omitempty"`
}

// StreamFailure reports one stream the service rejected.
type StreamFailure struct {
	StreamName Stream `json:"streamName"`
	Code       int    `json:"code,omitempty"`
	Message    string `json:"message,omitempty"`
}

// SubscribeResult is the per-stream outcome of subscribe/unsubscribe.
type SubscribeResult struct {
	Success []StreamSuccess `json:"success"`
	Failure []StreamFailure `json:"failure"`
}

// OrderBy is a single sort clause of a query, serialized the way
// Cortex expects: {"field": "DESC"}.
type OrderBy struct {
	Field     string
	Direction string
}

func (o OrderBy) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{o.Field: o.Direction})
}
