package setup

import (
	"context"
	"fmt"
)

// authorize verifies the operator's identity against the Launcher
// login, requests application access, and obtains a cortex token:
// issued fresh when none is held, rotated otherwise.
func (w *Workflow) authorize(ctx context.Context) error {
	name, err := w.con.Prompt("Enter your EMOTIV ID")
	if err != nil {
		return err
	}

	logins, err := w.api.GetUserLogin(ctx)
	if err != nil {
		if w.reportFault(err) {
			return errHalt
		}
		return err
	}
	if len(logins) == 0 || logins[0].Username != name {
		w.con.Errorf("incorrect EMOTIV ID")
		return errHalt
	}
	w.username = name
	w.con.Successf("correct EMOTIV ID")
	w.con.Field("last login", logins[0].LastLoginTime)

	access, err := w.api.RequestAccess(ctx)
	if err != nil {
		if w.reportFault(err) {
			return errHalt
		}
		return err
	}
	if !access.AccessGranted {
		w.con.Errorf("please approve this application in the EMOTIV Launcher")
		return errHalt
	}

	if w.token == "" {
		token, err := w.api.Authorize(ctx)
		if err != nil {
			if w.reportFault(err) {
				return errHalt
			}
			return err
		}
		w.token = token
	} else {
		token, err := w.api.GenerateNewToken(ctx, w.token)
		if err != nil {
			if w.reportFault(err) {
				return errHalt
			}
			return err
		}
		w.token = token
	}
	return nil
}

// displayUserInfo fetches and renders the identity of the logged-in
// user. A service fault here is reported but does not end the run; the
// step only displays.
func (w *Workflow) displayUserInfo(ctx context.Context) error {
	info, err := w.api.GetUserInformation(ctx, w.token)
	if err != nil {
		if w.reportFault(err) {
			return nil
		}
		return err
	}
	w.con.Titlef("user information")
	w.con.Field("username", info.Username)
	w.con.Field("first name", info.FirstName)
	w.con.Field("last name", info.LastName)
	w.con.Field("license agreement", fmt.Sprintf("%t", info.LicenseAgreement.Accepted))
	return nil
}
