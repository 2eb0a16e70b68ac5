// Package services implements the collaborators the route guard depends on.
//
// # Session Hub
//
// [SessionHub] is the auth-state stream. [SessionHub.Subscribe] delivers the current [models.Session]
// immediately and again on every [SessionHub.SignIn] or [SessionHub.SignOut]. The returned function unsubscribes.
//
// # Profiles
//
// [ProfileService] fetches or creates the [models.Profile] for a uid and records age verification.
// A date of birth at least 18 years in the past marks the profile adult.
//
// # Accounts
//
// [AccountService] registers local accounts with bcrypt password hashes, checks credentials,
// and provisions accounts for OAuth sign-ins.
//
// # Binding
//
// [Bind] wires a hub to a [SessionSink] such as guard.Guard: each session change is forwarded, the sink is marked
// loading while the profile is fetched, and a failed fetch is logged and reported without retrying.
//
// # Error Handling
//
// Services wrap errors from the shared package:
//   - [shared.ErrProfileFetch] : profile could not be loaded or created
//   - [shared.ErrInvalidCredentials] : unknown email or wrong password
//   - [shared.ErrInvalidDateOfBirth] : unparseable or future date of birth
package services
