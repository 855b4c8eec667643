// Package auth provides session-based authentication for the web surface.
//
// The core repositories never see authentication: they take the userID as an
// explicit parameter. This package is the layer that produces that userID,
// by validating credentials against the users table and carrying the result
// in an scs-managed session cookie. The middleware injects the resolved
// userID into the gin context; handlers read it back with GetUserID.
package auth
