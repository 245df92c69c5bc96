// Package common contains shared constants, sentinel errors and small helpers
// used across gophattach components.
package common

// AccessTokenHeaderName is the HTTP header carrying the console access token.
const AccessTokenHeaderName = "access_token"

// PreviewRoute is the console path prefix serving local preview bytes.
const PreviewRoute = "/blob/"
