// Package source locates template bytes: either the latest release asset
// published on GitHub, or a local template checkout.
//
// The remote path is a release listing followed by a streamed asset
// download. Both requests go through an injected HTTPClient, carry an
// optional bearer token, and report failures as *errors.NetworkError.
package source
