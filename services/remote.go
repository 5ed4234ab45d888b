package services

import "context"

// RemoteAPI is the HTTP surface of the remote catalog; *libs.APIClient
// implements it.
type RemoteAPI interface {
	URL(path string) string
	GetJSON(ctx context.Context, url string, out interface{}) error
	Do(ctx context.Context, method, url string, payload interface{}) ([]byte, error)
}
