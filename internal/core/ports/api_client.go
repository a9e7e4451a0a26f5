package ports

import "context"

// APIClient is the outbound gateway: the single chokepoint through which
// every call to the remote identity service passes. Implementations attach
// the stored bearer credential before transmission and normalize all
// failures into *domain.APIError. On receipt of a 401 the implementation
// clears the credential store before propagating the error.
//
// out, when non-nil, receives the decoded JSON response body.
type APIClient interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}
