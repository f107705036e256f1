package policies

import "context"

// AssetsPort uploads a base64-encoded image to the external asset host
// and returns its public URL.
type AssetsPort interface {
	Upload(ctx context.Context, base64Image string) (string, error)
}
