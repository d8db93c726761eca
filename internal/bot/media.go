package bot

import "context"

// MediaStore archives an inbound media reference and returns the stored
// reference. The engine never inspects media content; references stay
// opaque.
type MediaStore interface {
	Archive(ctx context.Context, jobID int64, srcURL string) (string, error)
}

// PassthroughMedia keeps the transport-hosted reference as-is.
type PassthroughMedia struct{}

func (PassthroughMedia) Archive(_ context.Context, _ int64, srcURL string) (string, error) {
	return srcURL, nil
}
