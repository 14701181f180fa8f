package enhance

import "context"

type enhancer interface {
	Ready() bool
	Enhance(ctx context.Context, imageURL string) ([]byte, error)
}
