package llm

import "context"

// Disabled stands in for the generative gateway when no API key is
// configured. The service keeps running; only generative answers fail.
type Disabled struct {
	Reason error
}

func (d Disabled) Generate(ctx context.Context, prompt string) (string, error) {
	return "", d.Reason
}
