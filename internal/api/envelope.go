package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/courtsideapp/courtside-go/internal/apperrors"
)

// envelope is the HATEOAS wrapper the backend puts around every collection:
//
//	{"_embedded": {"teamList": [...]}}
//
// An absent _embedded (or absent list key) is a valid empty collection, not
// an error; the backend omits it when there is nothing to return.
type envelope struct {
	Embedded map[string]json.RawMessage `json:"_embedded"`
}

// fetchCollection GETs path and unwraps the collection stored under key,
// returning a plain ordered slice. Callers never see the wire envelope.
func fetchCollection[T any](ctx context.Context, c *Client, path, key string) ([]T, error) {
	var env envelope
	if err := c.get(ctx, path, &env); err != nil {
		return nil, err
	}

	raw, ok := env.Embedded[key]
	if !ok {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrMalformedResponse, key, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}
