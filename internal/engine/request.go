package engine

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseRequest decodes and validates a valuation request from JSON.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// Validate checks structural constraints on the request. Comparable
// records are not validated here; malformed ones are dropped during
// normalization instead.
func (r *Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}
