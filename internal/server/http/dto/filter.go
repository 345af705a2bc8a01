package dto

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
)

// OrderFilterRequest is the closed set of query predicates. Anything else in
// the payload is rejected, never passed through to storage.
type OrderFilterRequest struct {
	Statuses        []string   `json:"statuses"`
	ExcludeStatuses []string   `json:"exclude_statuses"`
	CustomerID      *int64     `json:"customer_id"`
	CreatedFrom     *time.Time `json:"created_from"`
	CreatedTo       *time.Time `json:"created_to"`
	Limit           int        `json:"limit"`
}

// DecodeFilter parses a filter payload strictly: unknown predicate fields
// yield ErrUnknownFilterField. An empty body is an empty filter.
func DecodeFilter(r io.Reader) (model.OrderFilter, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return model.OrderFilter{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return model.OrderFilter{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	var req OrderFilterRequest
	if err := dec.Decode(&req); err != nil {
		// json reports rejected fields as a plain error.
		if strings.Contains(err.Error(), "unknown field") {
			return model.OrderFilter{}, domainErrors.ErrUnknownFilterField
		}
		return model.OrderFilter{}, err
	}

	filter := model.OrderFilter{
		CustomerID:  req.CustomerID,
		CreatedFrom: req.CreatedFrom,
		CreatedTo:   req.CreatedTo,
		Limit:       req.Limit,
	}
	for _, s := range req.Statuses {
		filter.Statuses = append(filter.Statuses, model.OrderStatus(s))
	}
	for _, s := range req.ExcludeStatuses {
		filter.ExcludeStatuses = append(filter.ExcludeStatuses, model.OrderStatus(s))
	}
	return filter, nil
}
