package dto

import (
	"errors"
	"strings"
	"testing"

	domainErrors "github.com/merchkit/orderflow/internal/domain/errors"
	"github.com/merchkit/orderflow/internal/domain/model"
)

func TestDecodeFilterEmptyBody(t *testing.T) {
	for _, body := range []string{"", "   ", "\n"} {
		filter, err := DecodeFilter(strings.NewReader(body))
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", body, err)
		}
		if filter.CustomerID != nil || len(filter.Statuses) != 0 || filter.Limit != 0 {
			t.Fatalf("expected empty filter for %q, got %+v", body, filter)
		}
	}
}

func TestDecodeFilterValid(t *testing.T) {
	body := `{"statuses":["PAID","SHIPPED"],"exclude_statuses":["CANCELLED"],"customer_id":7,"limit":10}`
	filter, err := DecodeFilter(strings.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filter.Statuses) != 2 || filter.Statuses[0] != model.OrderStatusPaid {
		t.Fatalf("unexpected statuses %v", filter.Statuses)
	}
	if len(filter.ExcludeStatuses) != 1 || filter.ExcludeStatuses[0] != model.OrderStatusCancelled {
		t.Fatalf("unexpected exclusions %v", filter.ExcludeStatuses)
	}
	if filter.CustomerID == nil || *filter.CustomerID != 7 {
		t.Fatalf("unexpected customer %v", filter.CustomerID)
	}
	if filter.Limit != 10 {
		t.Fatalf("unexpected limit %d", filter.Limit)
	}
}

func TestDecodeFilterRejectsUnknownField(t *testing.T) {
	_, err := DecodeFilter(strings.NewReader(`{"statuses":["PAID"],"color":"red"}`))
	if !errors.Is(err, domainErrors.ErrUnknownFilterField) {
		t.Fatalf("expected unknown filter field, got %v", err)
	}
}

func TestDecodeFilterMalformedJSON(t *testing.T) {
	_, err := DecodeFilter(strings.NewReader(`{"statuses":`))
	if err == nil {
		t.Fatal("expected a decode error")
	}
	if errors.Is(err, domainErrors.ErrUnknownFilterField) {
		t.Fatalf("malformed payloads are not unknown fields, got %v", err)
	}
}
