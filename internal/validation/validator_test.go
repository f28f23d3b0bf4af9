// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package validation

import (
	"strings"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct_SKULookup(t *testing.T) {
	tests := []struct {
		name      string
		req       SKULookupRequest
		wantField string
	}{
		{"valid with color and size", SKULookupRequest{ProductID: 1, Color: "Black", Size: "M"}, ""},
		{"valid with id only", SKULookupRequest{ProductID: 7}, ""},
		{"zero product id", SKULookupRequest{}, "productId"},
		{"negative product id", SKULookupRequest{ProductID: -3}, "productId"},
		{"color too long", SKULookupRequest{ProductID: 1, Color: strings.Repeat("x", 101)}, "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			if got := verr.Fields[0].Field; got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestValidateStruct_WarmProfiles(t *testing.T) {
	tests := []struct {
		name     string
		profiles []string
		wantErr  bool
	}{
		{"nil uses defaults", nil, false},
		{"single key", []string{"category=shoes"}, false},
		{"several keys", []string{"sortBy=price&sortOrder=desc&limit=24", "isBestseller=true"}, false},
		{"empty value allowed", []string{"q="}, false},
		{"empty profile", []string{""}, true},
		{"missing equals", []string{"category"}, true},
		{"semicolon joined", []string{"a=1;b=2"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&WarmRequest{Profiles: tt.profiles})
			if (verr != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() error = %v, wantErr %v", verr, tt.wantErr)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Run("single failure", func(t *testing.T) {
		verr := ValidateStruct(&SKULookupRequest{ProductID: 0})
		if verr == nil {
			t.Fatal("expected error")
		}
		apiErr := verr.ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("code = %q", apiErr.Code)
		}
		if apiErr.Message != "productId must be greater than 0" {
			t.Errorf("message = %q", apiErr.Message)
		}
		if apiErr.Details["field"] != "productId" {
			t.Errorf("details = %v", apiErr.Details)
		}
	})

	t.Run("multiple failures", func(t *testing.T) {
		verr := ValidateStruct(&SKULookupRequest{ProductID: 0, Size: strings.Repeat("s", 51)})
		if verr == nil || len(verr.Fields) != 2 {
			t.Fatalf("expected two failures, got %v", verr)
		}
		apiErr := verr.ToAPIError()
		if _, ok := apiErr.Details["fields"]; !ok {
			t.Errorf("expected fields detail, got %v", apiErr.Details)
		}
		if !strings.Contains(apiErr.Message, "size must be at most 50 characters") {
			t.Errorf("message = %q", apiErr.Message)
		}
	})

	t.Run("empty", func(t *testing.T) {
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("message = %q", apiErr.Message)
		}
	})
}
