package square

import (
	"context"
	"net/http"
	"testing"

	"github.com/thanhngvn/foodcourt-backend/pkg/config"
	pkgerrors "github.com/thanhngvn/foodcourt-backend/pkg/errors"
	"github.com/thanhngvn/foodcourt-backend/pkg/logger"
)

func TestNormalizeEnv(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"", sandboxEnv, false},
		{"SANDBOX", sandboxEnv, false},
		{" production ", productionEnv, false},
		{"staging", "", true},
	}

	for _, tc := range tests {
		got, err := normalizeEnv(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("normalizeEnv(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("normalizeEnv(%q): %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("normalizeEnv(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNewClientValidation(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test"})

	if _, err := NewClient(context.Background(), config.SquareConfig{}, nil); err != errLoggerRequired {
		t.Errorf("expected logger error, got %v", err)
	}
	if _, err := NewClient(context.Background(), config.SquareConfig{Env: "sandbox"}, logg); err != errAccessTokenRequired {
		t.Errorf("expected token error, got %v", err)
	}
	if _, err := NewClient(context.Background(), config.SquareConfig{Env: "sandbox", AccessToken: "tok"}, logg); err != errLocationRequired {
		t.Errorf("expected location error, got %v", err)
	}
	if _, err := NewClient(context.Background(), config.SquareConfig{Env: "qa", AccessToken: "tok", LocationID: "loc"}, logg); err != errInvalidSquareEnv {
		t.Errorf("expected env error, got %v", err)
	}
}

func TestDomainCodeForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   pkgerrors.Code
	}{
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusConflict, pkgerrors.CodeConflict},
		{http.StatusTeapot, pkgerrors.CodeValidation},
		{http.StatusBadGateway, pkgerrors.CodeDependency},
	}
	for _, tc := range tests {
		if got := domainCodeForStatus(tc.status); got != tc.want {
			t.Errorf("status %d: got %s, want %s", tc.status, got, tc.want)
		}
	}
}

func TestCreatePaymentLinkRejectsNonPositiveAmount(t *testing.T) {
	c := &Client{}
	_, err := c.CreatePaymentLink(context.Background(), PaymentLinkParams{Amount: 0})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
