package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/iho/bankaccounts/internal/domain"
	"github.com/iho/bankaccounts/internal/usecase"
	"github.com/iho/bankaccounts/internal/usecase/mocks"
)

func TestProjectorUseCase_HandleMessage(t *testing.T) {
	customerRepo := mocks.NewMockCustomerRepository()
	uc := usecase.NewProjectorUseCase(customerRepo, zerolog.Nop())
	ctx := context.Background()

	payload := []byte(`{"1":"Jose Lema","2":"Marianela Montalvo"}`)
	if err := uc.HandleMessage(ctx, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := customerRepo.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Name != "Jose Lema" {
		t.Fatalf("expected Jose Lema, got %q", first.Name)
	}

	second, err := customerRepo.GetByID(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Name != "Marianela Montalvo" {
		t.Fatalf("expected Marianela Montalvo, got %q", second.Name)
	}
}

func TestProjectorUseCase_HandleMessage_LastWriteWins(t *testing.T) {
	customerRepo := mocks.NewMockCustomerRepository()
	uc := usecase.NewProjectorUseCase(customerRepo, zerolog.Nop())
	ctx := context.Background()

	if err := uc.HandleMessage(ctx, []byte(`{"1":"Jose Lema"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := uc.HandleMessage(ctx, []byte(`{"1":"Jose Lema Gonzalez"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	customer, err := customerRepo.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if customer.Name != "Jose Lema Gonzalez" {
		t.Fatalf("expected renamed customer, got %q", customer.Name)
	}
}

func TestProjectorUseCase_HandleMessage_DropsUndecodablePayload(t *testing.T) {
	customerRepo := mocks.NewMockCustomerRepository()
	uc := usecase.NewProjectorUseCase(customerRepo, zerolog.Nop())

	// a poison message is logged and acknowledged, never retried
	if err := uc.HandleMessage(context.Background(), []byte(`not-json`)); err != nil {
		t.Fatalf("expected nil error for undecodable payload, got %v", err)
	}
}

func TestProjectorUseCase_HandleMessage_SkipsUnparseableKey(t *testing.T) {
	customerRepo := mocks.NewMockCustomerRepository()
	uc := usecase.NewProjectorUseCase(customerRepo, zerolog.Nop())
	ctx := context.Background()

	payload := []byte(`{"abc":"Bad Key","2":"Marianela Montalvo"}`)
	if err := uc.HandleMessage(ctx, payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := customerRepo.GetByID(ctx, 2); err != nil {
		t.Fatalf("valid entry should have been projected: %v", err)
	}
}

func TestProjectorUseCase_HandleMessage_ReportsUpsertFailures(t *testing.T) {
	customerRepo := mocks.NewMockCustomerRepository()
	customerRepo.UpsertFunc = func(ctx context.Context, customer *domain.Customer) error {
		return errors.New("connection refused")
	}

	uc := usecase.NewProjectorUseCase(customerRepo, zerolog.Nop())

	err := uc.HandleMessage(context.Background(), []byte(`{"1":"Jose Lema"}`))
	if err == nil {
		t.Fatal("expected an error so the message is redelivered")
	}
}
