package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "sparkletidy/internal/errors"
	"sparkletidy/internal/middleware"
	"sparkletidy/internal/services"
)

// --- mock generator service ---

type mockMockService struct {
	generateFn func(count int, contractorIDs []string) (int, error)
}

func (m *mockMockService) GenerateMockTransactions(_ context.Context, count int, contractorIDs []string) (int, error) {
	if m.generateFn != nil {
		return m.generateFn(count, contractorIDs)
	}
	return count, nil
}

var _ services.MockServicer = (*mockMockService)(nil)

func setupMockRouter(handler *MockHandler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	auth := r.Group("", injectActor(testActor))
	auth.POST("/generate-mock-transactions", handler.GenerateMockTransactions)
	return r
}

func TestMockHandler_GenerateMockTransactions(t *testing.T) {
	t.Run("returns 201 with the created count", func(t *testing.T) {
		var gotContractors []string
		mockSvc := &mockMockService{
			generateFn: func(count int, contractorIDs []string) (int, error) {
				gotContractors = contractorIDs
				return count, nil
			},
		}
		audit := &mockAuditService{}
		r := setupMockRouter(NewMockHandler(mockSvc, audit))

		rec := doRequest(r, "POST", "/generate-mock-transactions", `{"count":25,"contractor_ids":["c-1","c-2"]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["count"] != float64(25) {
			t.Errorf("expected count 25, got %s", rec.Body.String())
		}
		if len(gotContractors) != 2 {
			t.Errorf("expected 2 contractor ids, got %v", gotContractors)
		}
		if entry := audit.last(t); entry.action != "GENERATE_MOCK_TRANSACTIONS" {
			t.Errorf("unexpected audit action %q", entry.action)
		}
	})

	for _, body := range []string{`{}`, `{"count":0}`, `{"count":501}`, `{"count":5,"contractor_ids":[""]}`} {
		t.Run("returns 400 for "+body, func(t *testing.T) {
			r := setupMockRouter(NewMockHandler(&mockMockService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/generate-mock-transactions", body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 503 when the store fails", func(t *testing.T) {
		mockSvc := &mockMockService{
			generateFn: func(int, []string) (int, error) {
				return 0, apperrors.Wrap(apperrors.ErrStoreUnavailable, errors.New("disk full"))
			},
		}
		r := setupMockRouter(NewMockHandler(mockSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/generate-mock-transactions", `{"count":3}`)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}
