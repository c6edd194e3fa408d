package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserversBeforeInit(t *testing.T) {
	// Must not panic while the instruments are nil.
	ObserveStoreOperation("create", nil, time.Millisecond)
	ObserveReportExport("", errors.New("boom"), time.Millisecond)
	AddMockTransactions(3)
}

func TestInitAndObserve(t *testing.T) {
	Init()
	Init()
	m := active.Load()
	if m == nil {
		t.Fatal("expected instruments after Init")
	}

	before := testutil.ToFloat64(m.storeOperations.WithLabelValues("create", resultError))
	ObserveStoreOperation("create", errors.New("boom"), time.Millisecond)
	after := testutil.ToFloat64(m.storeOperations.WithLabelValues("create", resultError))
	if after != before+1 {
		t.Errorf("expected error counter to increase by 1, got %v -> %v", before, after)
	}

	beforeMock := testutil.ToFloat64(m.mockTransactionsTotal)
	AddMockTransactions(25)
	if got := testutil.ToFloat64(m.mockTransactionsTotal); got != beforeMock+25 {
		t.Errorf("expected mock counter +25, got %v -> %v", beforeMock, got)
	}

	ObserveHTTPRequest("GET", "", 200, time.Millisecond)
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "200")); got < 1 {
		t.Errorf("expected unmatched route counted, got %v", got)
	}
}

func TestInitConcurrentWithObservers(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Init()
		}()
		go func() {
			defer wg.Done()
			ObserveStoreOperation("query", nil, time.Millisecond)
			ObserveReportGenerate(nil, time.Millisecond)
			ObserveHTTPRequest("GET", "/api/health", 200, time.Millisecond)
			AddMockTransactions(1)
		}()
	}
	wg.Wait()

	if active.Load() == nil {
		t.Fatal("expected instruments after concurrent Init")
	}
}

func TestResult(t *testing.T) {
	if Result(nil) != resultSuccess || Result(errors.New("x")) != resultError {
		t.Error("unexpected result labels")
	}
}
