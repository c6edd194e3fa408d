package services

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"sparkletidy/internal/ledger"
	"sparkletidy/internal/pagination"
	"sparkletidy/internal/repository"
	"sparkletidy/internal/testutil"
)

func newSeededMockService(repo repository.TransactionRepository, seed uint64) *mockService {
	svc := NewMockService(repo, ledger.DefaultPricing()).(*mockService)
	svc.newRand = func() *rand.Rand { return rand.New(rand.NewPCG(seed, seed)) }
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestGenerateMockTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts_valid_records", func(t *testing.T) {
		repo := newTestRepo(t)
		svc := newSeededMockService(repo, 42)

		n, err := svc.GenerateMockTransactions(ctx, 50, []string{"ctr-1", "ctr-2"})
		testutil.AssertNoError(t, err)
		if n != 50 {
			t.Fatalf("expected 50 created, got %d", n)
		}

		all, err := repo.ListAll(ctx, repository.TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(all) != 50 {
			t.Fatalf("expected 50 stored, got %d", len(all))
		}
		for i := range all {
			tx := &all[i]
			if err := ledger.Validate(tx); err != nil {
				t.Errorf("stored mock violates invariants: %v", err)
			}
			if tx.IsRefunded() && !tx.RefundAmount.Equal(tx.Amount) {
				t.Errorf("refunded mock refund %s != amount %s", tx.RefundAmount, tx.Amount)
			}
			if tx.ContractorID == nil {
				t.Error("expected contractor on every mock")
			}
		}
	})

	t.Run("reuses_existing_contractors", func(t *testing.T) {
		repo := newTestRepo(t)
		txSvc := NewTransactionService(repo)
		in := validInput()
		contractor := "ctr-existing"
		in.ContractorID = &contractor
		_, err := txSvc.CreateTransaction(ctx, in)
		testutil.AssertNoError(t, err)

		svc := newSeededMockService(repo, 7)
		_, err = svc.GenerateMockTransactions(ctx, 10, nil)
		testutil.AssertNoError(t, err)

		page, err := txSvc.QueryTransactions(ctx, repository.TransactionFilter{ContractorID: contractor}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 11 {
			t.Errorf("expected all 11 transactions on the existing contractor, got %d", page.TotalItems)
		}
	})

	t.Run("no_contractors_anywhere", func(t *testing.T) {
		repo := newTestRepo(t)
		svc := newSeededMockService(repo, 3)
		_, err := svc.GenerateMockTransactions(ctx, 5, nil)
		testutil.AssertNoError(t, err)

		all, _ := repo.ListAll(ctx, repository.TransactionFilter{})
		for i := range all {
			if all[i].ContractorID != nil {
				t.Errorf("expected no contractor, got %q", *all[i].ContractorID)
			}
		}
	})

	t.Run("count_out_of_range", func(t *testing.T) {
		svc := newSeededMockService(newTestRepo(t), 1)
		for _, count := range []int{0, -1, 501} {
			_, err := svc.GenerateMockTransactions(ctx, count, nil)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}
	})

	t.Run("feeds_reports", func(t *testing.T) {
		repo := newTestRepo(t)
		svc := newSeededMockService(repo, 99)
		_, err := svc.GenerateMockTransactions(ctx, 100, []string{"ctr-1"})
		testutil.AssertNoError(t, err)

		report, err := NewReportService(repo).GenerateReport(ctx, ReportRequest{
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		})
		testutil.AssertNoError(t, err)
		if report.Summary.TransactionCount != 100 {
			t.Errorf("expected all 100 mocks in the report, got %d", report.Summary.TransactionCount)
		}
		if !report.Summary.NetRevenue.Equal(report.Summary.TotalRevenue.Sub(report.Summary.TotalRefunds)) {
			t.Error("net revenue must equal revenue minus refunds")
		}
		for st, b := range report.ServiceBreakdown {
			if b.Count == 0 || !st.Valid() {
				t.Errorf("unexpected breakdown entry %s: %+v", st, b)
			}
		}
	})
}
