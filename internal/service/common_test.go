package service_test

import (
	"context"
	"testing"
	"time"

	cacheMocks "go-gin-event-registration/internal/cache/mocks"
	repoMocks "go-gin-event-registration/internal/repository/mocks"
	"go-gin-event-registration/internal/service"

	"github.com/jackc/pgx/v5"
)

// fakeTx records Commit and Rollback; any other pgx.Tx method panics.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(ctx context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	if f.committed {
		return pgx.ErrTxClosed
	}
	f.rolledBack = true
	return nil
}

type fakeDB struct {
	tx  *fakeTx
	err error
}

func (d *fakeDB) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.tx, nil
}

var fixedNow = time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

type testDeps struct {
	db               *fakeDB
	tx               *fakeTx
	eventRepo        *repoMocks.EventRepositoryMock
	visitorRepo      *repoMocks.VisitorRepositoryMock
	registrationRepo *repoMocks.RegistrationRepositoryMock
	incomeCache      *cacheMocks.EventIncomeCacheMock
	sync             *service.StatusSynchronizer
}

func setupMock(t *testing.T) *testDeps {
	t.Helper()
	tx := &fakeTx{}
	d := &testDeps{
		db:               &fakeDB{tx: tx},
		tx:               tx,
		eventRepo:        repoMocks.NewEventRepositoryMock(),
		visitorRepo:      repoMocks.NewVisitorRepositoryMock(),
		registrationRepo: repoMocks.NewRegistrationRepositoryMock(),
		incomeCache:      cacheMocks.NewEventIncomeCacheMock(),
	}
	d.sync = service.NewStatusSynchronizer(d.eventRepo, d.registrationRepo, func() time.Time { return fixedNow })

	t.Cleanup(func() {
		d.eventRepo.AssertExpectations(t)
		d.visitorRepo.AssertExpectations(t)
		d.registrationRepo.AssertExpectations(t)
		d.incomeCache.AssertExpectations(t)
	})
	return d
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}
