package companies

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpsertRawReturnsIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	records := []RawCompany{
		{Source: "mock", SourceID: "mock_1", Name: "Ink House", Categories: []string{"Tattoo"}},
		{Source: "mock", SourceID: "mock_2", Name: "Glow Studio", Categories: []string{"Clinic"}},
	}

	mock.ExpectQuery("INSERT INTO companies_raw").
		WithArgs("mock", "mock_1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery("INSERT INTO companies_raw").
		WithArgs("mock", "mock_2", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))

	got, err := repo.UpsertRaw(context.Background(), records)
	if err != nil {
		t.Fatalf("UpsertRaw: %v", err)
	}
	if got["mock_1"] != 11 || got["mock_2"] != 12 {
		t.Errorf("ids = %v, want mock_1=11 mock_2=12", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoFindIDsBySourceIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT id, source_id").
		WithArgs("mock", "mock_1", "mock_2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "source_id"}).
			AddRow(int64(7), "mock_2"))

	got, err := repo.FindIDsBySourceIDs(context.Background(), "mock", []string{"mock_1", "mock_2"})
	if err != nil {
		t.Fatalf("FindIDsBySourceIDs: %v", err)
	}
	if len(got) != 1 || got["mock_2"] != 7 {
		t.Errorf("ids = %v, want only mock_2=7", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoFindIDsEmptyInputSkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	got, err := repo.FindIDsBySourceIDs(context.Background(), "mock", nil)
	if err != nil {
		t.Fatalf("FindIDsBySourceIDs: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ids = %v, want empty", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetRawByIDRoundTripsPayload(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	payload := `{"source":"mock","sourceId":"mock_1","name":"Ink House","categories":["Tattoo"],"rating":4.5,"review_count":120}`

	mock.ExpectQuery("SELECT payload").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow([]byte(payload)))

	got, err := repo.GetRawByID(context.Background(), 11)
	if err != nil {
		t.Fatalf("GetRawByID: %v", err)
	}
	if got.Name != "Ink House" || got.Rating != 4.5 || got.ReviewCount != 120 {
		t.Errorf("raw = %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetRawByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT payload").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"payload"}))

	_, err = repo.GetRawByID(context.Background(), 99)
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoUpsertClassification(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	c := Classification{
		PrimaryIndustry: IndustryTattooStudio,
		SubNiche:        "Tattoo studio",
		ServiceType:     ServiceLocal,
		B2BB2C:          AxisB2C,
		IsGoodFit:       true,
		FitReason:       "reason",
		Confidence:      80,
		Source:          ClassificationSourceRules,
	}

	mock.ExpectExec("INSERT INTO company_classifications").
		WithArgs(
			int64(11),
			c.PrimaryIndustry,
			c.SubNiche,
			c.ServiceType,
			c.B2BB2C,
			c.IsGoodFit,
			c.FitReason,
			c.Confidence,
			c.Source,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpsertClassification(context.Background(), 11, c); err != nil {
		t.Fatalf("UpsertClassification: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpsertNormalizedNullables(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	normalized := NormalizedCompany{
		RawID:       11,
		Name:        "Ink House",
		Categories:  nil,
		Rating:      0, // stored as NULL
		ReviewCount: 12,
	}

	mock.ExpectExec("INSERT INTO companies_normalized").
		WithArgs(
			int64(11),
			"Ink House",
			nil, // address
			nil, // city
			nil, // country
			nil, // website
			[]byte("[]"),
			nil, // rating
			12,
			nil, // opportunity_signals
			nil, // primary_insight
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpsertNormalized(context.Background(), normalized); err != nil {
		t.Fatalf("UpsertNormalized: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
