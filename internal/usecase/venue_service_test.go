package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/matchdayhq/matchday/internal/domain/venue"
	"github.com/matchdayhq/matchday/internal/infrastructure/repository/memory"
	"github.com/matchdayhq/matchday/internal/platform/logging"
)

func newVenueFixture() (*VenueService, *memory.VenueRepository) {
	venues := memory.NewVenueRepository(memory.SeedVenues(), nil)
	service := NewVenueService(venues, &seqIDGenerator{}, logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) }

	return service, venues
}

func TestVenueService_Create(t *testing.T) {
	service, _ := newVenueFixture()

	cases := []struct {
		name    string
		input   CreateVenueInput
		wantErr error
	}{
		{
			name:  "with hours",
			input: CreateVenueInput{Name: "Campo Leste", Capacity: 120, OpensAt: "09:00", ClosesAt: "21:30", Bookable: true},
		},
		{
			name:  "unrestricted hours",
			input: CreateVenueInput{Name: "Campo Aberto", Bookable: true},
		},
		{
			name:    "missing name",
			input:   CreateVenueInput{OpensAt: "09:00", ClosesAt: "21:00"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "only opens set",
			input:   CreateVenueInput{Name: "Campo Torto", OpensAt: "09:00"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "closes before opens",
			input:   CreateVenueInput{Name: "Campo Torto", OpensAt: "21:00", ClosesAt: "09:00"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad hour format",
			input:   CreateVenueInput{Name: "Campo Torto", OpensAt: "9am", ClosesAt: "21:00"},
			wantErr: ErrInvalidInput,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			created, err := service.Create(t.Context(), tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("create failed: %v", err)
			}
			if created.ID == "" {
				t.Fatal("expected generated id")
			}
		})
	}
}

func TestVenueService_Closures(t *testing.T) {
	service, _ := newVenueFixture()
	date := time.Date(2026, 9, 12, 15, 30, 0, 0, time.UTC)

	exc, err := service.SetClosure(t.Context(), SetClosureInput{
		VenueID:      memory.VenueIDArenaNorte,
		Date:         date,
		ClosedAllDay: true,
		Reason:       "maintenance",
	})
	if err != nil {
		t.Fatalf("set closure failed: %v", err)
	}
	if !exc.Date.Equal(venue.ExceptionDate(date)) {
		t.Fatalf("expected date normalized to midnight, got %v", exc.Date)
	}

	// Upsert replaces the full closure with override hours.
	exc, err = service.SetClosure(t.Context(), SetClosureInput{
		VenueID:  memory.VenueIDArenaNorte,
		Date:     date,
		OpensAt:  "10:00",
		ClosesAt: "14:00",
	})
	if err != nil {
		t.Fatalf("replace closure failed: %v", err)
	}
	if exc.ClosedAllDay || exc.OpensAt == nil || exc.OpensAt.String() != "10:00" {
		t.Fatalf("unexpected exception %+v", exc)
	}

	closures, err := service.ListClosures(t.Context(), memory.VenueIDArenaNorte)
	if err != nil {
		t.Fatalf("list closures failed: %v", err)
	}
	if len(closures) != 1 {
		t.Fatalf("expected a single exception row, got %d", len(closures))
	}

	// An exception with neither closure nor hours is meaningless.
	_, err = service.SetClosure(t.Context(), SetClosureInput{
		VenueID: memory.VenueIDArenaNorte,
		Date:    date,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	_, err = service.SetClosure(t.Context(), SetClosureInput{
		VenueID:      "venue-missing",
		Date:         date,
		ClosedAllDay: true,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := service.DeleteClosure(t.Context(), memory.VenueIDArenaNorte, date); err != nil {
		t.Fatalf("delete closure failed: %v", err)
	}
	closures, err = service.ListClosures(t.Context(), memory.VenueIDArenaNorte)
	if err != nil {
		t.Fatalf("list closures failed: %v", err)
	}
	if len(closures) != 0 {
		t.Fatalf("expected no exceptions after delete, got %d", len(closures))
	}
}
