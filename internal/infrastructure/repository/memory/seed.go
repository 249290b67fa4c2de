package memory

import (
	"time"

	"github.com/matchdayhq/matchday/internal/domain/team"
	"github.com/matchdayhq/matchday/internal/domain/user"
	"github.com/matchdayhq/matchday/internal/domain/venue"
)

// Seed identifiers shared by tests and the no-database dev mode.
const (
	UserIDAna   = "user-ana"
	UserIDBruno = "user-bruno"
	UserIDCarla = "user-carla"
	UserIDDiego = "user-diego"

	TeamIDTigres  = "team-tigres"
	TeamIDCorujas = "team-corujas"

	VenueIDArenaNorte = "venue-arena-norte"
	VenueIDQuadraSul  = "venue-quadra-sul"
)

var seedTime = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

func SeedUsers() []user.User {
	return []user.User{
		{ID: UserIDAna, Name: "Ana Souza", Email: "ana@example.com", PasswordHash: "seeded", CreatedAt: seedTime, UpdatedAt: seedTime},
		{ID: UserIDBruno, Name: "Bruno Lima", Email: "bruno@example.com", PasswordHash: "seeded", CreatedAt: seedTime, UpdatedAt: seedTime},
		{ID: UserIDCarla, Name: "Carla Mendes", Email: "carla@example.com", PasswordHash: "seeded", CreatedAt: seedTime, UpdatedAt: seedTime},
		{ID: UserIDDiego, Name: "Diego Prado", Email: "diego@example.com", PasswordHash: "seeded", CreatedAt: seedTime, UpdatedAt: seedTime},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDTigres, Name: "Tigres FC", KitColor: "orange", CaptainID: UserIDAna, CreatedAt: seedTime, UpdatedAt: seedTime},
		{ID: TeamIDCorujas, Name: "Corujas EC", KitColor: "purple", CaptainID: UserIDCarla, CreatedAt: seedTime, UpdatedAt: seedTime},
	}
}

func SeedMembers() []team.Member {
	return []team.Member{
		{TeamID: TeamIDTigres, UserID: UserIDAna, ShirtNumber: 10, JoinedAt: seedTime},
		{TeamID: TeamIDTigres, UserID: UserIDBruno, ShirtNumber: 7, JoinedAt: seedTime},
		{TeamID: TeamIDCorujas, UserID: UserIDCarla, ShirtNumber: 9, JoinedAt: seedTime},
		{TeamID: TeamIDCorujas, UserID: UserIDDiego, ShirtNumber: 1, JoinedAt: seedTime},
	}
}

func SeedVenues() []venue.Venue {
	opens := venue.NewTimeOfDay(8, 0)
	closes := venue.NewTimeOfDay(22, 0)

	return []venue.Venue{
		{
			ID:        VenueIDArenaNorte,
			Name:      "Arena Norte",
			Capacity:  14,
			OpensAt:   &opens,
			ClosesAt:  &closes,
			Bookable:  true,
			CreatedAt: seedTime,
			UpdatedAt: seedTime,
		},
		{
			ID:        VenueIDQuadraSul,
			Name:      "Quadra Sul",
			Capacity:  10,
			Bookable:  true,
			CreatedAt: seedTime,
			UpdatedAt: seedTime,
		},
	}
}
