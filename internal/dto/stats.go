package dto

import (
	"time"

	"github.com/yukikurage/directory-api/internal/services"
)

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
}

// PrincipalDTO describes the caller behind a bearer token
type PrincipalDTO struct {
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginCountDTO is one row of the login ranking
type LoginCountDTO struct {
	Username   string `json:"username"`
	LoginCount int64  `json:"login_count"`
}

// StatsDTO is the statistics report
type StatsDTO struct {
	UnitCount     int64           `json:"unit_count"`
	PositionCount int64           `json:"position_count"`
	PersonCount   int64           `json:"person_count"`
	LoginCount    int64           `json:"login_count"`
	TopLogins     []LoginCountDTO `json:"top_logins"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
}

// ToLoginResponse converts a session to LoginResponse
func ToLoginResponse(session services.Session) LoginResponse {
	return LoginResponse{
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
		Name:      session.Principal.Name,
		Username:  session.Principal.Username,
	}
}

// ToPrincipalDTO converts a verified principal
func ToPrincipalDTO(principal services.Principal) PrincipalDTO {
	return PrincipalDTO{
		Name:      principal.Name,
		Username:  principal.Username,
		ExpiresAt: principal.ExpiresAt,
	}
}

// ToStatsDTO converts the stats report
func ToStatsDTO(stats services.Stats) StatsDTO {
	top := make([]LoginCountDTO, len(stats.TopLogins))
	for i, row := range stats.TopLogins {
		top[i] = LoginCountDTO{
			Username:   row.Username,
			LoginCount: row.LoginCount,
		}
	}
	return StatsDTO{
		UnitCount:     stats.UnitCount,
		PositionCount: stats.PositionCount,
		PersonCount:   stats.PersonCount,
		LoginCount:    stats.LoginCount,
		TopLogins:     top,
	}
}
