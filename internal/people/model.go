package people

import "time"

const (
	RoleUser         = "user"
	RoleCollaborator = "collaborator"
	RoleTeamMember   = "team_member"
	RoleStaff        = "staff"
)

var Roles = []string{RoleUser, RoleCollaborator, RoleTeamMember, RoleStaff}

// Person is a directory entry. IsTeamLead is only meaningful for team
// members; validation rejects the flag on any other role.
type Person struct {
	ID           int       `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	IsTeamLead   bool      `db:"is_team_lead" json:"is_team_lead"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (p *Person) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// DisplayRole folds the team-lead flag into the role the way the directory
// presents people: a team member flagged as lead reads "team_lead".
func (p *Person) DisplayRole() string {
	if p.Role == RoleTeamMember && p.IsTeamLead {
		return "team_lead"
	}
	return p.Role
}

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Person       *Person `json:"person"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
}

type UpdateRoleRequest struct {
	Role       string `json:"role" binding:"required,oneof=user collaborator team_member staff"`
	IsTeamLead bool   `json:"is_team_lead"`
}
