// file: dto/competition.go
package dto

type CreateTeamRequest struct {
	TeamName string `json:"team_name" form:"teamName" binding:"required,min=3"`
}

type JoinTeamRequest struct {
	TeamCode string `json:"team_code" form:"teamCode" binding:"required"`
}
