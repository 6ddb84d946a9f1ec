package dto

import (
	"Movie_Catalog/internal/model"
	"time"
)

const DateLayout = "2006-01-02"

type CreateDirectorRequest struct {
	Name        string `json:"name" binding:"required"`
	Dob         string `json:"dob" binding:"required,datetime=2006-01-02"`
	Nationality string `json:"nationality" binding:"required"`
}

type UpdateDirectorRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Dob         *string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	Nationality *string `json:"nationality" binding:"omitempty,min=1"`
}

type DirectorResponse struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Dob         string    `json:"dob"`
	Nationality string    `json:"nationality"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Version     int       `json:"version"`
}

func ToDirectorResponse(d *model.Director) DirectorResponse {
	return DirectorResponse{
		ID:          d.ID,
		Name:        d.Name,
		Dob:         d.Dob.Format(DateLayout),
		Nationality: d.Nationality,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Version:     d.Version,
	}
}

func ToDirectorResponses(directors []model.Director) []DirectorResponse {
	resp := make([]DirectorResponse, 0, len(directors))
	for i := range directors {
		resp = append(resp, ToDirectorResponse(&directors[i]))
	}
	return resp
}
