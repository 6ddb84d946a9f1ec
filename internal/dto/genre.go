package dto

import (
	"Movie_Catalog/internal/model"
	"time"
)

type CreateGenreRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateGenreRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1"`
}

type GenreResponse struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int       `json:"version"`
}

func ToGenreResponse(g *model.Genre) GenreResponse {
	return GenreResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
		Version:   g.Version,
	}
}

func ToGenreResponses(genres []model.Genre) []GenreResponse {
	resp := make([]GenreResponse, 0, len(genres))
	for i := range genres {
		resp = append(resp, ToGenreResponse(&genres[i]))
	}
	return resp
}
