package dto

import (
	"Movie_Catalog/internal/model"
	"time"
)

type CreateMovieRequest struct {
	Title         string   `json:"title" binding:"required"`
	Detail        string   `json:"detail" binding:"required"`
	DirectorID    uint64   `json:"directorId" binding:"required,gt=0"`
	GenreIDs      []uint64 `json:"genreIds" binding:"required,min=1,dive,gt=0"`
	MovieFileName string   `json:"movieFileName" binding:"required"`
}

// UpdateMovieRequest 所有字段都可选，detail会被拆出去单独更新详情表
type UpdateMovieRequest struct {
	Title      *string  `json:"title" binding:"omitempty,min=1"`
	Detail     *string  `json:"detail" binding:"omitempty,min=1"`
	DirectorID *uint64  `json:"directorId" binding:"omitempty,gt=0"`
	GenreIDs   []uint64 `json:"genreIds" binding:"omitempty,min=1,dive,gt=0"`
}

// GetMoviesRequest 列表查询参数：标题模糊搜索 + 游标分页
type GetMoviesRequest struct {
	Title  string   `form:"title"`
	Cursor string   `form:"cursor"`
	Order  []string `form:"order"`
	Take   int      `form:"take"`
}

type MovieDetailResponse struct {
	ID     uint64 `json:"id"`
	Detail string `json:"detail"`
}

type CreatorResponse struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

type MovieResponse struct {
	ID            uint64               `json:"id"`
	Title         string               `json:"title"`
	Detail        *MovieDetailResponse `json:"detail,omitempty"`
	Director      *DirectorResponse    `json:"director,omitempty"`
	Genres        []GenreResponse      `json:"genres"`
	LikeCount     int64                `json:"likeCount"`
	DislikeCount  int64                `json:"dislikeCount"`
	MovieFilePath string               `json:"movieFilePath"`
	Creator       *CreatorResponse     `json:"creator,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
	Version       int                  `json:"version"`
}

// MovieListItem 列表里的电影，登录用户能看到自己的态度（true喜欢/false不喜欢/null没表态）
type MovieListItem struct {
	MovieResponse
	LikeStatus *bool `json:"likeStatus"`
}

type MoviePageResponse struct {
	Data       []MovieListItem `json:"data"`
	NextCursor *string         `json:"nextCursor"`
	Count      int64           `json:"count"`
}

type LikeStatusResponse struct {
	IsLike *bool `json:"isLike"`
}

// ToMovieResponse 把DB模型转换为API响应，只输出被Preload出来的关联
func ToMovieResponse(movie *model.Movie) MovieResponse {
	resp := MovieResponse{
		ID:            movie.ID,
		Title:         movie.Title,
		Genres:        ToGenreResponses(movie.Genres),
		LikeCount:     movie.LikeCount,
		DislikeCount:  movie.DislikeCount,
		MovieFilePath: movie.MovieFilePath,
		CreatedAt:     movie.CreatedAt,
		UpdatedAt:     movie.UpdatedAt,
		Version:       movie.Version,
	}
	if movie.Detail.ID != 0 {
		resp.Detail = &MovieDetailResponse{ID: movie.Detail.ID, Detail: movie.Detail.Detail}
	}
	if movie.Director.ID != 0 {
		d := ToDirectorResponse(&movie.Director)
		resp.Director = &d
	}
	if movie.Creator != nil && movie.Creator.ID != 0 {
		resp.Creator = &CreatorResponse{ID: movie.Creator.ID, Email: movie.Creator.Email}
	}
	return resp
}

func ToMovieResponses(movies []model.Movie) []MovieResponse {
	resp := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		resp = append(resp, ToMovieResponse(&movies[i]))
	}
	return resp
}
