package service

import (
	"Movie_Catalog/internal/dto"
	"Movie_Catalog/internal/model"
	"Movie_Catalog/internal/repository"
	"encoding/base64"
	"encoding/json"
	"math"
	"strings"
)

const (
	defaultTake = 2
	maxTake     = 100
)

// 允许排序的字段：API字段名 -> 列名
var movieOrderColumns = map[string]string{
	"id":           "id",
	"likeCount":    "like_count",
	"dislikeCount": "dislike_count",
}

// cursorPayload 游标内容：上一页最后一条在各排序字段上的值，以及当时的排序方式
type cursorPayload struct {
	Values map[string]any `json:"values"`
	Order  []string       `json:"order"`
}

// 把请求参数翻译成仓库查询：1、游标里带的order优先 2、校验字段和方向 3、保证最后按id排序，游标才唯一
func buildMovieQuery(req dto.GetMoviesRequest) (repository.MovieQuery, []string, error) {
	q := repository.MovieQuery{Title: req.Title, Take: req.Take}
	if q.Take == 0 {
		q.Take = defaultTake
	}
	if q.Take < 0 || q.Take > maxTake {
		return q, nil, ErrInvalidTake
	}

	order := req.Order
	var values map[string]any
	if req.Cursor != "" {
		payload, err := decodeCursor(req.Cursor)
		if err != nil {
			return q, nil, err
		}
		order = payload.Order
		values = payload.Values
	}
	if len(order) == 0 {
		order = []string{"id_DESC"}
	}

	hasID := false
	for _, o := range order {
		field, desc, err := parseOrder(o)
		if err != nil {
			return q, nil, err
		}
		if field == "id" {
			hasID = true
		}
		q.Orders = append(q.Orders, repository.OrderBy{Column: movieOrderColumns[field], Desc: desc})
	}
	if !hasID {
		dir := "ASC"
		if q.Orders[0].Desc {
			dir = "DESC"
		}
		order = append(order, "id_"+dir)
		q.Orders = append(q.Orders, repository.OrderBy{Column: "id", Desc: q.Orders[0].Desc})
	}

	if values != nil {
		q.After = make(map[string]any, len(values))
		for field, v := range values {
			col, ok := movieOrderColumns[field]
			if !ok {
				return q, nil, ErrInvalidCursor
			}
			q.After[col] = normalizeNumber(v)
		}
		// 每个排序字段都要有值，否则游标条件不完整，会漏行或重复
		for _, o := range q.Orders {
			if _, ok := q.After[o.Column]; !ok {
				return q, nil, ErrInvalidCursor
			}
		}
	}
	return q, order, nil
}

func parseOrder(o string) (field string, desc bool, err error) {
	i := strings.LastIndex(o, "_")
	if i <= 0 {
		return "", false, ErrInvalidOrder
	}
	field, dir := o[:i], o[i+1:]
	if _, ok := movieOrderColumns[field]; !ok {
		return "", false, ErrInvalidOrder
	}
	switch dir {
	case "ASC":
		return field, false, nil
	case "DESC":
		return field, true, nil
	default:
		return "", false, ErrInvalidOrder
	}
}

func decodeCursor(cursor string) (*cursorPayload, error) {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var payload cursorPayload
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Values) == 0 || len(payload.Order) == 0 {
		return nil, ErrInvalidCursor
	}
	return &payload, nil
}

// 这一页不满take条就说明没有下一页了
func nextMovieCursor(movies []model.Movie, order []string, take int) (*string, error) {
	if len(movies) == 0 || len(movies) < take {
		return nil, nil
	}
	last := movies[len(movies)-1]
	values := make(map[string]any, len(order))
	for _, o := range order {
		field, _, err := parseOrder(o)
		if err != nil {
			return nil, err
		}
		switch field {
		case "id":
			values[field] = last.ID
		case "likeCount":
			values[field] = last.LikeCount
		case "dislikeCount":
			values[field] = last.DislikeCount
		}
	}
	raw, err := json.Marshal(cursorPayload{Values: values, Order: order})
	if err != nil {
		return nil, err
	}
	encoded := base64.URLEncoding.EncodeToString(raw)
	return &encoded, nil
}

// JSON里的数字都是float64，整数值转回int64再交给数据库
func normalizeNumber(v any) any {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return v
}
