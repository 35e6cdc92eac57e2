package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/five82/haven/internal/api"
	"github.com/five82/haven/internal/models"
)

// ArticleService covers /articles.
type ArticleService struct {
	c *api.Client
}

// ArticleQuery filters the article list. A nil CategoryID means all
// categories.
type ArticleQuery struct {
	PageQuery
	CategoryID *int64
	Search     string
}

// List returns one page of articles.
func (s *ArticleService) List(ctx context.Context, query ArticleQuery) (api.Paginated[models.Article], error) {
	params := query.params()
	params["category_id"] = query.CategoryID
	params["search"] = strings.TrimSpace(query.Search)
	return api.Get[api.Paginated[models.Article]](ctx, s.c, "/articles", api.RequestOptions{Params: params})
}

// Get returns a single article with its content.
func (s *ArticleService) Get(ctx context.Context, id int64) (models.Article, error) {
	resp, err := api.Get[api.Response[models.Article]](ctx, s.c, fmt.Sprintf("/articles/%d", id), api.RequestOptions{})
	if err != nil {
		return models.Article{}, err
	}
	return resp.Data, nil
}

// Categories lists article categories.
func (s *ArticleService) Categories(ctx context.Context) ([]models.Category, error) {
	resp, err := api.Get[api.Response[[]models.Category]](ctx, s.c, "/articles/categories", api.RequestOptions{})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
