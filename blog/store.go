package blog

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports that a scoping entity (category, tag) does not exist.
var ErrNotFound = errors.New("blog: not found")

// Article is the read-model projection of an article served by the cached
// listings.
type Article struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary"`
	CoverImage  string    `json:"coverImage,omitempty"`
	CategoryID  int64     `json:"categoryId,omitempty"`
	TagIDs      []int64   `json:"tagIds,omitempty"`
	ViewCount   int       `json:"viewCount"`
	LikeCount   int       `json:"likeCount"`
	IsTop       bool      `json:"isTop"`
	PublishedAt time.Time `json:"publishedAt"`
}

// ArticlePage is one page of a listing.
type ArticlePage struct {
	Items         []Article `json:"items"`
	Page          int       `json:"page"`
	Size          int       `json:"size"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
}

// Category is a taxonomy entry with its published-article count.
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ArticleCount int64  `json:"articleCount"`
}

// Tag is a taxonomy entry with its published-article count.
type Tag struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ArticleCount int64  `json:"articleCount"`
}

// ArticleStore is the relational store behind the article read paths. It is
// the ultimate loader on a total cache miss; its errors propagate to callers
// untouched by the cache layer.
type ArticleStore interface {
	PublishedPage(ctx context.Context, req PageRequest) (ArticlePage, error)
	PublishedPageByCategory(ctx context.Context, categoryID int64, req PageRequest) (ArticlePage, error)
	PublishedPageByTag(ctx context.Context, tagID int64, req PageRequest) (ArticlePage, error)
	HotArticles(ctx context.Context, limit int) ([]Article, error)
}

// TaxonomyStore is the relational store behind category and tag reads.
type TaxonomyStore interface {
	Categories(ctx context.Context) ([]Category, error)
	Tags(ctx context.Context) ([]Tag, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	TagExists(ctx context.Context, id int64) (bool, error)
}
