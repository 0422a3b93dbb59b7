package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/yamdb-backend/internal/domain"
)

var fixtureSeq int64

func next() int64 {
	fixtureSeq++
	return fixtureSeq
}

func SeedUser(tb testing.TB, tx *gorm.DB, username string, role types.Role) *types.User {
	tb.Helper()
	if username == "" {
		username = fmt.Sprintf("user%d", next())
	}
	if role == "" {
		role = types.RoleUser
	}
	u := &types.User{Username: username, Email: username + "@example.com", Role: role}
	if err := tx.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCategory(tb testing.TB, tx *gorm.DB, name, slug string) *types.Category {
	tb.Helper()
	c := &types.Category{Name: name, Slug: slug}
	if err := tx.Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedGenre(tb testing.TB, tx *gorm.DB, name, slug string) *types.Genre {
	tb.Helper()
	g := &types.Genre{Name: name, Slug: slug}
	if err := tx.Create(g).Error; err != nil {
		tb.Fatalf("seed genre: %v", err)
	}
	return g
}

func SeedTitle(tb testing.TB, tx *gorm.DB, name string, year int, category *types.Category, genres ...*types.Genre) *types.Title {
	tb.Helper()
	t := &types.Title{Name: name, Year: year}
	if category != nil {
		t.CategoryID = &category.ID
	}
	if err := tx.Omit("Category", "Genres").Create(t).Error; err != nil {
		tb.Fatalf("seed title: %v", err)
	}
	for _, g := range genres {
		if err := tx.Create(&types.TitleGenre{TitleID: t.ID, GenreID: g.ID}).Error; err != nil {
			tb.Fatalf("seed title genre: %v", err)
		}
	}
	return t
}

func SeedReview(tb testing.TB, tx *gorm.DB, title *types.Title, author *types.User, score int) *types.Review {
	tb.Helper()
	r := &types.Review{
		TitleID:  title.ID,
		AuthorID: author.ID,
		Text:     fmt.Sprintf("review %d", next()),
		Score:    score,
		PubDate:  time.Now().UTC(),
	}
	if err := tx.Create(r).Error; err != nil {
		tb.Fatalf("seed review: %v", err)
	}
	r.Author = author.Username
	return r
}

func SeedComment(tb testing.TB, tx *gorm.DB, review *types.Review, author *types.User, text string) *types.Comment {
	tb.Helper()
	c := &types.Comment{ReviewID: review.ID, AuthorID: author.ID, Text: text, PubDate: time.Now().UTC()}
	if err := tx.Create(c).Error; err != nil {
		tb.Fatalf("seed comment: %v", err)
	}
	c.Author = author.Username
	return c
}
