// Package importer loads the YaMDb CSV data set into the database.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/yamdb-backend/internal/data/db"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
)

// FileResult counts what happened to the rows of one CSV file.
type FileResult struct {
	File     string
	Inserted int64
	Existing int64
	// Orphaned rows reference a title, review, genre or author that does not exist.
	Orphaned int64
	Invalid  int64
	Missing  bool
}

type Importer struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func New(theDB *gorm.DB, log *logger.Logger) *Importer {
	return &Importer{db: theDB, log: log.With("component", "CSVImporter"), now: time.Now}
}

type step struct {
	file  string
	table string
	load  func(tx *gorm.DB, row []string, res *FileResult) error
}

// Run imports every known file under dir in dependency order. Missing files
// are reported and skipped.
func (im *Importer) Run(ctx context.Context, dir string) ([]FileResult, error) {
	steps := []step{
		{"users.csv", "users", im.loadUser},
		{"category.csv", "categories", im.loadCategory},
		{"genre.csv", "genres", im.loadGenre},
		{"titles.csv", "titles", im.loadTitle},
		{"genre_title.csv", "", im.loadGenreTitle},
		{"review.csv", "reviews", im.loadReview},
		{"comments.csv", "comments", im.loadComment},
	}
	results := make([]FileResult, 0, len(steps))
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := im.importFile(ctx, filepath.Join(dir, s.file), s)
		if err != nil {
			return results, fmt.Errorf("%s: %w", s.file, err)
		}
		results = append(results, res)
		im.log.Info("CSV file imported",
			"file", res.File,
			"inserted", res.Inserted,
			"existing", res.Existing,
			"orphaned", res.Orphaned,
			"invalid", res.Invalid,
			"missing", res.Missing,
		)
	}
	return results, nil
}

func (im *Importer) importFile(ctx context.Context, path string, s step) (FileResult, error) {
	res := FileResult{File: s.file}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		res.Missing = true
		return res, nil
	}
	if err != nil {
		return res, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		return res, fmt.Errorf("read header: %w", err)
	}

	err = im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		line := 1
		for {
			row, err := r.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			line++
			if err != nil {
				im.log.Warn("Unreadable CSV row", "file", s.file, "line", line, "error", err)
				res.Invalid++
				continue
			}
			if err := s.load(tx, row, &res); err != nil {
				var bad rowError
				if errors.As(err, &bad) {
					im.log.Warn("Invalid CSV row", "file", s.file, "line", line, "error", err)
					res.Invalid++
					continue
				}
				return fmt.Errorf("line %d: %w", line, err)
			}
		}
		if s.table != "" {
			return resetSequence(tx, s.table)
		}
		return nil
	})
	return res, err
}

type rowError struct{ msg string }

func (e rowError) Error() string { return e.msg }

func badRow(format string, args ...any) error {
	return rowError{msg: fmt.Sprintf(format, args...)}
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func uintField(row []string, i int, name string) (uint, error) {
	v, err := strconv.ParseUint(field(row, i), 10, 64)
	if err != nil || v == 0 {
		return 0, badRow("%s %q is not a positive integer", name, field(row, i))
	}
	return uint(v), nil
}

func requireCols(row []string, n int) error {
	if len(row) < n {
		return badRow("expected %d columns, got %d", n, len(row))
	}
	return nil
}

func (im *Importer) parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return im.now().UTC(), nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999-07:00", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, badRow("pub_date %q is not a timestamp", s)
}

// insert adds v unless a row with the same primary key exists.
func insert(tx *gorm.DB, v any, res *FileResult) error {
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(v)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		res.Inserted++
	} else {
		res.Existing++
	}
	return nil
}

func exists(tx *gorm.DB, model any, id uint) (bool, error) {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// users.csv: id,username,email,role,bio,first_name,last_name
func (im *Importer) loadUser(tx *gorm.DB, row []string, res *FileResult) error {
	if err := requireCols(row, 3); err != nil {
		return err
	}
	id, err := uintField(row, 0, "id")
	if err != nil {
		return err
	}
	username, email := field(row, 1), strings.ToLower(field(row, 2))
	if username == "" || email == "" {
		return badRow("username and email are required")
	}
	role, ok := types.ParseRole(field(row, 3))
	if !ok {
		return badRow("unknown role %q", field(row, 3))
	}
	return insert(tx, &types.User{
		ID:        id,
		Username:  username,
		Email:     email,
		Role:      role,
		Bio:       field(row, 4),
		FirstName: field(row, 5),
		LastName:  field(row, 6),
	}, res)
}

// category.csv: id,name,slug
func (im *Importer) loadCategory(tx *gorm.DB, row []string, res *FileResult) error {
	if err := requireCols(row, 3); err != nil {
		return err
	}
	id, err := uintField(row, 0, "id")
	if err != nil {
		return err
	}
	return insert(tx, &types.Category{ID: id, Name: field(row, 1), Slug: field(row, 2)}, res)
}

// genre.csv: id,name,slug
func (im *Importer) loadGenre(tx *gorm.DB, row []string, res *FileResult) error {
	if err := requireCols(row, 3); err != nil {
		return err
	}
	id, err := uintField(row, 0, "id")
	if err != nil {
		return err
	}
	return insert(tx, &types.Genre{ID: id, Name: field(row, 1), Slug: field(row, 2)}, res)
}

// titles.csv: id,name,year,category
func (im *Importer) loadTitle(tx *gorm.DB, row []string, res *FileResult) error {
	if err := requireCols(row, 3); err != nil {
		return err
	}
	id, err := uintField(row, 0, "id")
	if err != nil {
		return err
	}
	year, err := strconv.Atoi(field(row, 2))
	if err != nil {
		return badRow("year %q is not an integer", field(row, 2))
	}
	title := &types.Title{ID: id, Name: field(row, 1), Year: year}
	if raw := field(row, 3); raw != "" {
		categoryID, err := uintField(row, 3, "category")
		if err != nil {
			return err
		}
		ok, err := exists(tx, &types.Category{}, categoryID)
		if err != nil {
			return err
		}
		if ok {
			title.CategoryID = &categoryID
		}
	}
	return insert(tx, title, res)
}

// genre_title.csv: id,title_id,genre_id
func (im *Importer) loadGenreTitle(tx *gorm.DB, row []string, res *FileResult) error {
	if err := requireCols(row, 3); err != nil {
		return err
	}
	titleID, err := uintField(row, 1, "title_id")
	if err != nil {
		return err
	}
	genreID, err := uintField(row, 2, "genre_id")
	if err != nil {
		return err
	}
	titleOK, err := exists(tx, &types.Title{}, titleID)
	if err != nil {
		return err
	}
	genreOK, err := exists(tx, &types.Genre{}, genreID)
	if err != nil {
		return err
	}
	if !titleOK || !genreOK {
		res.Orphaned++
		return nil
	}
	return insert(tx, &types.TitleGenre{TitleID: titleID, GenreID: genreID}, res)
}

// review.csv: id,title_id,text,author,score,pub_date
func (im *Importer) loadReview(tx *gorm.DB, row []string, res *FileResult) error {
	if err := requireCols(row, 5); err != nil {
		return err
	}
	id, err := uintField(row, 0, "id")
	if err != nil {
		return err
	}
	titleID, err := uintField(row, 1, "title_id")
	if err != nil {
		return err
	}
	authorID, err := uintField(row, 3, "author")
	if err != nil {
		return err
	}
	score, err := strconv.Atoi(field(row, 4))
	if err != nil || !types.ValidScore(score) {
		return badRow("score %q is not between %d and %d", field(row, 4), types.MinScore, types.MaxScore)
	}
	pubDate, err := im.parseTime(field(row, 5))
	if err != nil {
		return err
	}
	titleOK, err := exists(tx, &types.Title{}, titleID)
	if err != nil {
		return err
	}
	authorOK, err := exists(tx, &types.User{}, authorID)
	if err != nil {
		return err
	}
	if !titleOK || !authorOK {
		res.Orphaned++
		return nil
	}
	return insert(tx, &types.Review{
		ID:       id,
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     field(row, 2),
		Score:    score,
		PubDate:  pubDate,
	}, res)
}

// comments.csv: id,review_id,text,author,pub_date
func (im *Importer) loadComment(tx *gorm.DB, row []string, res *FileResult) error {
	if err := requireCols(row, 4); err != nil {
		return err
	}
	id, err := uintField(row, 0, "id")
	if err != nil {
		return err
	}
	reviewID, err := uintField(row, 1, "review_id")
	if err != nil {
		return err
	}
	authorID, err := uintField(row, 3, "author")
	if err != nil {
		return err
	}
	pubDate, err := im.parseTime(field(row, 4))
	if err != nil {
		return err
	}
	reviewOK, err := exists(tx, &types.Review{}, reviewID)
	if err != nil {
		return err
	}
	authorOK, err := exists(tx, &types.User{}, authorID)
	if err != nil {
		return err
	}
	if !reviewOK || !authorOK {
		res.Orphaned++
		return nil
	}
	return insert(tx, &types.Comment{
		ID:       id,
		ReviewID: reviewID,
		AuthorID: authorID,
		Text:     field(row, 2),
		PubDate:  pubDate,
	}, res)
}

// resetSequence moves a postgres id sequence past explicitly inserted ids.
func resetSequence(tx *gorm.DB, table string) error {
	if tx.Dialector.Name() != db.DriverPostgres {
		return nil
	}
	return tx.Exec(fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
		table, table,
	)).Error
}
