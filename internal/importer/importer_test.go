package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/yamdb-backend/internal/data/db"
	types "github.com/yungbote/yamdb-backend/internal/domain"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
)

var fixtures = map[string]string{
	"users.csv": "id,username,email,role,bio,first_name,last_name\n" +
		"100,bingobongo,Bingo@Yamdb.fake,user,,,\n" +
		"101,capt_obvious,capt@yamdb.fake,admin,,Capt,Obvious\n" +
		"102,faulty,faulty@yamdb.fake,owner,,,\n",
	"category.csv": "id,name,slug\n1,Фильм,movie\n2,Книга,book\n",
	"genre.csv":    "id,name,slug\n1,Драма,drama\n2,Комедия,comedy\n",
	"titles.csv": "id,name,year,category\n" +
		"1,Побег из Шоушенка,1994,1\n" +
		"2,Крёстный отец,1972,9\n" +
		"3,Broken,not-a-year,1\n",
	"genre_title.csv": "id,title_id,genre_id\n1,1,1\n2,1,2\n3,42,1\n",
	"review.csv": "id,title_id,text,author,score,pub_date\n" +
		"1,1,Great,100,10,2019-09-24T21:08:21.567Z\n" +
		"2,1,\"Fine, really\",101,7,2019-09-24T21:08:21.567Z\n" +
		"3,42,Orphan,100,5,2019-09-24T21:08:21.567Z\n" +
		"4,2,Bad score,100,11,2019-09-24T21:08:21.567Z\n",
	"comments.csv": "id,review_id,text,author,pub_date\n" +
		"1,1,Agreed,101,2019-09-24T21:08:21.567Z\n" +
		"2,99,Lost,101,2019-09-24T21:08:21.567Z\n",
}

func openDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(db.Config{
		Driver:       db.DriverSQLite,
		DSN:          "file:" + name + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
		Silent:       true,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrateAll(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func writeFixtures(t *testing.T, skip ...string) string {
	t.Helper()
	dir := t.TempDir()
	skipped := map[string]bool{}
	for _, s := range skip {
		skipped[s] = true
	}
	for name, body := range fixtures {
		if skipped[name] {
			continue
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func byFile(results []FileResult) map[string]FileResult {
	out := make(map[string]FileResult, len(results))
	for _, r := range results {
		out[r.File] = r
	}
	return out
}

func TestRunImportsAndCounts(t *testing.T) {
	gdb := openDB(t, "importer_counts")
	im := New(gdb, logger.Nop())

	results, err := im.Run(context.Background(), writeFixtures(t))
	require.NoError(t, err)
	got := byFile(results)

	assert.Equal(t, FileResult{File: "users.csv", Inserted: 2, Invalid: 1}, got["users.csv"])
	assert.Equal(t, FileResult{File: "titles.csv", Inserted: 2, Invalid: 1}, got["titles.csv"])
	assert.Equal(t, FileResult{File: "genre_title.csv", Inserted: 2, Orphaned: 1}, got["genre_title.csv"])
	assert.Equal(t, FileResult{File: "review.csv", Inserted: 2, Orphaned: 1, Invalid: 1}, got["review.csv"])
	assert.Equal(t, FileResult{File: "comments.csv", Inserted: 1, Orphaned: 1}, got["comments.csv"])

	var user types.User
	require.NoError(t, gdb.First(&user, 100).Error)
	assert.Equal(t, "bingo@yamdb.fake", user.Email)

	var godfather types.Title
	require.NoError(t, gdb.First(&godfather, 2).Error)
	assert.Nil(t, godfather.CategoryID)

	var review types.Review
	require.NoError(t, gdb.First(&review, 2).Error)
	assert.Equal(t, "Fine, really", review.Text)
	assert.Equal(t, 2019, review.PubDate.Year())
}

func TestRunIsIdempotent(t *testing.T) {
	gdb := openDB(t, "importer_idempotent")
	im := New(gdb, logger.Nop())
	dir := writeFixtures(t)

	_, err := im.Run(context.Background(), dir)
	require.NoError(t, err)
	results, err := im.Run(context.Background(), dir)
	require.NoError(t, err)

	for _, r := range results {
		assert.Zero(t, r.Inserted, r.File)
	}
	var n int64
	require.NoError(t, gdb.Model(&types.Review{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestRunSkipsMissingFiles(t *testing.T) {
	gdb := openDB(t, "importer_missing")
	im := New(gdb, logger.Nop())

	results, err := im.Run(context.Background(), writeFixtures(t, "users.csv", "comments.csv"))
	require.NoError(t, err)
	got := byFile(results)
	assert.True(t, got["users.csv"].Missing)
	assert.True(t, got["comments.csv"].Missing)
	assert.Zero(t, got["review.csv"].Inserted)
	assert.EqualValues(t, 3, got["review.csv"].Orphaned)
}
