package repository

import (
	"context"
	"testing"

	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type builtStatement struct {
	SQL  string
	Vars []interface{}
}

// DBに繋がず、組み立てたSQLだけを記録する
func newDryRunDB(t *testing.T) (*gorm.DB, *[]builtStatement) {
	t.Helper()

	db, err := gorm.Open(
		postgres.New(postgres.Config{DSN: "host=localhost user=app dbname=app sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true, SkipDefaultTransaction: true},
	)
	require.NoError(t, err)

	var built []builtStatement
	record := func(tx *gorm.DB) {
		built = append(built, builtStatement{
			SQL:  tx.Statement.SQL.String(),
			Vars: append([]interface{}(nil), tx.Statement.Vars...),
		})
	}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:record_query", record))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:record_update", record))
	require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("test:record_delete", record))

	return db, &built
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "lamp", escapeLike("lamp"))
	assert.Equal(t, `50\%`, escapeLike("50%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, escapeLike(`c:\tmp`))
	assert.Equal(t, `\\\%\_`, escapeLike(`\%_`))
}

func TestProductGormRepository_List_SearchIsLiteral(t *testing.T) {
	db, built := newDryRunDB(t)
	r := NewProductGormRepository(db)

	_, _, err := r.List(context.Background(), repo.ProductListQuery{Page: 2, Limit: 12, Search: "_"})
	require.NoError(t, err)

	// count と一覧の2本
	require.Len(t, *built, 2)
	for _, st := range *built {
		assert.Contains(t, st.SQL, `name ILIKE $1 ESCAPE '\' OR description ILIKE $2 ESCAPE '\'`)
		require.GreaterOrEqual(t, len(st.Vars), 2)
		assert.Equal(t, []interface{}{`%\_%`, `%\_%`}, st.Vars[:2])
	}

	list := (*built)[1]
	assert.Contains(t, list.SQL, "ORDER BY created_at desc,id desc")
	assert.Contains(t, list.SQL, "LIMIT $3 OFFSET $4")
	assert.Equal(t, []interface{}{`%\_%`, `%\_%`, 12, 12}, list.Vars)
}

func TestProductGormRepository_List_CombinedFilters(t *testing.T) {
	db, built := newDryRunDB(t)
	r := NewProductGormRepository(db)

	lo := decimal.RequireFromString("10")
	hi := decimal.RequireFromString("99.99")
	_, _, err := r.List(context.Background(), repo.ProductListQuery{
		Page:     1,
		Limit:    5,
		Category: "Home",
		Search:   "100%",
		MinPrice: &lo,
		MaxPrice: &hi,
	})
	require.NoError(t, err)
	require.Len(t, *built, 2)

	count := (*built)[0]
	assert.Contains(t, count.SQL, `SELECT count(*) FROM "products"`)
	assert.Contains(t, count.SQL, "category = $1 AND price >= $2 AND price <= $3")
	assert.Contains(t, count.SQL, `(name ILIKE $4 ESCAPE '\' OR description ILIKE $5 ESCAPE '\')`)
	assert.Equal(t, []interface{}{"Home", lo, hi, `%100\%%`, `%100\%%`}, count.Vars)

	// 1ページ目は OFFSET なし
	assert.NotContains(t, (*built)[1].SQL, "OFFSET")
}

func TestCartGormRepository_ListByUser_ScopedAndNewestFirst(t *testing.T) {
	db, built := newDryRunDB(t)
	r := NewCartGormRepository(db)

	_, err := r.ListByUser(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, *built, 1)
	st := (*built)[0]
	assert.Contains(t, st.SQL, `FROM "cart_lines" WHERE user_id = $1`)
	assert.Contains(t, st.SQL, "ORDER BY created_at desc,id desc")
	assert.Equal(t, []interface{}{"u1"}, st.Vars)
}

func TestCartGormRepository_DeleteByID_FiltersByOwner(t *testing.T) {
	db, built := newDryRunDB(t)
	r := NewCartGormRepository(db)

	// DryRun は0行扱いなので見つからない
	err := r.DeleteByID(context.Background(), "u1", "line-1")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.Len(t, *built, 1)
	st := (*built)[0]
	assert.Contains(t, st.SQL, `DELETE FROM "cart_lines" WHERE id = $1 AND user_id = $2`)
	assert.Equal(t, []interface{}{"line-1", "u1"}, st.Vars)
}

func TestCartGormRepository_FindByID_FiltersByOwner(t *testing.T) {
	db, built := newDryRunDB(t)
	r := NewCartGormRepository(db)

	_, _ = r.FindByID(context.Background(), "u1", "line-1")

	require.Len(t, *built, 1)
	st := (*built)[0]
	assert.Contains(t, st.SQL, `WHERE id = $1 AND user_id = $2`)
	assert.Equal(t, "line-1", st.Vars[0])
	assert.Equal(t, "u1", st.Vars[1])
}

func TestCartGormRepository_UpdateQuantity_NoRowIsNotFound(t *testing.T) {
	db, built := newDryRunDB(t)
	r := NewCartGormRepository(db)

	err := r.UpdateQuantity(context.Background(), "line-1", 4)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.Len(t, *built, 1)
	st := (*built)[0]
	assert.Contains(t, st.SQL, `UPDATE "cart_lines" SET "quantity"=$1 WHERE id = $2`)
	assert.Equal(t, []interface{}{int64(4), "line-1"}, st.Vars)
}

func TestCartGormRepository_DeleteAllByUser_ScopedToUser(t *testing.T) {
	db, built := newDryRunDB(t)
	r := NewCartGormRepository(db)

	n, err := r.DeleteAllByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, n)

	require.Len(t, *built, 1)
	assert.Contains(t, (*built)[0].SQL, `DELETE FROM "cart_lines" WHERE user_id = $1`)
	assert.Equal(t, []interface{}{"u1"}, (*built)[0].Vars)
}
