package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazycms/internal/models"
)

func compileRequest(t *testing.T, c *Compiler, raw string) models.QuerySpec {
	t.Helper()
	req, err := ParseEnvelope([]byte(raw))
	require.NoError(t, err)
	spec, err := c.RequestOptions(req)
	require.NoError(t, err)
	return spec
}

func entity(t *testing.T, c *Compiler, name string) *models.Entity {
	t.Helper()
	e, ok := c.entities.Lookup(name)
	require.True(t, ok, "entity %s not registered", name)
	return e
}

// selectList is the default projection of e under alias
func selectList(alias string, e *models.Entity) string {
	cols := make([]string, 0, len(e.Attributes))
	for _, attr := range e.AttributeNames() {
		cols = append(cols, `"`+alias+`"."`+e.Column(attr)+`" AS "`+attr+`"`)
	}
	return strings.Join(cols, ", ")
}

func TestBuildSelect_DefaultProjectionUsesAttributeNames(t *testing.T) {
	c := newTestCompiler(t)
	spec := compileRequest(t, c, `{"include": [{"model": "Category"}], "limit": 2}`)

	stmt, err := NewBuilder().BuildSelect(entity(t, c, "Article"), spec)
	require.NoError(t, err)

	require.Equal(t,
		`SELECT "Article"."fk_category_id" AS "categoryId", "Article"."content" AS "content", `+
			`"Article"."created_at" AS "createdAt", "Article"."header" AS "header", "Article"."id" AS "id", `+
			`"Article"."updated_at" AS "updatedAt", "Article"."fk_user_id" AS "userId", "Article"."views" AS "views", `+
			`(SELECT row_to_json("category.row") FROM (`+
			`SELECT "category"."created_at" AS "createdAt", "category"."description" AS "description", `+
			`"category"."id" AS "id", "category"."name" AS "name", "category"."updated_at" AS "updatedAt" `+
			`FROM "category" AS "category" WHERE "category"."id" = "Article"."fk_category_id" LIMIT 1`+
			`) AS "category.row") AS "category" `+
			`FROM "articles" AS "Article" LIMIT 2 OFFSET 0`,
		stmt.SQL)

	unmapped := &models.Entity{Name: "Log", Table: "log"}
	stmt, err = NewBuilder().BuildSelect(unmapped, models.QuerySpec{Limit: 1})
	require.NoError(t, err)
	require.Equal(t, `SELECT "Log".* FROM "log" AS "Log" LIMIT 1 OFFSET 0`, stmt.SQL)
}

func TestBuildSelect_FilterSortPage(t *testing.T) {
	c := newTestCompiler(t)
	spec := compileRequest(t, c, `{
		"filter": {"header": {"$like": "%go%"}, "views": {"$gte": 10}},
		"sort": {"field": "createdAt", "direction": "DESC"},
		"page": 2, "perPage": 10
	}`)

	article := entity(t, c, "Article")
	stmt, err := NewBuilder().BuildSelect(article, spec)
	require.NoError(t, err)

	require.Equal(t,
		`SELECT `+selectList("Article", article)+` FROM "articles" AS "Article" `+
			`WHERE ("Article"."header" LIKE $1) AND ("Article"."views" >= $2) `+
			`ORDER BY "Article"."created_at" DESC LIMIT 10 OFFSET 10`,
		stmt.SQL)
	require.Equal(t, []interface{}{"%go%", int64(10)}, stmt.Args)
}

func TestBuildSelect_RequiredInclude(t *testing.T) {
	c := newTestCompiler(t)
	spec := compileRequest(t, c, `{
		"include": [{"model": "Category", "required": true, "filter": {"name": "news"}}],
		"limit": 5
	}`)

	stmt, err := NewBuilder().BuildSelect(entity(t, c, "Article"), spec)
	require.NoError(t, err)

	join := `("category"."id" = "Article"."fk_category_id")`
	require.Equal(t,
		`SELECT `+selectList("Article", entity(t, c, "Article"))+`, (SELECT row_to_json("category.row") FROM (`+
			`SELECT `+selectList("category", entity(t, c, "Category"))+` FROM "category" AS "category" WHERE `+join+` AND ("category"."name" = $1) LIMIT 1`+
			`) AS "category.row") AS "category" `+
			`FROM "articles" AS "Article" `+
			`WHERE EXISTS (SELECT 1 FROM "category" AS "category" WHERE `+join+` AND ("category"."name" = $2)) `+
			`LIMIT 5 OFFSET 0`,
		stmt.SQL)
	require.Equal(t, []interface{}{"news", "news"}, stmt.Args)
}

func TestBuildSelect_HasManyNested(t *testing.T) {
	c := newTestCompiler(t)
	spec := compileRequest(t, c, `{
		"attributes": ["id", "userName"],
		"include": [{"model": "Article", "include": [{"model": "ArticleImgVideo"}]}]
	}`)

	stmt, err := NewBuilder().BuildSelect(entity(t, c, "User"), spec)
	require.NoError(t, err)

	images := `(SELECT coalesce(json_agg("articles->images.row"), '[]'::json) FROM (` +
		`SELECT ` + selectList("articles->images", entity(t, c, "ArticleImgVideo")) + ` FROM "article_img_video" AS "articles->images" ` +
		`WHERE "articles->images"."fk_article_id" = "articles"."id"` +
		`) AS "articles->images.row") AS "images"`
	articles := `(SELECT coalesce(json_agg("articles.row"), '[]'::json) FROM (` +
		`SELECT ` + selectList("articles", entity(t, c, "Article")) + `, ` + images + ` FROM "articles" AS "articles" ` +
		`WHERE "articles"."fk_user_id" = "User"."id"` +
		`) AS "articles.row") AS "articles"`

	require.Equal(t,
		`SELECT "User"."id" AS "id", "User"."user_name" AS "userName", `+articles+
			` FROM "user" AS "User" LIMIT 1000 OFFSET 0`,
		stmt.SQL)
	require.Empty(t, stmt.Args)
}

func TestBuildCount_OrInAndNull(t *testing.T) {
	c := newTestCompiler(t)
	spec := compileRequest(t, c, `{"filter": {"$or": [{"status": null}, {"id": {"$in": [1, 2]}}]}, "page": 4}`)

	stmt, err := NewBuilder().BuildCount(entity(t, c, "User"), spec)
	require.NoError(t, err)

	require.Equal(t,
		`SELECT count(*) AS count FROM "user" AS "User" `+
			`WHERE ("User"."status" IS NULL) OR ("User"."id" IN ($1, $2))`,
		stmt.SQL)
	require.Equal(t, []interface{}{int64(1), int64(2)}, stmt.Args)
}

func TestBuildCount_Grouped(t *testing.T) {
	c := newTestCompiler(t)
	spec := compileRequest(t, c, `{"group": ["categoryId"], "filter": {"views": {"$between": [1, 9]}}}`)

	stmt, err := NewBuilder().BuildCount(entity(t, c, "Article"), spec)
	require.NoError(t, err)

	require.Equal(t,
		`SELECT count(*) AS count FROM (SELECT 1 FROM "articles" AS "Article" `+
			`WHERE "Article"."views" BETWEEN $1 AND $2 GROUP BY "Article"."fk_category_id") AS grouped`,
		stmt.SQL)
}

func TestBuildSelect_Operators(t *testing.T) {
	c := newTestCompiler(t)
	article := entity(t, c, "Article")

	tests := []struct {
		name   string
		filter string
		where  string
		args   []interface{}
	}{
		{"ne null", `{"content": {"$ne": null}}`, `"Article"."content" IS NOT NULL`, nil},
		{"is true", `{"views": {"$is": true}}`, `"Article"."views" IS TRUE`, nil},
		{"not null", `{"views": {"$not": null}}`, `"Article"."views" IS NOT NULL`, nil},
		{"not in", `{"id": {"$notIn": [4]}}`, `"Article"."id" NOT IN ($1)`, []interface{}{int64(4)}},
		{"empty in", `{"id": {"$in": []}}`, `FALSE`, nil},
		{"iregexp", `{"header": {"$iRegexp": "^go"}}`, `"Article"."header" ~* $1`, []interface{}{"^go"}},
		{"any", `{"id": {"$any": [1, 2]}}`, `"Article"."id" = ANY ($1)`, []interface{}{[]interface{}{int64(1), int64(2)}}},
		{"like any", `{"header": {"$like": {"$any": ["a%", "b%"]}}}`, `"Article"."header" LIKE ANY ($1)`, []interface{}{[]interface{}{"a%", "b%"}}},
		{"all values", `{"id": {"$all": {"$values": [1, 2]}}}`, `"Article"."id" = ALL (VALUES ($1), ($2))`, []interface{}{int64(1), int64(2)}},
		{"col", `{"views": {"$gt": {"$col": "Article.id"}}}`, `"Article"."views" > "Article"."id"`, nil},
		{"contains", `{"tags": {"$contains": ["go"]}}`, `"Article"."tags" @> $1`, []interface{}{[]interface{}{"go"}}},
		{"column or", `{"views": {"$or": [{"$lt": 1}, {"$gt": 9}]}}`, `("Article"."views" < $1) OR ("Article"."views" > $2)`, []interface{}{int64(1), int64(9)}},
		{"not clause", `{"$not": {"id": 1}}`, `NOT ("Article"."id" = $1)`, []interface{}{int64(1)}},
		{"or with empty term is true", `{"$or": [{"id": 1}, {}]}`, ``, nil},
		{"empty or is false", `{"$or": []}`, `FALSE`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := compileRequest(t, c, `{"filter": `+tt.filter+`, "limit": 1}`)
			stmt, err := NewBuilder().BuildSelect(article, spec)
			require.NoError(t, err)

			want := `SELECT ` + selectList("Article", article) + ` FROM "articles" AS "Article"`
			if tt.where != "" {
				want += " WHERE " + tt.where
			}
			want += " LIMIT 1 OFFSET 0"
			require.Equal(t, want, stmt.SQL)
			if tt.args == nil {
				require.Empty(t, stmt.Args)
				return
			}
			require.Equal(t, tt.args, stmt.Args)
		})
	}
}

func TestBuildSelect_ScopedEmptyWhere(t *testing.T) {
	c := newTestCompiler(t)
	article := entity(t, c, "Article")

	spec := SetUserFilterToWhereSearch(models.QuerySpec{Limit: 3})
	stmt, err := NewBuilder().BuildSelect(article, spec)
	require.NoError(t, err)
	require.Equal(t, `SELECT `+selectList("Article", article)+` FROM "articles" AS "Article" LIMIT 3 OFFSET 0`, stmt.SQL)

	spec, err = AppendScope(spec, OwnerScope("userId", models.Principal{UserID: 7}))
	require.NoError(t, err)
	stmt, err = NewBuilder().BuildSelect(article, spec)
	require.NoError(t, err)
	require.Equal(t, `SELECT `+selectList("Article", article)+` FROM "articles" AS "Article" WHERE "Article"."fk_user_id" = $1 LIMIT 3 OFFSET 0`, stmt.SQL)
	require.Equal(t, []interface{}{int64(7)}, stmt.Args)
}

func TestBuildSelect_Errors(t *testing.T) {
	c := newTestCompiler(t)
	article := entity(t, c, "Article")
	b := NewBuilder()

	tests := []struct {
		name string
		req  string
	}{
		{"unresolved operator", `{"filter": {"header": {"$lik": "x"}}}`},
		{"unresolved entity", `{"include": [{"model": "Nope"}]}`},
		{"unassociated entity", `{"include": [{"model": "ArticleImgVideo", "as": "wrong"}]}`},
		{"bad direction", `{"sort": {"field": "id", "direction": "UP; DROP TABLE x"}}`},
		{"operator without field", `{"filter": {"$gt": 1}}`},
		{"nested field", `{"filter": {"user": {"name": "x"}}}`},
		{"between needs two", `{"filter": {"views": {"$between": [1]}}}`},
		{"leaf where", `{"filter": 5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := compileRequest(t, c, tt.req)
			_, err := b.BuildSelect(article, spec)
			require.Error(t, err)
		})
	}

	_, err := b.BuildSelect(nil, models.QuerySpec{})
	require.Error(t, err)
}
