package models

import "sort"

// AssociationKind is the cardinality of a relation between two entities
type AssociationKind string

const (
	BelongsTo AssociationKind = "belongs_to"
	HasMany   AssociationKind = "has_many"
	HasOne    AssociationKind = "has_one"
)

// Association links an entity to a target entity.
// For belongs_to the foreign key column lives on the owning entity,
// otherwise it lives on the target.
type Association struct {
	As         string          `mapstructure:"as" yaml:"as"`
	Target     string          `mapstructure:"target" yaml:"target"`
	Kind       AssociationKind `mapstructure:"kind" yaml:"kind"`
	ForeignKey string          `mapstructure:"foreign_key" yaml:"foreign_key"`
}

// Entity is the backend handle an entity-name token resolves to
type Entity struct {
	Name         string            `mapstructure:"name" yaml:"name"`
	Schema       string            `mapstructure:"schema" yaml:"schema"`
	Table        string            `mapstructure:"table" yaml:"table"`
	PrimaryKey   string            `mapstructure:"primary_key" yaml:"primary_key"`
	Attributes   map[string]string `mapstructure:"attributes" yaml:"attributes"`
	Associations []Association     `mapstructure:"associations" yaml:"associations"`
}

// Column maps a client attribute name to its column; unknown names are used as-is
func (e *Entity) Column(attr string) string {
	if col, ok := e.Attributes[attr]; ok && col != "" {
		return col
	}
	return attr
}

// AttributeNames returns the mapped attribute names, sorted
func (e *Entity) AttributeNames() []string {
	names := make([]string, 0, len(e.Attributes))
	for name := range e.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrimaryKeyColumn returns the primary key column, "id" when unset
func (e *Entity) PrimaryKeyColumn() string {
	if e.PrimaryKey == "" {
		return "id"
	}
	return e.PrimaryKey
}

// Association finds the relation to target. When as is empty the first
// association to target wins.
func (e *Entity) Association(target, as string) (Association, bool) {
	for _, a := range e.Associations {
		if a.Target != target {
			continue
		}
		if as == "" || a.As == as {
			return a, true
		}
	}
	return Association{}, false
}

// DefaultEntities describes the content-management schema
func DefaultEntities() []Entity {
	timestamps := func(m map[string]string) map[string]string {
		m["createdAt"] = "created_at"
		m["updatedAt"] = "updated_at"
		return m
	}

	return []Entity{
		{
			Name:  "User",
			Table: "user",
			Attributes: timestamps(map[string]string{
				"id":          "id",
				"nickname":    "nickname",
				"userName":    "user_name",
				"image":       "image",
				"role":        "role",
				"description": "description",
				"status":      "status",
			}),
			Associations: []Association{
				{As: "articles", Target: "Article", Kind: HasMany, ForeignKey: "fk_user_id"},
			},
		},
		{
			Name:  "Category",
			Table: "category",
			Attributes: timestamps(map[string]string{
				"id":          "id",
				"name":        "name",
				"description": "description",
			}),
			Associations: []Association{
				{As: "articles", Target: "Article", Kind: HasMany, ForeignKey: "fk_category_id"},
			},
		},
		{
			Name:  "Article",
			Table: "articles",
			Attributes: timestamps(map[string]string{
				"id":         "id",
				"header":     "header",
				"content":    "content",
				"categoryId": "fk_category_id",
				"userId":     "fk_user_id",
				"views":      "views",
			}),
			Associations: []Association{
				{As: "user", Target: "User", Kind: BelongsTo, ForeignKey: "fk_user_id"},
				{As: "category", Target: "Category", Kind: BelongsTo, ForeignKey: "fk_category_id"},
				{As: "images", Target: "ArticleImgVideo", Kind: HasMany, ForeignKey: "fk_article_id"},
			},
		},
		{
			Name:  "ArticleImgVideo",
			Table: "article_img_video",
			Attributes: timestamps(map[string]string{
				"id":        "id",
				"url":       "url",
				"type":      "type",
				"articleId": "fk_article_id",
			}),
			Associations: []Association{
				{As: "article", Target: "Article", Kind: BelongsTo, ForeignKey: "fk_article_id"},
			},
		},
	}
}
