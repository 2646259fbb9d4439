// Package fixture provides the travel-map database description used by
// tests and examples: continents, countries, visit tracking and per-user
// statistics in "public", plus the GraphQL entry point in "graphql_public".
package fixture

import "github.com/koustreak/schemareg/internal/schema"

func def(expr string) *string { return &expr }

func col(name string, t schema.Type) schema.Column {
	return schema.Column{Name: name, Type: t}
}

func nullable(name string, t schema.Type) schema.Column {
	return schema.Column{Name: name, Type: t, Nullable: true}
}

func defaulted(name string, t schema.Type, expr string) schema.Column {
	return schema.Column{Name: name, Type: t, Default: def(expr)}
}

func timestamps() []schema.Column {
	return []schema.Column{
		{Name: "created_at", Type: schema.String, Nullable: true, Default: def("now()")},
		{Name: "updated_at", Type: schema.String, Nullable: true, Default: def("now()")},
	}
}

// Travel builds the travel-map database. It panics if the description is
// inconsistent, which would be a bug in this package.
func Travel() *schema.Database {
	db, err := schema.NewBuilder().
		Schema("graphql_public").
		Function(schema.NewFunction("graphql",
			[]schema.Column{
				defaulted("operationName", schema.String, "NULL"),
				defaulted("query", schema.String, "NULL"),
				defaulted("variables", schema.JSON, "NULL"),
				defaulted("extensions", schema.JSON, "NULL"),
			},
			schema.Scalar(schema.JSON),
		)).
		Schema("public").
		Table(
			continents(),
			countries(),
			plannedVisits(),
			userMapSettings(),
			userVisitedCountries(),
		).
		View(userStatistics()).
		Function(
			schema.NewFunction("refresh_user_statistics", nil, schema.Void()),
			schema.NewFunction("search_countries_and_continents",
				[]schema.Column{col("search_term", schema.String)},
				schema.SetOf(
					col("type", schema.String),
					col("id", schema.Number),
					col("name", schema.String),
					col("code", schema.String),
				),
			),
		).
		Build()
	if err != nil {
		panic(err)
	}
	if err := db.Validate(); err != nil {
		panic(err)
	}
	return db
}

func continents() *schema.Table {
	return schema.NewTable("continents", append([]schema.Column{
		defaulted("id", schema.Number, "nextval('continents_id_seq'::regclass)"),
		col("name", schema.String),
		col("code", schema.String),
	}, timestamps()...))
}

func countries() *schema.Table {
	cols := []schema.Column{
		defaulted("id", schema.Number, "nextval('countries_id_seq'::regclass)"),
		col("name", schema.String),
		col("continent_id", schema.Number),
		nullable("blog_url", schema.String),
		nullable("flag_url", schema.String),
		col("geojson", schema.JSON),
		nullable("search_vector", schema.Unknown),
	}
	return schema.NewTable("countries", append(cols, timestamps()...),
		schema.Relationship{
			ForeignKeyName:     "countries_continent_id_fkey",
			Columns:            []string{"continent_id"},
			ReferencedRelation: "continents",
			ReferencedColumns:  []string{"id"},
		},
	)
}

func plannedVisits() *schema.Table {
	cols := []schema.Column{
		col("user_id", schema.String),
		col("country_id", schema.Number),
		nullable("planned_date", schema.String),
	}
	return schema.NewTable("planned_visits", append(cols, timestamps()...),
		schema.Relationship{
			ForeignKeyName:     "planned_visits_country_id_fkey",
			Columns:            []string{"country_id"},
			ReferencedRelation: "countries",
			ReferencedColumns:  []string{"id"},
		},
	)
}

func userMapSettings() *schema.Table {
	cols := []schema.Column{
		col("user_id", schema.String),
		nullable("selected_continent_id", schema.Number),
		nullable("other_filters", schema.JSON),
	}
	return schema.NewTable("user_map_settings", append(cols, timestamps()...),
		schema.Relationship{
			ForeignKeyName:     "user_map_settings_selected_continent_id_fkey",
			Columns:            []string{"selected_continent_id"},
			ReferencedRelation: "continents",
			ReferencedColumns:  []string{"id"},
		},
	)
}

func userVisitedCountries() *schema.Table {
	return schema.NewTable("user_visited_countries",
		[]schema.Column{
			col("user_id", schema.String),
			col("country_id", schema.Number),
			col("visited_at", schema.String),
			{Name: "created_at", Type: schema.String, Nullable: true, Default: def("now()")},
		},
		schema.Relationship{
			ForeignKeyName:     "user_visited_countries_country_id_fkey",
			Columns:            []string{"country_id"},
			ReferencedRelation: "countries",
			ReferencedColumns:  []string{"id"},
		},
	)
}

func userStatistics() *schema.View {
	return schema.NewView("user_statistics", []schema.Column{
		nullable("user_id", schema.String),
		nullable("visited_percentage", schema.Number),
		nullable("continents_percentage", schema.Number),
		nullable("visits_by_continent", schema.JSON),
	})
}
