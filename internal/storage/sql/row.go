package sql

import (
	"database/sql"
	"sessionstore/internal/domain/models"
	"strings"
	"time"
)

// row is the relational form of models.Session. Expires is stored in whole
// seconds since epoch.
type row struct {
	id               string
	shop             string
	state            string
	isOnline         bool
	scope            sql.NullString
	expires          sql.NullInt64
	onlineAccessInfo sql.NullString
	accessToken      sql.NullString
}

type column struct {
	name       string
	definition string
	value      func(r *row) any
	dest       func(r *row) any
}

const keyColumn = "id"

var columns = []column{
	{
		name:       "id",
		definition: "varchar(255) NOT NULL PRIMARY KEY",
		value:      func(r *row) any { return r.id },
		dest:       func(r *row) any { return &r.id },
	},
	{
		name:       "shop",
		definition: "varchar(255) NOT NULL",
		value:      func(r *row) any { return r.shop },
		dest:       func(r *row) any { return &r.shop },
	},
	{
		name:       "state",
		definition: "varchar(255) NOT NULL",
		value:      func(r *row) any { return r.state },
		dest:       func(r *row) any { return &r.state },
	},
	{
		name:       "isOnline",
		definition: "boolean NOT NULL",
		value:      func(r *row) any { return r.isOnline },
		dest:       func(r *row) any { return &r.isOnline },
	},
	{
		name:       "scope",
		definition: "varchar(255)",
		value:      func(r *row) any { return r.scope },
		dest:       func(r *row) any { return &r.scope },
	},
	{
		name:       "expires",
		definition: "bigint",
		value:      func(r *row) any { return r.expires },
		dest:       func(r *row) any { return &r.expires },
	},
	{
		name:       "onlineAccessInfo",
		definition: "varchar(255)",
		value:      func(r *row) any { return r.onlineAccessInfo },
		dest:       func(r *row) any { return &r.onlineAccessInfo },
	},
	{
		name:       "accessToken",
		definition: "varchar(255)",
		value:      func(r *row) any { return r.accessToken },
		dest:       func(r *row) any { return &r.accessToken },
	},
}

func newRow(session models.Session) row {
	return row{
		id:               session.ID,
		shop:             session.Shop,
		state:            session.State,
		isOnline:         session.IsOnline,
		scope:            nullString(session.Scope),
		expires:          expiresToSeconds(session.Expires),
		onlineAccessInfo: nullString(session.OnlineAccessInfo),
		accessToken:      nullString(session.AccessToken),
	}
}

func (r *row) session() models.Session {
	return models.Session{
		ID:               r.id,
		Shop:             r.shop,
		State:            r.state,
		IsOnline:         r.isOnline,
		Scope:            r.scope.String,
		Expires:          secondsToExpires(r.expires),
		OnlineAccessInfo: r.onlineAccessInfo.String,
		AccessToken:      r.accessToken.String,
	}
}

func (r *row) values() []any {
	res := make([]any, 0, len(columns))
	for _, c := range columns {
		res = append(res, c.value(r))
	}
	return res
}

func (r *row) dests() []any {
	res := make([]any, 0, len(columns))
	for _, c := range columns {
		res = append(res, c.dest(r))
	}
	return res
}

// expiresToSeconds drops the sub-second part of the expiry.
func expiresToSeconds(expires time.Time) sql.NullInt64 {
	if expires.IsZero() {
		return sql.NullInt64{}
	}

	ms := expires.UnixMilli()
	seconds := ms / 1000
	if ms%1000 < 0 {
		seconds--
	}

	return sql.NullInt64{Int64: seconds, Valid: true}
}

func secondsToExpires(seconds sql.NullInt64) time.Time {
	if !seconds.Valid || seconds.Int64 == 0 {
		return time.Time{}
	}

	return time.UnixMilli(seconds.Int64 * 1000).UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Column names are left unquoted so postgres folds them to lower case, the
// same way it does for tables created by other session adapters.
func columnList() string {
	names := make([]string, 0, len(columns))
	for _, c := range columns {
		names = append(names, c.name)
	}
	return strings.Join(names, ", ")
}

func columnDefinitions() string {
	defs := make([]string, 0, len(columns))
	for _, c := range columns {
		defs = append(defs, c.name+" "+c.definition)
	}
	return strings.Join(defs, ",\n\t")
}

// upsertAssignments overwrites every non-key column with the inserted value.
func upsertAssignments() string {
	sets := make([]string, 0, len(columns)-1)
	for _, c := range columns {
		if c.name == keyColumn {
			continue
		}
		sets = append(sets, c.name+" = EXCLUDED."+c.name)
	}
	return strings.Join(sets, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
