// Package sqlstore implements the game and session stores over database/sql.
// Queries are written with ? placeholders and rebound for drivers that
// number them.
package sqlstore

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Placeholders selects the bind variable syntax of the driver
type Placeholders int

const (
	Question Placeholders = iota // sqlite
	Dollar                       // postgres
)

func (p Placeholders) rebind(query string) string {
	if p != Dollar {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Store bundles both stores over one handle
type Store struct {
	Games    *GameRepo
	Sessions *SessionRepo
}

func New(db *sql.DB, p Placeholders) *Store {
	return &Store{
		Games:    NewGameRepo(db, p),
		Sessions: NewSessionRepo(db, p),
	}
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}
