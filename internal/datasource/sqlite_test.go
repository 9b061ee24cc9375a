package datasource

import (
	"testing"

	"github.com/aadamsx/josson/internal/node"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.DB.Exec(`create table users (id integer, name text)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.DB.Exec(`insert into users (id, name) values (1,'ada'), (2,'alan')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return db
}

func TestSQLiteFindOne(t *testing.T) {
	db := openTestDB(t)
	got, err := db.Find("users?", "id=1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if node.Marshal(got) != `{"id":1,"name":"ada"}` {
		t.Errorf("got %s", node.Marshal(got))
	}
}

func TestSQLiteFindMany(t *testing.T) {
	db := openTestDB(t)
	got, err := db.Find("users[]", "")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !got.IsArray() || got.Len() != 2 {
		t.Fatalf("got %s", node.Marshal(got))
	}
}

func TestSQLiteFindOneTooManyRowsErrors(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Find("users?", ""); err == nil {
		t.Errorf("expected an error when a find-one query matches more than one row")
	}
}

func TestSQLiteFindRejectsEmptyCollectionName(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Find("", ""); err == nil {
		t.Errorf("expected an error for an empty collection name")
	}
}
