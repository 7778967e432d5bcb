package database

import (
	"strings"
	"testing"
)

func TestSchemaStatements(t *testing.T) {
	stmts := statements(schema)
	if len(stmts) != 6 {
		t.Fatalf("statements = %d, want 6", len(stmts))
	}
	for _, table := range []string{"users", "hotels", "rooms", "discounts", "bookings", "booking_rooms"} {
		found := false
		for _, s := range stmts {
			if strings.HasPrefix(s, "CREATE TABLE IF NOT EXISTS "+table+" ") {
				found = true
			}
		}
		if !found {
			t.Errorf("no CREATE TABLE for %s", table)
		}
	}
}
