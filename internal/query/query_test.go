package query

import (
	"reflect"
	"testing"
)

func TestWhere_Nil(t *testing.T) {
	sql, args := Where(nil)
	if sql != "" {
		t.Errorf("Where(nil) sql = %q, want empty", sql)
	}
	if len(args) != 0 {
		t.Errorf("Where(nil) args = %v, want none", args)
	}
}

func TestWhere_Compilation(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expr
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "single equality",
			expr:     Eq("user_id", "u1"),
			wantSQL:  "WHERE user_id = ?",
			wantArgs: []any{"u1"},
		},
		{
			name:     "and of two",
			expr:     And(Eq("user_id", "u1"), Eq("collection_id", "c1")),
			wantSQL:  "WHERE (user_id = ? AND collection_id = ?)",
			wantArgs: []any{"u1", "c1"},
		},
		{
			name:     "nil children are skipped",
			expr:     And(Eq("user_id", "u1"), nil, nil),
			wantSQL:  "WHERE user_id = ?",
			wantArgs: []any{"u1"},
		},
		{
			name:    "empty and is neutral",
			expr:    And(),
			wantSQL: "WHERE 1=1",
		},
		{
			name: "or over text columns",
			expr: Or(Contains("name", "Blue"), Contains("address", "Blue")),
			wantSQL: "WHERE (instr(lower(name), ?) > 0" +
				" OR instr(lower(address), ?) > 0)",
			wantArgs: []any{"blue", "blue"},
		},
		{
			name:     "in with values",
			expr:     InStrings("tag_id", []string{"t1", "t2"}),
			wantSQL:  "WHERE tag_id IN (?, ?)",
			wantArgs: []any{"t1", "t2"},
		},
		{
			name:    "in with empty set matches nothing",
			expr:    In("tag_id"),
			wantSQL: "WHERE 1=0",
		},
		{
			name:    "is null",
			expr:    IsNull("collection_id"),
			wantSQL: "WHERE collection_id IS NULL",
		},
		{
			name: "subquery membership",
			expr: InSubquery("id",
				"SELECT place_id FROM place_tags WHERE tag_id = ?", "t1"),
			wantSQL:  "WHERE id IN (SELECT place_id FROM place_tags WHERE tag_id = ?)",
			wantArgs: []any{"t1"},
		},
		{
			name: "nested and/or keeps placeholder order",
			expr: And(
				Eq("user_id", "u1"),
				Or(Contains("name", "A"), Contains("notes", "B")),
				IsNull("collection_id"),
			),
			wantSQL: "WHERE (user_id = ? AND (instr(lower(name), ?) > 0" +
				" OR instr(lower(notes), ?) > 0) AND collection_id IS NULL)",
			wantArgs: []any{"u1", "a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := Where(tt.expr)
			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if len(tt.wantArgs) == 0 && len(args) == 0 {
				return
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

// Case-insensitive matching lowers the needle at build time; the column side
// is lowered by SQLite's lower() in the compiled fragment.
func TestContains_LowersNeedle(t *testing.T) {
	_, args := Where(Contains("name", "CoFFee"))
	if len(args) != 1 || args[0] != "coffee" {
		t.Errorf("args = %v, want [coffee]", args)
	}
}
