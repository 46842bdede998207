package main

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/bekirdag/gridview/internal/layout"
	"github.com/bekirdag/gridview/internal/source"
)

func namesTable() *source.Table {
	tbl := &source.Table{Name: "names", Columns: []string{"name", "team"}}
	for i := 0; i < 30; i++ {
		team := "blue"
		if i%2 == 0 {
			team = "red"
		}
		tbl.Records = append(tbl.Records, source.NewRecord(int64(i+1), map[string]string{
			"name": fmt.Sprintf("n%02d", i+1),
			"team": team,
		}))
	}
	return tbl
}

func TestSnapshotScrolledWindow(t *testing.T) {
	out, err := snapshot(&layout.Config{}, namesTable(), snapshotOptions{width: 40, height: 6, top: 10})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"name", "team", "n11", "n16", "rows 11-16 of 30"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	for _, absent := range []string{"n10", "n17"} {
		if strings.Contains(out, absent) {
			t.Fatalf("unexpected %q in:\n%s", absent, out)
		}
	}
}

func TestSnapshotGrouped(t *testing.T) {
	opts := snapshotOptions{width: 40, height: 6, groupBy: []string{"team"}, expand: []string{"red"}}
	out, err := snapshot(&layout.Config{}, namesTable(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "▾ red (15)") || !strings.Contains(out, "of 17") {
		t.Fatalf("grouped output:\n%s", out)
	}
	if strings.Contains(out, "blue") {
		t.Fatalf("blue header is below the viewport:\n%s", out)
	}
}

func TestSnapshotASCII(t *testing.T) {
	opts := snapshotOptions{width: 40, height: 4, format: "ascii"}
	out, err := snapshot(&layout.Config{}, namesTable(), opts)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "+-") {
		t.Fatalf("expected a bordered table:\n%s", out)
	}
	for _, want := range []string{"name", "| n01", "n03", "rows 1-4 of 30"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}

	opts.format = "html"
	if _, err := snapshot(&layout.Config{}, namesTable(), opts); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestSnapshotEmpty(t *testing.T) {
	tbl := &source.Table{Name: "empty", Columns: []string{"a"}}
	out, err := snapshot(&layout.Config{}, tbl, snapshotOptions{width: 20, height: 5})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out, "no rows") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestLoadTableFromDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.sqlite")
	store, err := source.OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Import(namesTable()); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	tbl, err := loadTable(path, "names", "", "fields")
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Records) != 30 || tbl.Records[29].CellValue("name") != "n30" {
		t.Fatalf("loaded %d records", len(tbl.Records))
	}

	var b strings.Builder
	if err := printTables(path, &b); err != nil {
		t.Fatal(err)
	}
	if b.String() != "names\n" {
		t.Fatalf("tables: %q", b.String())
	}

	if _, err := loadTable("", "", "", "fields"); err == nil {
		t.Fatal("expected an error without a source")
	}
	if _, err := loadTable(path, "", "", "fields"); err == nil {
		t.Fatal("expected an error without -table")
	}
}

func TestStarterLayout(t *testing.T) {
	tbl := &source.Table{Name: "stock", Columns: []string{"name", "qty"}}
	tbl.Records = append(tbl.Records,
		source.NewRecord(1, map[string]string{"name": "bolt", "qty": "12"}),
		source.NewRecord(2, map[string]string{"name": "nut", "qty": " 3.5"}),
	)
	cfg := starterLayout(tbl, []string{"name"})
	want := []layout.Column{{Key: "name"}, {Key: "qty", Type: "number"}}
	if !reflect.DeepEqual(cfg.Columns, want) || !reflect.DeepEqual(cfg.GroupBy, []string{"name"}) {
		t.Fatalf("layout = %+v", cfg)
	}

	path := filepath.Join(t.TempDir(), "layout.yaml")
	if err := layout.Save(cfg, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := layout.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Matches(tbl) {
		t.Fatalf("starter layout should match its table: %+v", loaded)
	}
	if numericColumn(&source.Table{Columns: []string{"a"}}, "a") {
		t.Fatal("an empty table has no numeric columns")
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(" a, ,b "); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("got %v", got)
	}
	if splitList("") != nil {
		t.Fatal("empty list should be nil")
	}
}
