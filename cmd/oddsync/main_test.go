package main

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestTSVReaderHeaderIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sample.tsv", "id\tname\tvalue\n1\tfoo\t42\n")
	f, r, cols, err := tsvReader(filepath.Join(dir, "sample.tsv"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if cols["name"] != 1 || cols["value"] != 2 {
		t.Fatalf("cols = %v", cols)
	}
	rec, err := r.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rec[cols["value"]] != "42" {
		t.Fatalf("value = %q", rec[cols["value"]])
	}
}

func TestTSVReaderToleratesBareQuotes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "persons.tsv", "wca_id\tname\n2016AAAA01\tJohn \"Speed\" Doe\n")
	f, r, cols, err := tsvReader(filepath.Join(dir, "persons.tsv"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rec, err := r.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if rec[cols["name"]] != `John "Speed" Doe` {
		t.Fatalf("name = %q", rec[cols["name"]])
	}
}

func TestLoadCompetitionDates(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "WCA_export_competitions.tsv",
		"id\tname\tyear\tmonth\tday\n"+
			"TestOpen2026\tTest Open 2026\t2026\t8\t22\n"+
			"BadRow\tBad\tx\ty\tz\n")
	dates, err := loadCompetitionDates(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)
	if got := dates["TestOpen2026"]; !got.Equal(want) {
		t.Fatalf("date = %v want %v", got, want)
	}
	if _, ok := dates["BadRow"]; ok {
		t.Fatalf("unparseable row survived")
	}
}

func TestLoadResultMeta(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "WCA_export_results.tsv",
		"id\tperson_id\tevent_id\tcompetition_id\n"+
			"7\t2016AAAA01\t333\tTestOpen2026\n")
	meta, err := loadResultMeta(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m, ok := meta[7]
	if !ok {
		t.Fatalf("result 7 missing: %v", meta)
	}
	if m.personID != "2016AAAA01" || m.eventID != "333" || m.competitionID != "TestOpen2026" {
		t.Fatalf("meta = %+v", m)
	}
}

func TestExtractOneMatchesNestedNames(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "export.zip")
	zf, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(zf)
	w, err := zw.Create("WCA_export_2026-08-22/WCA_export_persons.tsv")
	if err != nil {
		t.Fatalf("zip entry: %v", err)
	}
	w.Write([]byte("wca_id\tname\n"))
	zw.Close()
	zf.Close()

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer zr.Close()

	if err := extractOne(zr, "WCA_export_persons.tsv", dir); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "WCA_export_persons.tsv")); err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if err := extractOne(zr, "WCA_export_missing.tsv", dir); err == nil {
		t.Fatalf("missing entry did not error")
	}
}
