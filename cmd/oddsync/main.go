// oddsync downloads the WCA results export and loads it into Postgres.
//
// The loader builds staging tables (results_new, persons_new), bulk-copies
// the joined export data into them, indexes them, and then swaps them in
// for the live tables inside a single transaction. The API server keeps
// serving the old tables until the swap commits.
//
// results rows are one attempt each: (person_id, event_id,
// competition_date, value). The export splits this across three files
// (values in result_attempts, person/event in results, dates in
// competitions), so the join happens here, in memory, before the copy.
package main

import (
	"archive/zip"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lib/pq"

	"github.com/mckeenicholas/wca-odds-next/src/logging"
)

const defaultEndpoint = "https://www.worldcubeassociation.org/export/results/v2/tsv"

var exportFiles = []string{
	"WCA_export_competitions.tsv",
	"WCA_export_results.tsv",
	"WCA_export_result_attempts.tsv",
	"WCA_export_persons.tsv",
}

const (
	connectRetries    = 5
	connectRetryDelay = 5 * time.Second
	copyBatchLog      = 1_000_000
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func connect() (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("POSTGRES_HOST", "localhost"),
		envOr("POSTGRES_PORT", "5432"),
		envOr("POSTGRES_USER", "postgres"),
		os.Getenv("POSTGRES_PASSWORD"),
		envOr("POSTGRES_DB", "wca"))
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	for attempt := connectRetries; attempt > 0; attempt-- {
		if err = db.Ping(); err == nil {
			return db, nil
		}
		logging.Warnf("database not ready, retrying in %s (%d attempts left)", connectRetryDelay, attempt-1)
		time.Sleep(connectRetryDelay)
	}
	db.Close()
	return nil, fmt.Errorf("database unreachable: %w", err)
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`, name).Scan(&exists)
	return exists, err
}

// downloadExport fetches the export zip and extracts the needed TSVs into
// dir. The zip nests files under a dated directory, so matching is by
// basename suffix.
func downloadExport(endpoint, dir string) error {
	logging.Infof("downloading export from %s", endpoint)
	resp, err := http.Get(endpoint)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: status %s", resp.Status)
	}

	zipPath := filepath.Join(dir, "export.zip")
	f, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("download: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("opening export zip: %w", err)
	}
	defer zr.Close()

	for _, want := range exportFiles {
		if err := extractOne(zr, want, dir); err != nil {
			return err
		}
	}
	return os.Remove(zipPath)
}

func extractOne(zr *zip.ReadCloser, name, dir string) error {
	for _, zf := range zr.File {
		if filepath.Base(zf.Name) != name {
			continue
		}
		src, err := zf.Open()
		if err != nil {
			return err
		}
		defer src.Close()
		dst, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			return fmt.Errorf("extracting %s: %w", name, err)
		}
		return dst.Close()
	}
	return fmt.Errorf("export is missing %s", name)
}

// tsvReader opens a TSV file and returns the reader plus a column-name to
// index map built from the header row.
func tsvReader(path string) (*os.File, *csv.Reader, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	r := csv.NewReader(f)
	r.Comma = '\t'
	// The export is not quote-escaped; person names contain " freely.
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, nil, nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	return f, r, cols, nil
}

// loadCompetitionDates maps competition ID to its start date.
func loadCompetitionDates(dir string) (map[string]time.Time, error) {
	f, r, cols, err := tsvReader(filepath.Join(dir, "WCA_export_competitions.tsv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dates := make(map[string]time.Time)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading competitions: %w", err)
		}
		year, err1 := strconv.Atoi(rec[cols["year"]])
		month, err2 := strconv.Atoi(rec[cols["month"]])
		day, err3 := strconv.Atoi(rec[cols["day"]])
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		dates[rec[cols["id"]]] = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	}
	return dates, nil
}

type resultMeta struct {
	personID      string
	eventID       string
	competitionID string
}

// loadResultMeta maps result ID to its person, event, and competition.
func loadResultMeta(dir string) (map[int64]resultMeta, error) {
	f, r, cols, err := tsvReader(filepath.Join(dir, "WCA_export_results.tsv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta := make(map[int64]resultMeta)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading results: %w", err)
		}
		id, err := strconv.ParseInt(rec[cols["id"]], 10, 64)
		if err != nil {
			continue
		}
		meta[id] = resultMeta{
			personID:      rec[cols["person_id"]],
			eventID:       rec[cols["event_id"]],
			competitionID: rec[cols["competition_id"]],
		}
	}
	logging.Infof("loaded %d result rows", len(meta))
	return meta, nil
}

// copyResults streams joined attempt rows into results_new.
func copyResults(txn *sql.Tx, dir string, meta map[int64]resultMeta, dates map[string]time.Time) (int64, error) {
	f, r, cols, err := tsvReader(filepath.Join(dir, "WCA_export_result_attempts.tsv"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	stmt, err := txn.Prepare(pq.CopyIn("results_new", "person_id", "event_id", "competition_date", "value"))
	if err != nil {
		return 0, fmt.Errorf("preparing copy: %w", err)
	}

	var count int64
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading attempts: %w", err)
		}
		resultID, err := strconv.ParseInt(rec[cols["result_id"]], 10, 64)
		if err != nil {
			continue
		}
		value, err := strconv.Atoi(rec[cols["value"]])
		if err != nil {
			continue
		}
		m, ok := meta[resultID]
		if !ok {
			continue
		}
		var date any
		if d, ok := dates[m.competitionID]; ok {
			date = d
		}
		if _, err := stmt.Exec(m.personID, m.eventID, date, value); err != nil {
			return 0, fmt.Errorf("copying attempt row: %w", err)
		}
		count++
		if count%copyBatchLog == 0 {
			logging.Infof("copied %d attempt rows...", count)
		}
	}

	if _, err := stmt.Exec(); err != nil {
		return 0, fmt.Errorf("flushing copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("closing copy: %w", err)
	}
	return count, nil
}

// copyPersons streams persons into persons_new, deduplicating on person ID.
// The export repeats a person once per sub-ID; first row wins.
func copyPersons(txn *sql.Tx, dir string) (int64, error) {
	f, r, cols, err := tsvReader(filepath.Join(dir, "WCA_export_persons.tsv"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	stmt, err := txn.Prepare(pq.CopyIn("persons_new", "person_id", "name"))
	if err != nil {
		return 0, fmt.Errorf("preparing copy: %w", err)
	}

	seen := make(map[string]bool)
	var count int64
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading persons: %w", err)
		}
		id := rec[cols["wca_id"]]
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if _, err := stmt.Exec(id, rec[cols["name"]]); err != nil {
			return 0, fmt.Errorf("copying person row: %w", err)
		}
		count++
	}

	if _, err := stmt.Exec(); err != nil {
		return 0, fmt.Errorf("flushing copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("closing copy: %w", err)
	}
	return count, nil
}

func load(db *sql.DB, dir string) error {
	dates, err := loadCompetitionDates(dir)
	if err != nil {
		return err
	}
	meta, err := loadResultMeta(dir)
	if err != nil {
		return err
	}

	txn, err := db.Begin()
	if err != nil {
		return err
	}
	defer txn.Rollback()

	logging.Infof("initializing staging tables")
	stagingDDL := []string{
		`DROP TABLE IF EXISTS results_new CASCADE`,
		`DROP TABLE IF EXISTS persons_new CASCADE`,
		`CREATE TABLE results_new (
			person_id VARCHAR(10),
			event_id VARCHAR(50),
			competition_date DATE,
			value INTEGER
		)`,
		`CREATE TABLE persons_new (
			person_id VARCHAR(10) PRIMARY KEY,
			name VARCHAR(255)
		)`,
	}
	for _, ddl := range stagingDDL {
		if _, err := txn.Exec(ddl); err != nil {
			return fmt.Errorf("staging DDL: %w", err)
		}
	}

	persons, err := copyPersons(txn, dir)
	if err != nil {
		return err
	}
	logging.Infof("loaded %d persons", persons)

	attempts, err := copyResults(txn, dir, meta, dates)
	if err != nil {
		return err
	}
	logging.Infof("loaded %d attempt rows", attempts)

	logging.Infof("building index")
	if _, err := txn.Exec(`
		CREATE INDEX idx_results_person_new
		ON results_new(person_id, event_id, competition_date DESC)`); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	logging.Infof("swapping tables")
	swap := []string{
		`DROP TABLE IF EXISTS results CASCADE`,
		`DROP TABLE IF EXISTS persons CASCADE`,
		`ALTER TABLE results_new RENAME TO results`,
		`ALTER TABLE persons_new RENAME TO persons`,
		`ALTER INDEX idx_results_person_new RENAME TO idx_results_person`,
	}
	for _, stmt := range swap {
		if _, err := txn.Exec(stmt); err != nil {
			return fmt.Errorf("table swap: %w", err)
		}
	}
	return txn.Commit()
}

func main() {
	skipIfLoaded := flag.Bool("skip-if-loaded", false, "Exit without loading when the results table already exists")
	endpoint := flag.String("endpoint", defaultEndpoint, "WCA export endpoint URL")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	logging.SetLevel(*logLevel)

	db, err := connect()
	if err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
	defer db.Close()

	if *skipIfLoaded {
		exists, err := tableExists(db, "results")
		if err != nil {
			logging.Errorf("checking for results table: %v", err)
			os.Exit(1)
		}
		if exists {
			logging.Infof("results table already exists, nothing to do")
			return
		}
	}

	dir, err := os.MkdirTemp("", "wca-export-*")
	if err != nil {
		logging.Errorf("creating temp dir: %v", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dir)

	start := time.Now()
	if err := downloadExport(*endpoint, dir); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
	if err := load(db, dir); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
	logging.Infof("sync complete in %s", time.Since(start).Round(time.Second))
}
