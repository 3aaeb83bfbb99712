package report

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/vibe-utr/internal/utr"
)

// Side is the report view of one side's extension decision.
type Side struct {
	Status     string
	Candidates int64
	Support    int64
	Coordinate int64
	Evidence   string
	Bases      int64
}

// Row is one emitted transcript.
type Row struct {
	Seq       int64
	Name      string
	Chrom     string
	Strand    string
	OrigStart int64
	OrigEnd   int64
	NewStart  int64
	NewEnd    int64
	UTR5      Side
	UTR3      Side
}

// StatusCount is the number of transcript sides with a given status.
type StatusCount struct {
	Side   string // "5" or "3"
	Status string
	Count  int64
}

// FromResult converts an extension result to a report row.
func FromResult(res *utr.Result) Row {
	return Row{
		Seq:       int64(res.Seq),
		Name:      res.Input.Name,
		Chrom:     res.Input.Chrom,
		Strand:    res.Input.Strand,
		OrigStart: res.Input.Start,
		OrigEnd:   res.Input.End,
		NewStart:  res.Output.Start,
		NewEnd:    res.Output.End,
		UTR5:      fromDecision(res.UTR5),
		UTR3:      fromDecision(res.UTR3),
	}
}

func fromDecision(d utr.SideDecision) Side {
	return Side{
		Status:     string(d.Status),
		Candidates: int64(d.Candidates),
		Support:    int64(d.Support),
		Coordinate: d.Coordinate,
		Evidence:   d.Evidence,
		Bases:      d.Bases,
	}
}

// WriteExtensions batch-inserts rows into DuckDB using the Appender API.
func (s *Store) WriteExtensions(rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "utr_extensions")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range rows {
		if err := appender.AppendRow(
			r.Seq, r.Name, r.Chrom, r.Strand,
			r.OrigStart, r.OrigEnd, r.NewStart, r.NewEnd,
			r.UTR5.Status, r.UTR5.Candidates, r.UTR5.Support, r.UTR5.Coordinate, r.UTR5.Evidence, r.UTR5.Bases,
			r.UTR3.Status, r.UTR3.Candidates, r.UTR3.Support, r.UTR3.Coordinate, r.UTR3.Evidence, r.UTR3.Bases,
		); err != nil {
			return fmt.Errorf("append extension row: %w", err)
		}
	}

	return appender.Flush()
}

// ClearExtensions removes all stored extension rows.
func (s *Store) ClearExtensions() error {
	_, err := s.db.Exec("DELETE FROM utr_extensions")
	return err
}

const selectRows = `SELECT
	seq, name, chrom, strand, orig_start, orig_end, new_start, new_end,
	utr5_status, utr5_candidates, utr5_support, utr5_coord, utr5_evidence, utr5_bases,
	utr3_status, utr3_candidates, utr3_support, utr3_coord, utr3_evidence, utr3_bases
	FROM utr_extensions`

// Lookup returns the rows for a transcript name in output order.
func (s *Store) Lookup(name string) ([]Row, error) {
	rows, err := s.db.Query(selectRows+` WHERE name=? ORDER BY seq`, name)
	if err != nil {
		return nil, fmt.Errorf("query extensions: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// All returns every stored row in output order.
func (s *Store) All() ([]Row, error) {
	rows, err := s.db.Query(selectRows + ` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query extensions: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// StatusCounts returns the number of transcript sides per status, 5' first.
func (s *Store) StatusCounts() ([]StatusCount, error) {
	rows, err := s.db.Query(`SELECT side, status, count(*) FROM (
		SELECT '5' AS side, utr5_status AS status FROM utr_extensions
		UNION ALL
		SELECT '3' AS side, utr3_status AS status FROM utr_extensions
	) GROUP BY side, status ORDER BY side DESC, status`)
	if err != nil {
		return nil, fmt.Errorf("query status counts: %w", err)
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Side, &c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

// scanRows scans query rows into Row slices.
func scanRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]Row, error) {
	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(
			&r.Seq, &r.Name, &r.Chrom, &r.Strand,
			&r.OrigStart, &r.OrigEnd, &r.NewStart, &r.NewEnd,
			&r.UTR5.Status, &r.UTR5.Candidates, &r.UTR5.Support, &r.UTR5.Coordinate, &r.UTR5.Evidence, &r.UTR5.Bases,
			&r.UTR3.Status, &r.UTR3.Candidates, &r.UTR3.Support, &r.UTR3.Coordinate, &r.UTR3.Evidence, &r.UTR3.Bases,
		); err != nil {
			return nil, fmt.Errorf("scan extension row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extension rows: %w", err)
	}
	return out, nil
}
