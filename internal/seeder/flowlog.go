// Package seeder generates synthetic flow-log files for exercising upload and search.
package seeder

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/afero"
)

// Columns is the flow-log column order the backend parses.
var Columns = []string{
	"serialno", "version", "account_id", "instance_id",
	"srcaddr", "dstaddr", "srcport", "dstport", "protocol",
	"packets", "bytes", "starttime", "endtime", "action", "log_status",
}

// DefaultDelimiter separates columns in generated lines.
const DefaultDelimiter = "|"

// Options controls generation.
type Options struct {
	Count     int
	Seed      int64 // 0 seeds randomly
	Header    bool
	Delimiter string
	End       time.Time     // newest event ends at or before End; zero means now
	Spread    time.Duration // events start within [End-Spread, End]
	Accounts  int           // distinct account ids
}

func (o Options) withDefaults() Options {
	if o.Delimiter == "" {
		o.Delimiter = DefaultDelimiter
	}
	if o.End.IsZero() {
		o.End = time.Now()
	}
	if o.Spread <= 0 {
		o.Spread = time.Hour
	}
	if o.Accounts <= 0 {
		o.Accounts = 3
	}
	return o
}

var (
	protocols   = []int{6, 6, 6, 17, 17, 1, 47, 50}
	actions     = []string{"ACCEPT", "ACCEPT", "ACCEPT", "REJECT"}
	logStatuses = []string{"OK", "OK", "OK", "OK", "NODATA", "SKIPDATA"}
	wellKnown   = []int{22, 53, 80, 123, 443, 3306, 5432, 8080}
)

// Generator produces flow-log rows.
type Generator struct {
	faker    *gofakeit.Faker
	opts     Options
	accounts []string
	serial   int64
}

// NewGenerator creates a Generator. Equal non-zero seeds produce equal output.
func NewGenerator(opts Options) *Generator {
	opts = opts.withDefaults()
	f := gofakeit.New(opts.Seed)

	accounts := make([]string, opts.Accounts)
	for i := range accounts {
		accounts[i] = f.DigitN(12)
	}
	return &Generator{faker: f, opts: opts, accounts: accounts}
}

// Row returns the next flow-log row, one value per column.
func (g *Generator) Row() []string {
	f := g.faker
	g.serial++

	srcPort, dstPort := f.Number(1024, 65535), wellKnown[f.Number(0, len(wellKnown)-1)]
	if f.Bool() {
		srcPort, dstPort = dstPort, srcPort
	}

	packets := f.Number(1, 500)
	bytes := packets * f.Number(40, 1500)

	offset := time.Duration(f.Int64()%int64(g.opts.Spread)).Abs()
	start := g.opts.End.Add(-g.opts.Spread + offset).Unix()
	end := min(start+int64(f.Number(1, 60)), g.opts.End.Unix())

	status := logStatuses[f.Number(0, len(logStatuses)-1)]
	action := actions[f.Number(0, len(actions)-1)]

	return []string{
		strconv.FormatInt(g.serial, 10),
		"2",
		g.accounts[f.Number(0, len(g.accounts)-1)],
		fmt.Sprintf("i-%016x", f.Uint64()),
		f.IPv4Address(),
		f.IPv4Address(),
		strconv.Itoa(srcPort),
		strconv.Itoa(dstPort),
		strconv.Itoa(protocols[f.Number(0, len(protocols)-1)]),
		strconv.Itoa(packets),
		strconv.Itoa(bytes),
		strconv.FormatInt(start, 10),
		strconv.FormatInt(end, 10),
		action,
		status,
	}
}

// Write writes opts.Count rows to w and returns the number of rows written.
func (g *Generator) Write(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	if g.opts.Header {
		if _, err := fmt.Fprintln(bw, strings.Join(Columns, g.opts.Delimiter)); err != nil {
			return 0, err
		}
	}
	for i := 0; i < g.opts.Count; i++ {
		if _, err := fmt.Fprintln(bw, strings.Join(g.Row(), g.opts.Delimiter)); err != nil {
			return i, err
		}
	}
	return g.opts.Count, bw.Flush()
}

// WriteFile generates a flow-log file at path on fs.
func WriteFile(fs afero.Fs, path string, opts Options) (int, error) {
	f, err := fs.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	n, err := NewGenerator(opts).Write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return n, nil
}
