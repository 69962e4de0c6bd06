package types

// HostRecord is one validated data row from the input file. Fields maps
// every known technical column key to its trimmed value (parsed or
// defaulted). Line keeps the original file line number, counting the
// header as line 1, for error reporting and outcome correlation.
type HostRecord struct {
	Line   int
	Fields map[string]string
}

func (r HostRecord) Get(key string) string {
	return r.Fields[key]
}

// ImportOutcome is the per-row result of an import run. Exactly one
// outcome exists per imported row, in original row order. HostID is the
// remote-assigned identifier on success; Failure carries the reason
// otherwise.
type ImportOutcome struct {
	Line    int
	Host    string
	HostID  int64
	Failure string
}

func (o ImportOutcome) Failed() bool {
	return o.Failure != ""
}
