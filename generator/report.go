package generator

import "time"

// Result is the outcome of one contract.
type Result struct {
	// Contract is the contract file path.
	Contract string `json:"contract"`
	// Module is the declared module abbreviation, empty when the contract
	// could not be parsed.
	Module string `json:"module,omitempty"`
	// Dir is the module output directory.
	Dir string `json:"dir,omitempty"`
	// Files lists the artifact paths written, or planned in dry-run mode.
	Files []string `json:"files,omitempty"`
	// Duration is the time spent on the contract.
	Duration time.Duration `json:"duration"`
	// Err is the failure, nil on success.
	Err error `json:"-"`
	// Error is the message of Err, for JSON reports.
	Error string `json:"error,omitempty"`
}

// OK reports whether the contract was generated.
func (r Result) OK() bool {
	return r.Err == nil
}

// Report lists the results of a run in processing order.
type Report struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id"`
	// DryRun is true when nothing was written.
	DryRun  bool     `json:"dry_run"`
	Results []Result `json:"results"`
}

// Succeeded returns the successful results.
func (r *Report) Succeeded() []Result {
	return r.filter(true)
}

// Failed returns the failed results.
func (r *Report) Failed() []Result {
	return r.filter(false)
}

func (r *Report) filter(ok bool) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.OK() == ok {
			out = append(out, res)
		}
	}
	return out
}
