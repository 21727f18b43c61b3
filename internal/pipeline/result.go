package pipeline

const (
	StageValidation    = "validation"
	StageBusinessRule  = "business_rule"
	StageAuthorization = "authorization"
)

// Result is the decision handed back to the caller. Errors is empty on success.
type Result struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors"`
	Stage   string   `json:"stage,omitempty"`
}

func Succeeded() Result {
	return Result{Success: true, Errors: []string{}}
}

func Failed(stage, message string, errs ...string) Result {
	if errs == nil {
		errs = []string{}
	}
	return Result{
		Success: false,
		Message: message,
		Errors:  errs,
		Stage:   stage,
	}
}

// Outcome is what a single handler decides: either hand the request on or stop
// the chain with a failure result.
type Outcome struct {
	stop   bool
	result Result
}

func Continue() Outcome {
	return Outcome{}
}

func Stop(result Result) Outcome {
	return Outcome{stop: true, result: result}
}

// Stopped returns the failure result and true when the handler stopped the chain.
func (o Outcome) Stopped() (Result, bool) {
	return o.result, o.stop
}
