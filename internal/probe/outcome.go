package probe

// Outcome tells the caller whether event handling should continue or the
// process should exit with a given status.
type Outcome struct {
	done bool
	code int
}

// Continue keeps the event loop running.
var Continue = Outcome{}

// Terminate ends the event loop with the given exit status.
func Terminate(code int) Outcome {
	return Outcome{done: true, code: code}
}

// Done reports whether the loop should stop.
func (o Outcome) Done() bool {
	return o.done
}

// Code is the exit status for a terminating outcome.
func (o Outcome) Code() int {
	return o.code
}

// String returns the string representation of the outcome
func (o Outcome) String() string {
	if !o.done {
		return "continue"
	}
	return "terminate"
}
