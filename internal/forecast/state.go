package forecast

// User-facing failure messages.
const (
	MsgInvalidInput  = "Please fill in all fields with valid numbers"
	MsgRequestFailed = "Failed to get prediction. Please try again."
)

// State is the request lifecycle: Idle, Pending, Failed or Succeeded.
// Only types in this package implement it.
type State interface {
	isState()
}

// Idle is the initial state; nothing has been submitted yet.
type Idle struct{}

// Pending means one request is in flight.
type Pending struct{}

// FailureKind tells validation failures apart from request failures.
type FailureKind int

const (
	FailureValidation FailureKind = iota + 1
	FailureRequest
)

func (k FailureKind) String() string {
	switch k {
	case FailureValidation:
		return "validation"
	case FailureRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Failed holds the message shown to the user. Cause is kept for logs only.
// Previous carries a forecast that was on screen before a validation
// failure; request failures never set it.
type Failed struct {
	Kind     FailureKind
	Message  string
	Cause    error
	Previous *Succeeded
}

// Succeeded holds the first predicted value and the request that produced it.
type Succeeded struct {
	Amount     float64
	Confidence float64
	Request    Request
}

func (Idle) isState()      {}
func (Pending) isState()   {}
func (Failed) isState()    {}
func (Succeeded) isState() {}
