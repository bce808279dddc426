package checkout

// Status tracks a prepaid checkout session through payment confirmation.
type Status string

const (
	StatusInitiated        Status = "INITIATED"
	StatusPaymentPending   Status = "PAYMENT_PENDING"
	StatusPaymentCompleted Status = "PAYMENT_COMPLETED"
	StatusCompleted        Status = "COMPLETED"
	StatusFailed           Status = "FAILED"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s Status) String() string {
	return string(s)
}

var transitions = map[Status][]Status{
	StatusInitiated:        {StatusPaymentPending, StatusFailed},
	StatusPaymentPending:   {StatusPaymentCompleted, StatusFailed},
	StatusPaymentCompleted: {StatusCompleted, StatusFailed},
}

// CanTransitionTo reports whether moving from one status to the next is a
// legal step in the checkout lifecycle.
func CanTransitionTo(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
