package model

// OutcomeKind tells which branch a code request took.
type OutcomeKind int

const (
	// OutcomeDisabled means the campaign is switched off.
	OutcomeDisabled OutcomeKind = iota + 1
	// OutcomeAlreadyIssued means the requester already holds a code.
	OutcomeAlreadyIssued
	// OutcomeExhausted means every code has been handed out.
	OutcomeExhausted
	// OutcomeIssued means a new code was issued and persisted.
	OutcomeIssued
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDisabled:
		return "disabled"
	case OutcomeAlreadyIssued:
		return "already_issued"
	case OutcomeExhausted:
		return "exhausted"
	case OutcomeIssued:
		return "issued"
	}
	return "unknown"
}

// Outcome is the result of a promo code request.
// Code and Remaining are only set for OutcomeIssued and OutcomeAlreadyIssued.
type Outcome struct {
	Kind      OutcomeKind
	Code      string
	Remaining int
}

// HasCode reports whether the outcome carries a code for the requester.
func (o Outcome) HasCode() bool {
	return o.Kind == OutcomeIssued || o.Kind == OutcomeAlreadyIssued
}

// PromoStatus is a read-only snapshot of the campaign.
type PromoStatus struct {
	Enabled     bool   `json:"enabled"`
	Limit       int    `json:"limit"`
	Prefix      string `json:"prefix"`
	IssuedCount int    `json:"issuedCount"`
	Remaining   int    `json:"remaining"`
}

// PromoSettings is a partial update of the campaign settings. Nil fields are left unchanged.
type PromoSettings struct {
	Enabled *bool   `json:"enabled,omitempty"`
	Limit   *int    `json:"limit,omitempty"`
	Prefix  *string `json:"prefix,omitempty"`
}

// BroadcastReport summarises one broadcast run.
type BroadcastReport struct {
	JobID  string `json:"jobId"`
	Total  int    `json:"total"`
	Sent   int    `json:"sent"`
	Failed int    `json:"failed"`
}
