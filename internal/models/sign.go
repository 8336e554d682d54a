package models

const DefaultUserName = "None"

type SignStatus string

const (
	SignStatusSuccess       SignStatus = "success"
	SignStatusAlreadySigned SignStatus = "already_signed"
)

// SignResult is what gets rendered after a successful sign-in. It is never stored.
type SignResult struct {
	UserName       string `json:"user_name"`
	Affection      int    `json:"affection"`
	AffectionTotal int    `json:"affection_total"`
	Stamp          Stamp  `json:"stamp"`
	Background     string `json:"background"`
	Hitokoto       string `json:"hitokoto"`
	Rank           int    `json:"rank"`
	Todo           string `json:"todo"`
}

type SignOutcome struct {
	Status   SignStatus  `json:"status"`
	UserName string      `json:"user_name"`
	Result   *SignResult `json:"result,omitempty"`
}

func (o *SignOutcome) Succeeded() bool {
	return o != nil && o.Status == SignStatusSuccess
}
