package models

type TargetKind int

const (
	TargetMention TargetKind = iota + 1
	TargetRawID
)

// Target names the subject of an album query, either mentioned or typed as an id.
type Target struct {
	Kind   TargetKind
	UserID string
}

func Mention(userID string) *Target {
	return &Target{Kind: TargetMention, UserID: userID}
}

func RawID(userID string) *Target {
	return &Target{Kind: TargetRawID, UserID: userID}
}
