package domain

type CtxKey string

const (
	KeyCandidateID CtxKey = "CandidateID"
	KeyLocale      CtxKey = "Locale"
	KeyRequestID   CtxKey = "RequestID"
)
