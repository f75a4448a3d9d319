package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const subjectKey contextKey = "subject"

// IdentityHeader carries the authenticated subject from the gateway to agent
// services. Agents trust this header because only the gateway can reach them.
const IdentityHeader = "X-Studymate-User"

func SetSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

func GetSubject(r *http.Request) (string, bool) {
	subject, ok := r.Context().Value(subjectKey).(string)
	return subject, ok && subject != ""
}
