package ctxutil

import "context"

type requestDataKey struct{}

// RequestData describes the authenticated caller of the current request.
type RequestData struct {
	TokenString string
	UserID      uint
	Username    string
	Role        string
	IsSuperuser bool
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// Authenticated reports whether ctx carries a resolved user.
func Authenticated(ctx context.Context) bool {
	rd := GetRequestData(ctx)
	return rd != nil && rd.UserID != 0
}
