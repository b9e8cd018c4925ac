package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/cardapio-project/cardapio/pkg/auth"
	appHttp "github.com/cardapio-project/cardapio/pkg/http"
)

// UnaryInterceptor rejects calls without a valid bearer token in the
// "authorization" metadata. Methods listed in public skip the check.
func UnaryInterceptor(authClient Auth, public ...string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, request any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		for _, method := range public {
			if info.FullMethod == method {
				return handler(ctx, request)
			}
		}

		metadatas, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Errorf(codes.Unauthenticated, "missing context metadata")
		}
		key := metadatas.Get("Authorization")
		if len(key) != 1 {
			return nil, status.Errorf(codes.Unauthenticated, "missing authorization token")
		}
		token, err := auth.ExtractBearerToken(key[0])
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		email, err := authClient.Verify(ctx, token)
		if err != nil {
			log.Warn().Err(err).Str("method", info.FullMethod).Msg("Rejected unauthenticated call")
			return nil, status.Error(codes.Unauthenticated, codes.Unauthenticated.String())
		}
		log.Debug().Str("email", email).Str("method", info.FullMethod).Msg("Authenticated call")
		return handler(ctx, request)
	}
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Middleware applies the same bearer token check to REST requests.
func Middleware(authClient Auth, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.ExtractBearerToken(r.Header.Get("Authorization"))
		if err != nil {
			appHttp.WriteJSON(w, http.StatusUnauthorized, errorBody{Detail: err.Error()})
			return
		}
		if _, err := authClient.Verify(r.Context(), token); err != nil {
			log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected unauthenticated request")
			appHttp.WriteJSON(w, http.StatusUnauthorized, errorBody{Detail: "invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
